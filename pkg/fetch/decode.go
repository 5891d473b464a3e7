package fetch

import (
	"bytes"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
)

var (
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// decodeBody parses body as a single JSON value, camelCases its keys and
// decodes the result into T, enforcing required struct fields.
func decodeBody[T any](body []byte) (T, error) {
	var out T

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return out, fmt.Errorf("parse json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return out, fmt.Errorf("parse json: unexpected data after top-level value")
	}

	converted, err := camelCaseKeys(tree)
	if err != nil {
		return out, fmt.Errorf("convert keys: %w", err)
	}

	raw, err := json.Marshal(converted)
	if err != nil {
		return out, fmt.Errorf("re-encode json: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode into %s: %w", typeName[T](), err)
	}

	if err := checkRequired(reflect.TypeOf(&out).Elem(), converted, ""); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// MissingFieldError reports a required struct field absent from (or null in) the body.
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Path)
}

// checkRequired walks t alongside the decoded tree v. Pointer and interface
// fields, and fields tagged omitempty or omitzero, are optional.
func checkRequired(t reflect.Type, v any, path string) error {
	for t.Kind() == reflect.Pointer {
		if v == nil {
			return nil
		}
		t = t.Elem()
	}
	if customDecoded(t) || t.Kind() == reflect.Interface {
		return nil
	}
	if v == nil {
		return fmt.Errorf("null value for %s at %s", t, displayPath(path))
	}

	switch t.Kind() {
	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		return checkStruct(t, obj, path)
	case reflect.Slice, reflect.Array:
		items, ok := v.([]any)
		if !ok {
			return nil
		}
		for i, item := range items {
			if err := checkRequired(t.Elem(), item, indexPath(path, i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		for k, item := range obj {
			if err := checkRequired(t.Elem(), item, joinPath(path, k)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkStruct(t reflect.Type, obj map[string]any, path string) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, opts, skip := jsonField(f)
		if skip {
			continue
		}

		if f.Anonymous && !hasTagName(f) {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				continue
			}
			if ft.Kind() == reflect.Struct {
				if err := checkStruct(ft, obj, path); err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		val, present := lookupKey(obj, name)
		fieldPath := joinPath(path, name)
		if !present || val == nil {
			if isRequired(f, opts) {
				return &MissingFieldError{Path: fieldPath}
			}
			continue
		}
		if err := checkRequired(f.Type, val, fieldPath); err != nil {
			return err
		}
	}
	return nil
}

// jsonField resolves a field's JSON name the way encoding/json does.
func jsonField(f reflect.StructField) (name, opts string, skip bool) {
	if !f.IsExported() && !f.Anonymous {
		return "", "", true
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", "", true
	}
	name, opts, _ = strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, opts, false
}

func hasTagName(f reflect.StructField) bool {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	return name != ""
}

func isRequired(f reflect.StructField, opts string) bool {
	switch f.Type.Kind() {
	case reflect.Pointer, reflect.Interface:
		return false
	}
	for _, o := range strings.Split(opts, ",") {
		if o == "omitempty" || o == "omitzero" {
			return false
		}
	}
	return true
}

// lookupKey prefers an exact key match and falls back to a case-insensitive one.
func lookupKey(obj map[string]any, name string) (any, bool) {
	if v, ok := obj[name]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func customDecoded(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return t.Implements(jsonUnmarshalerType) || pt.Implements(jsonUnmarshalerType) ||
		t.Implements(textUnmarshalerType) || pt.Implements(textUnmarshalerType)
}
