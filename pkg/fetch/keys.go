package fetch

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// camelCaseKey converts a snake_case key to camelCase. Leading and trailing
// underscores are kept; keys with a single word are returned unchanged.
func camelCaseKey(key string) string {
	start := strings.IndexFunc(key, func(r rune) bool { return r != '_' })
	if start < 0 {
		return key
	}
	end := strings.LastIndexFunc(key, func(r rune) bool { return r != '_' }) + 1

	words := strings.FieldsFunc(key[start:end], func(r rune) bool { return r == '_' })
	if len(words) == 1 {
		return key
	}

	var b strings.Builder
	b.Grow(len(key))
	b.WriteString(key[:start])
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(capitalize(w))
	}
	b.WriteString(key[end:])
	return b.String()
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

// camelCaseKeys rewrites every object key in a decoded JSON tree.
func camelCaseKeys(v any) (any, error) {
	return camelCaseAt(v, "")
}

func camelCaseAt(v any, path string) (any, error) {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		origin := make(map[string]string, len(node))
		for k, child := range node {
			name := camelCaseKey(k)
			if prev, dup := origin[name]; dup {
				return nil, fmt.Errorf("keys %q and %q both map to %q at %s", prev, k, name, displayPath(path))
			}
			converted, err := camelCaseAt(child, joinPath(path, name))
			if err != nil {
				return nil, err
			}
			origin[name] = k
			out[name] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			converted, err := camelCaseAt(child, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	default:
		return v, nil
	}
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func displayPath(path string) string {
	if path == "" {
		return "top level"
	}
	return path
}
