package fetch

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type person struct {
	UserName string `json:"userName"`
	Age      int    `json:"age"`
}

type address struct {
	StreetName string
	ZipCode    *string
}

type profile struct {
	DisplayName string
	Address     address
	Tags        []string `json:",omitempty"`
	Nickname    *string
	Extra       any
	JoinedAt    time.Time
}

type base struct {
	RecordID int
}

type record struct {
	base
	Label string `json:"label"`
}

func TestDecodeBodyMapsSnakeCaseKeys(t *testing.T) {
	got, err := decodeBody[person]([]byte(`{"user_name": "ada", "age": 36}`))
	if err != nil {
		t.Fatalf("decodeBody: %v", err)
	}
	if got != (person{UserName: "ada", Age: 36}) {
		t.Fatalf("unexpected value %+v", got)
	}
}

func TestDecodeBodyNestedAndOptional(t *testing.T) {
	body := `{
		"display_name": "Ada",
		"address": {"street_name": "Main"},
		"joined_at": "2024-01-02T03:04:05Z",
		"unknown_key": true
	}`
	got, err := decodeBody[profile]([]byte(body))
	if err != nil {
		t.Fatalf("decodeBody: %v", err)
	}
	if got.DisplayName != "Ada" || got.Address.StreetName != "Main" {
		t.Fatalf("unexpected value %+v", got)
	}
	if got.Address.ZipCode != nil || got.Nickname != nil {
		t.Fatalf("expected optional pointers to stay nil: %+v", got)
	}
	if !got.JoinedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected joined_at %v", got.JoinedAt)
	}
}

func TestDecodeBodyEmbeddedStruct(t *testing.T) {
	got, err := decodeBody[record]([]byte(`{"record_id": 7, "label": "x"}`))
	if err != nil {
		t.Fatalf("decodeBody: %v", err)
	}
	if got.RecordID != 7 || got.Label != "x" {
		t.Fatalf("unexpected value %+v", got)
	}

	if _, err := decodeBody[record]([]byte(`{"label": "x"}`)); err == nil {
		t.Fatalf("expected missing embedded field error")
	}
}

func TestDecodeBodyFailures(t *testing.T) {
	cases := []struct {
		name string
		body string
		run  func([]byte) error
		want string
	}{
		{
			name: "missing required field",
			body: `{"user_name": "ada"}`,
			run:  func(b []byte) error { _, err := decodeBody[person](b); return err },
			want: `missing required field "age"`,
		},
		{
			name: "null required field",
			body: `{"user_name": null, "age": 1}`,
			run:  func(b []byte) error { _, err := decodeBody[person](b); return err },
			want: `missing required field "userName"`,
		},
		{
			name: "missing nested field",
			body: `{"display_name": "a", "address": {}, "joined_at": "2024-01-02T03:04:05Z"}`,
			run:  func(b []byte) error { _, err := decodeBody[profile](b); return err },
			want: `missing required field "Address.StreetName"`,
		},
		{
			name: "type mismatch",
			body: `{"user_name": "ada", "age": "old"}`,
			run:  func(b []byte) error { _, err := decodeBody[person](b); return err },
			want: "decode into",
		},
		{
			name: "fraction into int",
			body: `{"user_name": "ada", "age": 36.5}`,
			run:  func(b []byte) error { _, err := decodeBody[person](b); return err },
			want: "decode into",
		},
		{
			name: "malformed json",
			body: `{"user_name": `,
			run:  func(b []byte) error { _, err := decodeBody[person](b); return err },
			want: "parse json",
		},
		{
			name: "trailing data",
			body: `{"user_name": "ada", "age": 1} {}`,
			run:  func(b []byte) error { _, err := decodeBody[person](b); return err },
			want: "unexpected data",
		},
		{
			name: "top level null",
			body: `null`,
			run:  func(b []byte) error { _, err := decodeBody[person](b); return err },
			want: "null value",
		},
		{
			name: "slice element missing field",
			body: `[{"user_name": "a", "age": 1}, {"age": 2}]`,
			run:  func(b []byte) error { _, err := decodeBody[[]person](b); return err },
			want: `missing required field "[1].userName"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run([]byte(tc.body))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestDecodeBodyMissingFieldErrorType(t *testing.T) {
	_, err := decodeBody[person]([]byte(`{"age": 3}`))
	var mf *MissingFieldError
	if !errors.As(err, &mf) || mf.Path != "userName" {
		t.Fatalf("expected MissingFieldError for userName, got %v", err)
	}
}

func TestDecodeBodyUntypedTargets(t *testing.T) {
	got, err := decodeBody[map[string]any]([]byte(`{"first_name": "a", "items": [{"item_id": 1}]}`))
	if err != nil {
		t.Fatalf("decodeBody: %v", err)
	}
	if got["firstName"] != "a" {
		t.Fatalf("expected converted key, got %v", got)
	}
	items, ok := got["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("unexpected items %v", got["items"])
	}
	if _, ok := items[0].(map[string]any)["itemId"]; !ok {
		t.Fatalf("expected nested key converted, got %v", items[0])
	}

	n, err := decodeBody[int64]([]byte(`9007199254740993`))
	if err != nil || n != 9007199254740993 {
		t.Fatalf("expected exact int64, got %d err=%v", n, err)
	}
}

func TestDecodeBodyMatchesFieldNamesIgnoringCase(t *testing.T) {
	got, err := decodeBody[person]([]byte(`{"username": "x", "AGE": 1}`))
	if err != nil {
		t.Fatalf("decodeBody: %v", err)
	}
	if got != (person{UserName: "x", Age: 1}) {
		t.Fatalf("unexpected value %+v", got)
	}
}
