package fetch

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed fetch. It is the only part of an Error callers need to branch on.
type Kind int

const (
	KindInvalidURL Kind = iota + 1
	KindNoData
	KindDecoding
)

// Sentinels matched by errors.Is against any *Error of the same Kind.
var (
	ErrInvalidURL = errors.New("invalid url")
	ErrNoData     = errors.New("no data")
	ErrDecoding   = errors.New("decoding error")
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindNoData:
		return "no_data"
	case KindDecoding:
		return "decoding_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidURL:
		return ErrInvalidURL
	case KindNoData:
		return ErrNoData
	case KindDecoding:
		return ErrDecoding
	default:
		return nil
	}
}

// Cause tells apart the failures folded into KindNoData.
type Cause int

const (
	CauseNone Cause = iota
	CauseTransport
	CauseStatus
	CauseEmptyBody
)

func (c Cause) String() string {
	switch c {
	case CauseTransport:
		return "transport"
	case CauseStatus:
		return "status"
	case CauseEmptyBody:
		return "empty_body"
	default:
		return "none"
	}
}

// Error is the only error type returned by Fetch and its async forms.
type Error struct {
	Kind       Kind
	Cause      Cause
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.URL != "" {
		fmt.Fprintf(&b, "fetch %q: ", e.URL)
	}
	if s := e.Kind.sentinel(); s != nil {
		b.WriteString(s.Error())
	} else {
		b.WriteString(e.Kind.String())
	}
	switch e.Cause {
	case CauseStatus:
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	case CauseEmptyBody:
		b.WriteString(" (empty body)")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of the first *Error in err's chain, or 0 when there is none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
