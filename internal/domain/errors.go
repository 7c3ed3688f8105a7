package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a failure so hosts can branch on it without parsing text.
type Kind int

const (
	KindUnknown Kind = iota

	// Source acquisition and I/O.
	KindNotFound
	KindPermissionDenied
	KindNotAFile
	KindEmptyFile
	KindClosed
	KindOutOfBounds
	KindIO

	// Configuration and decode.
	KindInvalidConfiguration
	KindOffsetExceedsFileSize
	KindFileTooSmallForOneFrame
	KindFrameIndexOutOfRange
	KindInsufficientData
	KindShapeMismatch

	// Search input.
	KindInvalidPattern

	// Cursor.
	KindInvalidTotal
	KindInvalidRate
	KindIndexOutOfRange
)

var kindNames = map[Kind]string{
	KindUnknown:                 "Unknown",
	KindNotFound:                "NotFound",
	KindPermissionDenied:        "PermissionDenied",
	KindNotAFile:                "NotAFile",
	KindEmptyFile:               "EmptyFile",
	KindClosed:                  "Closed",
	KindOutOfBounds:             "OutOfBounds",
	KindIO:                      "IOError",
	KindInvalidConfiguration:    "InvalidConfiguration",
	KindOffsetExceedsFileSize:   "OffsetExceedsFileSize",
	KindFileTooSmallForOneFrame: "FileTooSmallForOneFrame",
	KindFrameIndexOutOfRange:    "FrameIndexOutOfRange",
	KindInsufficientData:        "InsufficientData",
	KindShapeMismatch:           "ShapeMismatch",
	KindInvalidPattern:          "InvalidPattern",
	KindInvalidTotal:            "InvalidTotal",
	KindInvalidRate:             "InvalidRate",
	KindIndexOutOfRange:         "IndexOutOfRange",
}

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Unknown"
}

// Error is the structured failure returned by every rawframe operation.
// Values holds the quantities involved (for example "required" and
// "available" byte counts) so a host can render a message without
// re-deriving context.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
	Values map[string]int64
	Err    error
}

// Error renders "rawframe: op: Kind: detail (k=v ...): cause".
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("rawframe: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Values) > 0 {
		keys := make([]string, 0, len(e.Values))
		for k := range e.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s=%d", k, e.Values[k])
		}
		b.WriteByte(')')
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel of the same kind. Sentinels are the
// Err* values below; matching ignores Op, Detail and Values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Detail == "" && t.Err == nil
}

// Value returns a named quantity attached to the error.
func (e *Error) Value(key string) (int64, bool) {
	v, ok := e.Values[key]
	return v, ok
}

// Sentinel errors for use with errors.Is.
var (
	ErrNotFound                = &Error{Kind: KindNotFound}
	ErrPermissionDenied        = &Error{Kind: KindPermissionDenied}
	ErrNotAFile                = &Error{Kind: KindNotAFile}
	ErrEmptyFile               = &Error{Kind: KindEmptyFile}
	ErrClosed                  = &Error{Kind: KindClosed}
	ErrOutOfBounds             = &Error{Kind: KindOutOfBounds}
	ErrIO                      = &Error{Kind: KindIO}
	ErrInvalidConfiguration    = &Error{Kind: KindInvalidConfiguration}
	ErrOffsetExceedsFileSize   = &Error{Kind: KindOffsetExceedsFileSize}
	ErrFileTooSmallForOneFrame = &Error{Kind: KindFileTooSmallForOneFrame}
	ErrFrameIndexOutOfRange    = &Error{Kind: KindFrameIndexOutOfRange}
	ErrInsufficientData        = &Error{Kind: KindInsufficientData}
	ErrShapeMismatch           = &Error{Kind: KindShapeMismatch}
	ErrInvalidPattern          = &Error{Kind: KindInvalidPattern}
	ErrInvalidTotal            = &Error{Kind: KindInvalidTotal}
	ErrInvalidRate             = &Error{Kind: KindInvalidRate}
	ErrIndexOutOfRange         = &Error{Kind: KindIndexOutOfRange}
)

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// With attaches a named quantity and returns e for chaining.
func (e *Error) With(key string, v int64) *Error {
	if e.Values == nil {
		e.Values = make(map[string]int64, 2)
	}
	e.Values[key] = v
	return e
}

// Wrap attaches an underlying cause and returns e for chaining.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
