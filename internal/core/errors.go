package core

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates recoverable from fatal pipeline failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindRowSkipped
	KindDateParseFailure
	KindSourceUnavailable
	KindSinkFailure
)

var (
	ErrRowSkipped        = errors.New("row skipped")
	ErrDateParse         = errors.New("date parse failure")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrSinkFailure       = errors.New("sink failure")
)

// Error is a classified pipeline error. Row is the zero-based source row
// index, or -1 when the error is not tied to a row.
type Error struct {
	Kind ErrorKind
	Op   string
	Row  int
	Err  error
}

// NewError wraps err with a kind and operation name.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Row: -1, Err: err}
}

// NewRowError wraps err with a kind, operation name and row index.
func NewRowError(kind ErrorKind, op string, row int, err error) *Error {
	return &Error{Kind: kind, Op: op, Row: row, Err: err}
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Row >= 0 {
		msg = fmt.Sprintf("%s (row %d)", msg, e.Row)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", msg, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", msg, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an *Error against the kind sentinels.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Fatal reports whether the kind aborts the run.
func (k ErrorKind) Fatal() bool {
	return k != KindRowSkipped
}

func (k ErrorKind) String() string {
	switch k {
	case KindRowSkipped:
		return "RowSkipped"
	case KindDateParseFailure:
		return "DateParseFailure"
	case KindSourceUnavailable:
		return "SourceUnavailable"
	case KindSinkFailure:
		return "SinkFailure"
	default:
		return "Unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindRowSkipped:
		return ErrRowSkipped
	case KindDateParseFailure:
		return ErrDateParse
	case KindSourceUnavailable:
		return ErrSourceUnavailable
	case KindSinkFailure:
		return ErrSinkFailure
	default:
		return nil
	}
}

// KindOf classifies err, returning KindUnknown for unclassified errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrRowSkipped):
		return KindRowSkipped
	case errors.Is(err, ErrDateParse):
		return KindDateParseFailure
	case errors.Is(err, ErrSourceUnavailable):
		return KindSourceUnavailable
	case errors.Is(err, ErrSinkFailure):
		return KindSinkFailure
	default:
		return KindUnknown
	}
}
