package domain

import (
	"fmt"

	m "sieve.dev/pkg/sieve/internal/model"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind string

// Error kinds raised by the pipeline stages.
const (
	KindScan               ErrorKind = "scan"
	KindAlreadyQuarantined ErrorKind = "already quarantined"
	KindIO                 ErrorKind = "io"
	KindDecode             ErrorKind = "decode"
	KindQuarantine         ErrorKind = "quarantine"
	KindMove               ErrorKind = "move"
)

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrScan               = &Error{Kind: KindScan}
	ErrAlreadyQuarantined = &Error{Kind: KindAlreadyQuarantined}
	ErrIO                 = &Error{Kind: KindIO}
	ErrDecode             = &Error{Kind: KindDecode}
	ErrQuarantine         = &Error{Kind: KindQuarantine}
	ErrMove               = &Error{Kind: KindMove}
)

// Error is a pipeline failure tied to a path.
type Error struct {
	Kind ErrorKind
	Path m.Path
	Err  error
}

func newError(kind ErrorKind, path m.Path, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	switch {
	case e.Path == "" && e.Err == nil:
		return fmt.Sprintf("%s error", e.Kind)
	case e.Err == nil:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Path)
	case e.Path == "":
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

// Is matches any *Error with the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}

	return e.Kind == t.Kind
}
