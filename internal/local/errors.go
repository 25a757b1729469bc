package local

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies a local filesystem failure.
type Kind int

const (
	KindIO Kind = iota
	KindNotFound
	KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission denied"
	default:
		return "io error"
	}
}

// Error is returned by every Files method.
type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	default:
		return KindIO
	}
}

// IsNotFound reports whether err is a local NotFound failure.
func IsNotFound(err error) bool {
	var le *Error
	return errors.As(err, &le) && le.Kind == KindNotFound
}
