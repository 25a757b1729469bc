package pdst

import (
	"errors"
	"fmt"
)

var (
	ErrIO               = errors.New("pdst: io error")
	ErrNetwork          = errors.New("pdst: network error")
	ErrRemote           = errors.New("pdst: remote error")
	ErrInvalidSelection = errors.New("pdst: invalid selection")
	ErrUserAborted      = errors.New("pdst: aborted by user")

	// ErrNoReceipt guards local deletion: it is returned when the last
	// acknowledgement for a file was anything but Created.
	ErrNoReceipt = errors.New("pdst: no created receipt for file")
	// ErrContentChanged is returned when the local file no longer matches
	// the content the store acknowledged.
	ErrContentChanged = errors.New("pdst: local content changed since it was stored")
	// ErrUnverified is returned when the store could not hand back the
	// exact bytes it acknowledged.
	ErrUnverified = errors.New("pdst: stored content could not be verified")
	// ErrUnsafeName is returned for custody names that are not plain
	// relative paths.
	ErrUnsafeName = errors.New("pdst: unsafe file name from custody")
)

// ErrorKind classifies why an operation did not complete.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindIO
	KindNetwork
	KindRemote
	KindInvalidSelection
	KindUserAborted
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "IOError"
	case KindNetwork:
		return "NetworkError"
	case KindRemote:
		return "RemoteError"
	case KindInvalidSelection:
		return "InvalidSelection"
	case KindUserAborted:
		return "UserAborted"
	default:
		return "None"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindNetwork:
		return ErrNetwork
	case KindRemote:
		return ErrRemote
	case KindInvalidSelection:
		return ErrInvalidSelection
	case KindUserAborted:
		return ErrUserAborted
	default:
		return nil
	}
}

// Error is the error carried by a Failed or Aborted outcome.
// errors.Is matches both the kind sentinel and the wrapped cause.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the ErrorKind of err, or KindNone.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
