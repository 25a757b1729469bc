package pdst

import "fmt"

// OutcomeKind is the terminal state of an operation.
type OutcomeKind int

const (
	Completed OutcomeKind = iota + 1
	Aborted
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the single result of Execute.
type Outcome struct {
	Kind    OutcomeKind
	Message string
	// Advisory marks a Completed outcome that deserves attention, such as
	// a file that was already in custody.
	Advisory bool
	// Err is set for Failed and Aborted outcomes.
	Err error
}

// ErrorKind returns the kind of Err, or KindNone.
func (o Outcome) ErrorKind() ErrorKind { return KindOf(o.Err) }

func (o Outcome) String() string {
	if o.Kind == Failed && o.Err != nil {
		return fmt.Sprintf("%s(%s): %v", o.Kind, o.ErrorKind(), o.Err)
	}
	return fmt.Sprintf("%s: %s", o.Kind, o.Message)
}

func completed(format string, args ...any) Outcome {
	return Outcome{Kind: Completed, Message: fmt.Sprintf(format, args...)}
}

func advisory(format string, args ...any) Outcome {
	return Outcome{Kind: Completed, Message: fmt.Sprintf(format, args...), Advisory: true}
}

func aborted(kind ErrorKind, reason string) Outcome {
	return Outcome{Kind: Aborted, Message: reason, Err: &Error{Kind: kind, Op: reason}}
}

func invalidSelection() Outcome {
	return aborted(KindInvalidSelection, "invalid selection")
}

func failed(err *Error) Outcome {
	return Outcome{Kind: Failed, Message: err.Error(), Err: err}
}
