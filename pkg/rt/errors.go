package rt

import "fmt"

// ErrorKind classifies a runtime failure the way the source language names
// its exceptions.
type ErrorKind int

const (
	TypeError ErrorKind = iota
	IndexError
	KeyError
	ZeroDivisionError
	ValueError
	BorrowError
	EOFError
	NameError
	AttributeError
)

func (k ErrorKind) String() string {
	switch k {
	case TypeError:
		return "TypeError"
	case IndexError:
		return "IndexError"
	case KeyError:
		return "KeyError"
	case ZeroDivisionError:
		return "ZeroDivisionError"
	case ValueError:
		return "ValueError"
	case BorrowError:
		return "BorrowError"
	case EOFError:
		return "EOFError"
	case NameError:
		return "NameError"
	case AttributeError:
		return "AttributeError"
	default:
		return "RuntimeError"
	}
}

// Error is the payload of every runtime panic raised by this package.
// Generated programs never recover from it; Exit reports it and terminates.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Msg
}

func raise(kind ErrorKind, format string, args ...any) {
	panic(&Error{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

// Undefined raises NameError. Generated code installs it as the body of
// every function variable until the def statement runs.
func Undefined(name string) *Object {
	raise(NameError, "name '%s' is not defined", name)
	return nil
}
