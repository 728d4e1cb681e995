package utils

import (
	"fmt"
	"runtime/debug"
)

// PanicError is a panic recovered by RecoverWithError.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("got panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// RecoverWithError stores a recovered panic in err as a *PanicError.
func RecoverWithError(err *error) {
	if rv := recover(); rv != nil {
		*err = &PanicError{Value: rv, Stack: debug.Stack()}
	}
}
