package imageupload

import (
	"bytes"
	"fmt"
)

// uploadError is the error type this package wraps failures from
// collaborators (file reads, subprocess invocations) in.  Each layer adds a
// message describing what the library was trying to do when the lower layer
// failed, so the rendered error reads as a numbered chain from the highest
// level operation down to the root cause.
type uploadError struct {
	msg   string
	super error
}

func newError(super error, msg string) error {
	return uploadError{
		msg:   msg,
		super: super,
	}
}

func newErrorf(super error, format string, args ...interface{}) error {
	return uploadError{
		msg:   fmt.Sprintf(format, args...),
		super: super,
	}
}

// Walk the chain of errors and render one numbered line per layer.  This has
// to be a standalone function because type switches only work on values held
// in an interface, not on a concrete method receiver
func renderChain(e error) string {
	var output bytes.Buffer

	cur := e
	for i := 1; cur != nil; i++ {
		fmt.Fprintf(&output, "\n  %d. ", i)
		if v, ok := cur.(uploadError); ok {
			output.WriteString(v.Message())
			cur = v.SuperError()
		} else {
			output.WriteString(cur.Error())
			cur = nil
		}
	}

	return output.String()
}

func (e uploadError) Error() string {
	return fmt.Sprintf("Upload Error:%s", renderChain(e))
}

// SuperError returns the error which caused this one, or nil for the root of
// a chain
func (e uploadError) SuperError() error {
	return e.super
}

// Message returns this layer's message without the rest of the chain
func (e uploadError) Message() string {
	return e.msg
}
