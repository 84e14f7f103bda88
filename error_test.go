package imageupload

import (
	"errors"
	"testing"
)

func checkError(t *testing.T, actual error, expected string) {
	if actual.Error() != expected {
		t.Errorf("'%s'\ndoes not match expectation\n'%s'", actual.Error(), expected)
	}
}

func TestErrorNoSuper(t *testing.T) {
	err := newError(nil, "Error")
	checkError(t, err, "Upload Error:\n  1. Error")
}

func TestErrorfNoSuper(t *testing.T) {
	err := newErrorf(nil, "%s", "Formatted Error")
	checkError(t, err, "Upload Error:\n  1. Formatted Error")
}

func TestErrorIsPassableAsStdError(t *testing.T) {
	err := newError(nil, "Error")
	switch v := err.(type) {
	case error:
	default:
		t.Errorf("%T is not the error interface", v)
	}
}

func TestErrorPlainSuper(t *testing.T) {
	err := newError(errors.New("root cause"), "Error")
	checkError(t, err, "Upload Error:\n  1. Error\n  2. root cause")
}

func TestErrorChainedSupers(t *testing.T) {
	err := newError(errors.New("root cause"), "Error1")
	err = newError(err, "Error2")
	err = newError(err, "Error3")
	checkError(t, err, "Upload Error:\n  1. Error3\n  2. Error2\n  3. Error1\n  4. root cause")
}
