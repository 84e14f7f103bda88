package main

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/urfave/cli"
)

// realExitError runs a process which exits with the given status, so tests
// have a genuine *exec.ExitError to work with
func realExitError(t *testing.T, status int) *exec.ExitError {
	err := exec.Command("sh", "-c", fmt.Sprintf("exit %d", status)).Run()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected an *exec.ExitError, got %T", err)
	}
	return exitErr
}

type wrapped struct {
	super error
}

func (w wrapped) Error() string     { return "wrapped" }
func (w wrapped) SuperError() error { return w.super }

func TestExitCode(t *testing.T) {
	t.Run("finds a tool status through the chain", func(t *testing.T) {
		err := wrapped{wrapped{realExitError(t, 3)}}
		if code := exitCode(err); code != 3 {
			t.Errorf("got %d, expected 3", code)
		}
	})

	t.Run("plain errors are internal", func(t *testing.T) {
		if code := exitCode(errors.New("nope")); code != ErrInternal {
			t.Errorf("got %d, expected %d", code, ErrInternal)
		}
	})
}

func exitCodeOf(t *testing.T, err error) int {
	if err == nil {
		return 0
	}
	ecErr, ok := err.(cli.ExitCoder)
	if !ok {
		t.Fatalf("expected a cli.ExitCoder, got %T", err)
	}
	return ecErr.ExitCode()
}

func TestCLIUsage(t *testing.T) {
	t.Run("no command", func(t *testing.T) {
		err := _main([]string{"image-upload"})
		if exitCodeOf(t, err) != ErrBadUsage {
			t.Errorf("expected bad usage, got %v", err)
		}
	})

	t.Run("upload requires a key file", func(t *testing.T) {
		err := _main([]string{"image-upload", "upload"})
		if exitCodeOf(t, err) != ErrBadUsage {
			t.Errorf("expected bad usage, got %v", err)
		}
	})

	t.Run("upload rejects extra arguments", func(t *testing.T) {
		err := _main([]string{"image-upload", "upload", "--key-file", "key.json", "a", "b"})
		if exitCodeOf(t, err) != ErrBadUsage {
			t.Errorf("expected bad usage, got %v", err)
		}
	})

	t.Run("upload fails without a manifest", func(t *testing.T) {
		err := _main([]string{"image-upload", "--quiet", "upload", "--key-file", "key.json", "test-files/no-such-dir"})
		if exitCodeOf(t, err) != ErrInternal {
			t.Errorf("expected an internal error, got %v", err)
		}
	})

	t.Run("checksum requires an argument", func(t *testing.T) {
		err := _main([]string{"image-upload", "checksum"})
		if exitCodeOf(t, err) != ErrBadUsage {
			t.Errorf("expected bad usage, got %v", err)
		}
	})
}
