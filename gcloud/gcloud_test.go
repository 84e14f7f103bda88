package gcloud

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// fakeTool writes a shell script which appends its arguments to a log file,
// exiting with the given status.  Returning the script path and a function
// to read back the recorded invocations
func fakeTool(t *testing.T, exitStatus int) (string, func() []string) {
	dir, err := ioutil.TempDir("", "gcloud-test")
	if err != nil {
		t.Fatal(err)
	}

	argsFile := filepath.Join(dir, "args")
	script := filepath.Join(dir, "tool")
	content := fmt.Sprintf("#!/bin/sh\necho \"$@\" >> %s\nexit %d\n", argsFile, exitStatus)
	if err := ioutil.WriteFile(script, []byte(content), 0755); err != nil {
		t.Fatal(err)
	}

	return script, func() []string {
		data, err := ioutil.ReadFile(argsFile)
		if err != nil {
			return nil
		}
		return strings.Split(strings.TrimSpace(string(data)), "\n")
	}
}

func TestServiceAccount(t *testing.T) {
	t.Run("activate passes an absolute key file", func(t *testing.T) {
		tool, calls := fakeTool(t, 0)
		defer os.RemoveAll(filepath.Dir(tool))

		account := ServiceAccount{KeyFile: "key.json", Tool: tool}
		if err := account.Activate(); err != nil {
			t.Fatal(err)
		}

		recorded := calls()
		if len(recorded) != 1 {
			t.Fatalf("expected one invocation, got %v", recorded)
		}

		wd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		expected := "auth activate-service-account --key-file " + filepath.Join(wd, "key.json")
		if recorded[0] != expected {
			t.Errorf("got %q, expected %q", recorded[0], expected)
		}
	})

	t.Run("revoke", func(t *testing.T) {
		tool, calls := fakeTool(t, 0)
		defer os.RemoveAll(filepath.Dir(tool))

		account := ServiceAccount{KeyFile: "key.json", Tool: tool}
		if err := account.Revoke(); err != nil {
			t.Fatal(err)
		}

		recorded := calls()
		if len(recorded) != 1 || recorded[0] != "auth revoke" {
			t.Errorf("unexpected invocations %v", recorded)
		}
	})

	t.Run("activation failure surfaces the exit status", func(t *testing.T) {
		tool, _ := fakeTool(t, 3)
		defer os.RemoveAll(filepath.Dir(tool))

		account := ServiceAccount{KeyFile: "key.json", Tool: tool}
		err := account.Activate()
		if err == nil {
			t.Fatal("expected an error")
		}

		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			t.Fatalf("expected an *exec.ExitError, got %T", err)
		}
		if exitErr.ExitCode() != 3 {
			t.Errorf("expected status 3, got %d", exitErr.ExitCode())
		}
	})
}

func TestGSUtilCopy(t *testing.T) {
	tool, calls := fakeTool(t, 0)
	defer os.RemoveAll(filepath.Dir(tool))

	copier := GSUtil{Tool: tool}
	if err := copier.Copy("photon-3.ova", "gs://test-images/ci/latest/photon-3.ova"); err != nil {
		t.Fatal(err)
	}

	recorded := calls()
	if len(recorded) != 1 || recorded[0] != "cp photon-3.ova gs://test-images/ci/latest/photon-3.ova" {
		t.Errorf("unexpected invocations %v", recorded)
	}
}
