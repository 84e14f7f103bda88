// Package gcloud wraps the gcloud and gsutil command line tools behind the
// Credential and Copier interfaces of the parent package.  The tools are
// treated as black boxes: their stdout and stderr are passed through to the
// operator and the only structured outcome is the process exit status.  No
// retries and no timeouts happen here; a caller who needs bounded latency
// wraps the whole run
package gcloud

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

const (
	defaultGcloudTool = "gcloud"
	defaultGSUtilTool = "gsutil"
)

func run(tool string, stdout, stderr io.Writer, args ...string) error {
	cmd := exec.Command(tool, args...)

	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}

// ServiceAccount is a GCS service account credential backed by a key file.
// Activate and Revoke shell out to gcloud, which keeps the activation state
// in its own configuration, so there is no state to carry here beyond the
// key file location
type ServiceAccount struct {
	// KeyFile is the path of the service account's JSON key file.  It
	// is resolved to an absolute path before use so the activation does
	// not depend on the working directory of the run
	KeyFile string

	// Tool overrides the gcloud executable, mainly for tests
	Tool string

	// Stdout and Stderr receive the tool's output.  When nil the
	// process's own stdout and stderr are used
	Stdout io.Writer
	Stderr io.Writer
}

func (a ServiceAccount) tool() string {
	if a.Tool != "" {
		return a.Tool
	}
	return defaultGcloudTool
}

// Activate activates the service account for use by later gsutil calls
func (a ServiceAccount) Activate() error {
	keyFile, err := filepath.Abs(a.KeyFile)
	if err != nil {
		return fmt.Errorf("resolving key file %s: %v", a.KeyFile, err)
	}

	return run(a.tool(), a.Stdout, a.Stderr, "auth", "activate-service-account", "--key-file", keyFile)
}

// Revoke revokes the active credential
func (a ServiceAccount) Revoke() error {
	return run(a.tool(), a.Stdout, a.Stderr, "auth", "revoke")
}

// GSUtil copies files with gsutil cp
type GSUtil struct {
	// Tool overrides the gsutil executable, mainly for tests
	Tool string

	// Stdout and Stderr receive the tool's output.  When nil the
	// process's own stdout and stderr are used
	Stdout io.Writer
	Stderr io.Writer
}

func (g GSUtil) tool() string {
	if g.Tool != "" {
		return g.Tool
	}
	return defaultGSUtilTool
}

// Copy copies src to dst.  The copy is all or nothing per gsutil; a failure
// surfaces the tool's *exec.ExitError so callers can propagate its status
func (g GSUtil) Copy(src, dst string) error {
	return run(g.tool(), g.Stdout, g.Stderr, "cp", src, dst)
}
