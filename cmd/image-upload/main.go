package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"

	imageupload "github.com/kubernetes-sigs/image-upload-go"
	"github.com/kubernetes-sigs/image-upload-go/gcloud"
	"github.com/kubernetes-sigs/image-upload-go/hashfile"
	"github.com/kubernetes-sigs/image-upload-go/kubeversion"
	"github.com/kubernetes-sigs/image-upload-go/manifest"
	"github.com/urfave/cli"
)

const (
	ErrInternal = 1
	ErrBadUsage = 2
)

func main() {
	err := _main(os.Args)
	if err == nil {
		os.Exit(0)
	}

	if ecErr, ok := err.(cli.ExitCoder); ok {
		os.Exit(ecErr.ExitCode())
	}

	os.Exit(ErrInternal)
}

// superError is what this library's wrapped errors implement; walking the
// chain lets the CLI find an underlying tool failure
type superError interface {
	SuperError() error
}

// exitCode digs through a chain of wrapped errors looking for a subprocess
// failure.  When one is found its exit status becomes ours, so that callers
// scripting around this tool see the transfer tool's own status.  Everything
// else is an internal error
func exitCode(err error) int {
	for err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		wrapped, ok := err.(superError)
		if !ok {
			break
		}
		err = wrapped.SuperError()
	}
	return ErrInternal
}

func _main(args []string) error {
	// We're going to take care of exiting ourselves
	cli.OsExiter = func(c int) {}

	app := cli.NewApp()

	app.Name = "image-upload"
	app.Version = "0.1.0"
	app.Usage = "publish OVA images built by Packer"

	app.OnUsageError = func(context *cli.Context, err error, isSubcommand bool) error {
		return cli.NewExitError(err, ErrBadUsage)
	}

	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		if c.NArg() == 0 {
			return cli.NewExitError("Must specify command", ErrBadUsage)
		}
		return cli.NewExitError(fmt.Sprintf("%s is not a command", c.Args().Get(0)), ErrBadUsage)
	}

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "quiet, q",
			Usage: "suppress log output",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:      "upload",
			Aliases:   []string{"u"},
			Usage:     "upload an OVA and its checksum unless already published",
			ArgsUsage: "[BUILD_DIR]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "key-file",
					Usage:  "`KEY_FILE` of the GCS service account (required)",
					EnvVar: "GCS_KEY_FILE",
				},
			},
			Action: func(c *cli.Context) error {
				if c.GlobalBool("quiet") {
					imageupload.SetLogOutput(ioutil.Discard)
				}

				if !c.IsSet("key-file") {
					return cli.NewExitError("must specify --key-file", ErrBadUsage)
				}

				if c.NArg() > 1 {
					return cli.NewExitError("at most one BUILD_DIR argument", ErrBadUsage)
				}
				buildDir := "."
				if c.NArg() == 1 {
					buildDir = c.Args().Get(0)
				}

				build, err := manifest.Load(buildDir)
				if err != nil {
					return cli.NewExitError(err, ErrInternal)
				}

				client, err := imageupload.New(
					imageupload.DefaultConfig(),
					gcloud.ServiceAccount{KeyFile: c.String("key-file")},
					gcloud.GSUtil{},
				)
				if err != nil {
					return cli.NewExitError(err, ErrInternal)
				}

				url, err := client.Publish(imageupload.Build{
					Name:         build.Name,
					Version:      build.CustomData.KubernetesSemver,
					OVAPath:      filepath.Join(buildDir, build.OVA()),
					ChecksumPath: filepath.Join(buildDir, build.Checksum()),
				})
				if err != nil {
					return cli.NewExitError(err, exitCode(err))
				}

				fmt.Fprintf(c.App.Writer, "download from %s\n", url)
				return nil
			},
			Category: "Publishing",
		},
		{
			Name:      "checksum",
			Usage:     "write the sha256 sidecar for an OVA",
			ArgsUsage: "OVA",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return cli.NewExitError("exactly one OVA argument required", ErrBadUsage)
				}

				sidecar, err := hashfile.WriteSidecar(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, ErrInternal)
				}

				fmt.Fprintf(c.App.Writer, "%s\n", sidecar)
				return nil
			},
			Category: "Publishing",
		},
		{
			Name:      "kube-version",
			Usage:     "resolve a Kubernetes version string to a deployable version and source",
			ArgsUsage: "VERSION",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return cli.NewExitError("exactly one VERSION argument required", ErrBadUsage)
				}

				resolution, err := kubeversion.NewResolver().Resolve(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, ErrInternal)
				}

				data, err := json.MarshalIndent(resolution, "", "  ")
				if err != nil {
					return cli.NewExitError(err, ErrInternal)
				}

				fmt.Fprintf(c.App.Writer, "%s\n", data)
				return nil
			},
			Category: "Configuration",
		},
	}

	err := app.Run(args)
	if _, ok := err.(cli.ExitCoder); !ok && err != nil {
		return cli.NewExitError(err, ErrBadUsage)
	}
	return err
}
