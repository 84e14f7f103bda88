// Package manifest reads the packer-manifest.json that a Packer build drops
// into its build directory.  Only the two fields the publishing pipeline
// needs are decoded: the name of the first build and the Kubernetes version
// it was built for.  Everything else in the manifest is ignored on purpose
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"path/filepath"
)

// Filename is the name Packer gives its manifest inside the build directory
const Filename = "packer-manifest.json"

// ErrNoBuilds is returned when the manifest parses but contains no builds.
// An empty manifest usually means the Packer run was interrupted before
// producing anything
var ErrNoBuilds = errors.New("manifest contains no builds")

// Build is the portion of a manifest build entry this tool consumes
type Build struct {
	Name       string `json:"name"`
	CustomData struct {
		KubernetesSemver string `json:"kubernetes_semver"`
	} `json:"custom_data"`
}

type document struct {
	Builds []Build `json:"builds"`
}

// OVA returns the file name of the artifact this build produced
func (b Build) OVA() string {
	return b.Name + ".ova"
}

// Checksum returns the file name of the artifact's sha256 sidecar
func (b Build) Checksum() string {
	return b.OVA() + ".sha256"
}

// Load reads the manifest in buildDir and returns its first build.  Builds
// after the first are ignored; the image pipeline produces exactly one build
// per directory
func Load(buildDir string) (Build, error) {
	path := filepath.Join(buildDir, Filename)

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Build{}, fmt.Errorf("reading %s: %v", path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Build{}, fmt.Errorf("parsing %s: %v", path, err)
	}

	if len(doc.Builds) == 0 {
		return Build{}, ErrNoBuilds
	}

	return doc.Builds[0], nil
}
