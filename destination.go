package imageupload

import (
	"fmt"
	"regexp"
)

// Classification names the bucket prefix an artifact is filed under
type Classification string

const (
	// ClassificationRelease is for images built from released Kubernetes
	// versions
	ClassificationRelease Classification = "release"

	// ClassificationCI is for everything else: ci builds, release
	// candidates and version strings we don't recognise
	ClassificationCI Classification = "ci"
)

// releasedVersion matches the version strings of released Kubernetes builds:
// an optional leading 'v', MAJOR.MINOR.PATCH, optionally followed by a
// package build number like v1.14.0-3.  The pattern is anchored at both ends
// on purpose.  A substring match would happily file v1.14.0-rc.1 under
// release/ because it contains v1.14.0
var releasedVersion = regexp.MustCompile(`^v?\d+\.\d+\.\d+(-\d+)?$`)

// Classify decides which bucket prefix a version string belongs under.
// Malformed version strings are not an error, they're just CI images
func Classify(version string) Classification {
	if releasedVersion.MatchString(version) {
		return ClassificationRelease
	}
	return ClassificationCI
}

// Config holds the two roots every destination hangs off of.  The bucket
// root is the storage scheme path handed to the copy tool, the public root
// is the HTTP host the same objects are served from.  These are fixed
// properties of the publishing pipeline, not user input, so the CLI never
// exposes them as flags.  They live in a value which is threaded explicitly
// into Resolve rather than in package state so that tests can point the
// public root at a local server
type Config struct {
	BucketRoot string
	PublicRoot string
}

// DefaultConfig returns the production image bucket
func DefaultConfig() Config {
	return Config{
		BucketRoot: "gs://capv-images",
		PublicRoot: "http://storage.googleapis.com/capv-images",
	}
}

// A Destination is where one artifact and its checksum sidecar end up.  It
// is derived from the build's name and version and never persisted; every
// run computes it fresh
type Destination struct {
	Classification      Classification
	ObjectName          string
	StoragePath         string
	ChecksumStoragePath string
	URL                 string
	ChecksumURL         string
}

// Resolve computes the canonical destination for an artifact.  It is a pure
// function: no I/O, no failure modes, and calling it twice with the same
// name and version returns identical values.  The version is used verbatim
// in the path, without any normalization
func (c Config) Resolve(name, version string) Destination {
	classification := Classify(version)
	object := fmt.Sprintf("%s-kube-%s.ova", name, version)
	storage := fmt.Sprintf("%s/%s/%s/%s", c.BucketRoot, classification, version, object)
	url := fmt.Sprintf("%s/%s/%s/%s", c.PublicRoot, classification, version, object)

	return Destination{
		Classification:      classification,
		ObjectName:          object,
		StoragePath:         storage,
		ChecksumStoragePath: storage + ".sha256",
		URL:                 url,
		ChecksumURL:         url + ".sha256",
	}
}
