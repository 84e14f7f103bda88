// Package kubeversion resolves the loose Kubernetes version strings accepted
// by the image build configuration into a concrete version plus the source
// the matching Kubernetes artifacts are installed from.  A version string is
// not just a version: its shape decides *how* Kubernetes is installed.
// Package-manager style strings (1.14.0-0) install through yum or apt, and
// everything else resolves to a URL under the Kubernetes release buckets
// which is dereferenced until it names one published build
package kubeversion

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// SourcePkg marks a resolution which installs through the system package
// manager instead of a download URL
const SourcePkg = "pkg"

var (
	// packageVersion matches versions installed through the package
	// manager, e.g. 1.14.0-0.  The capture group is the bare semver
	packageVersion = regexp.MustCompile(`^(\d+\.\d+\.\d+)-\d+$`)

	// looseSemver matches anything that plausibly names a published
	// build: up to four dotted components with an optional suffix.  It
	// is deliberately looser than the release classification used for
	// upload destinations
	looseSemver = regexp.MustCompile(`^v?\d+(\.\d+){0,3}([.+-].+)?$`)

	urlScheme = regexp.MustCompile(`(?i)^https?:`)
)

// A Resolution describes how one version string deploys
type Resolution struct {
	// KubernetesSemver is the resolved semantic version
	KubernetesSemver string `json:"kubernetes_semver"`

	// KubernetesSource is SourcePkg or the URL the artifacts live under
	KubernetesSource string `json:"kubernetes_source"`

	// KubernetesVersion echoes the resolved version for templates that
	// want the unprefixed form
	KubernetesVersion string `json:"kubernetes_version"`
}

// Resolver resolves version strings against the Kubernetes release buckets.
// The two roots default to the public buckets and exist as fields so tests
// can point them at a local server
type Resolver struct {
	// ReleaseRoot is where released builds live
	ReleaseRoot string

	// DevRoot is where ci builds live
	DevRoot string

	// Client is the http.Client used for the HEAD and GET requests.
	// When nil a client with a short idle timeout is used
	Client *http.Client
}

// NewResolver returns a Resolver pointed at the public release buckets
func NewResolver() *Resolver {
	return &Resolver{
		ReleaseRoot: "https://storage.googleapis.com/kubernetes-release",
		DevRoot:     "https://storage.googleapis.com/kubernetes-release-dev",
	}
}

func (r *Resolver) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	r.Client = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:    10,
			IdleConnTimeout: 30 * time.Second,
		},
	}
	return r.Client
}

// Resolve turns a version string into a Resolution.  The rules, in order:
// "latest" installs the latest package; MAJOR.MINOR.PATCH-BUILD installs
// that package; an explicit http(s) URL is used as given; a loose semver
// names a released build; a ci/ or release/ prefix names a build in the
// matching bucket, dereferencing the published .txt pointer when the build
// name is not itself valid.  Every URL resolution ends by reading the
// authoritative version out of the build's kubernetes.tar.gz
func (r *Resolver) Resolve(version string) (Resolution, error) {
	if version == "" {
		return Resolution{}, errors.New("version is required")
	}

	resolution := Resolution{
		KubernetesSemver:  version,
		KubernetesSource:  SourcePkg,
		KubernetesVersion: version,
	}

	if version == "latest" {
		return resolution, nil
	}

	if match := packageVersion.FindStringSubmatch(version); match != nil {
		resolution.KubernetesSemver = "v" + match[1]
		return resolution, nil
	}

	var url string
	var err error
	switch {
	case urlScheme.MatchString(version):
		url = version
	case looseSemver.MatchString(version):
		if !strings.HasPrefix(version, "v") {
			version = "v" + version
		}
		url = fmt.Sprintf("%s/release/%s", r.ReleaseRoot, version)
	case strings.HasPrefix(version, "ci/"):
		url, err = r.resolveBuildURL(version, true)
	case strings.HasPrefix(version, "release/"):
		url, err = r.resolveBuildURL(version, false)
	default:
		return Resolution{}, fmt.Errorf("invalid Kubernetes version: %s", version)
	}
	if err != nil {
		return Resolution{}, err
	}
	resolution.KubernetesSource = url

	resolved, err := r.readVersionFromTarball(url)
	if err != nil {
		return Resolution{}, err
	}
	resolution.KubernetesSemver = resolved
	resolution.KubernetesVersion = resolved

	return resolution, nil
}

// resolveBuildURL turns a ci/ or release/ build name into the URL of one
// published build.  A build name may already be valid, which a HEAD request
// confirms; otherwise the matching .txt pointer file is read to get the
// dereferenced version
func (r *Resolver) resolveBuildURL(buildID string, ciBuild bool) (string, error) {
	root := r.ReleaseRoot
	if ciBuild {
		root = r.DevRoot
	}

	url := fmt.Sprintf("%s/%s", root, buildID)

	if !strings.HasSuffix(url, ".txt") {
		resp, err := r.client().Head(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
				return url, nil
			}
		}
		url += ".txt"
	}

	resp, err := r.client().Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP GET %s failed: %d", url, resp.StatusCode)
	}
	version := strings.TrimSpace(string(body))

	if ciBuild {
		return fmt.Sprintf("%s/ci/%s", r.DevRoot, version), nil
	}
	return fmt.Sprintf("%s/release/%s", r.ReleaseRoot, version), nil
}

// readVersionFromTarball reads the kubernetes/version file out of the
// build's kubernetes.tar.gz.  This is the authoritative version of a build:
// the name it was requested under may be an alias like ci/latest
func (r *Resolver) readVersionFromTarball(url string) (string, error) {
	url = fmt.Sprintf("%s/kubernetes.tar.gz", url)

	resp, err := r.client().Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP GET %s failed: %d", url, resp.StatusCode)
	}

	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %v", url, err)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	for {
		header, err := tr.Next()
		if err != nil {
			return "", fmt.Errorf("no kubernetes/version in %s: %v", url, err)
		}
		if header.Name == "kubernetes/version" {
			version, err := ioutil.ReadAll(tr)
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(version)), nil
		}
	}
}
