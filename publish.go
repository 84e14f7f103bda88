package imageupload

// A Credential can be activated before uploads and revoked afterwards.  The
// gcloud subpackage provides the production implementation on top of the
// gcloud CLI
type Credential interface {
	Activate() error
	Revoke() error
}

// A Copier copies a local file to a storage path.  Each copy is all or
// nothing as far as this library is concerned; the production implementation
// in the gcloud subpackage shells out to gsutil
type Copier interface {
	Copy(src, dst string) error
}

// A Build describes the single artifact one run publishes, as read from the
// Packer manifest
type Build struct {
	// Name is the artifact base name, e.g. a product name like photon-3
	Name string

	// Version is the Kubernetes semver the image was built for.  It is
	// used verbatim in destination paths
	Version string

	// OVAPath is the local path of the artifact
	OVAPath string

	// ChecksumPath is the local path of the .sha256 sidecar
	ChecksumPath string
}

// Client knows how to conditionally publish an OVA and its checksum sidecar
type Client struct {
	config     Config
	agent      agent
	credential Credential
	copier     Copier
}

// New creates a Client for use
func New(config Config, credential Credential, copier Copier) (*Client, error) {
	if credential == nil {
		return nil, ErrNilCredential
	}
	if copier == nil {
		return nil, ErrNilCopier
	}

	return &Client{
		config:     config,
		agent:      newAgent(),
		credential: credential,
		copier:     copier,
	}, nil
}

// Publish uploads the build's OVA and checksum sidecar to their canonical
// destination, unless the checksum already published there matches the local
// one, in which case nothing is uploaded.  Either way the returned string is
// the stable public download URL of the artifact.
//
// The steps are strictly ordered.  The credential is activated only once the
// decision to upload has been made, and is revoked on every exit path after
// that point; the revoke is registered before the first copy so that a copy
// failure cannot skip it.  The artifact is always copied before its
// checksum.  If the copies ran the other way around, a crash between them
// would leave a checksum vouching for an object that does not exist, and
// that checksum would then cause every later run to skip the upload that
// would repair it
func (c *Client) Publish(build Build) (string, error) {
	dest := c.config.Resolve(build.Name, build.Version)

	local, err := GetLocalChecksum(build.ChecksumPath)
	if err != nil {
		return "", newErrorf(err, "getting local checksum of %s", build.OVAPath)
	}
	logger.Printf("local sha256 %s", local)

	remote, found := c.agent.getRemoteChecksum(dest.ChecksumURL)
	if found {
		logger.Printf("remote sha256 %s", remote)
	} else {
		logger.Printf("no remote sha256")
	}

	if found && local == remote {
		logger.Printf("skipping upload")
		return dest.URL, nil
	}

	if err := c.credential.Activate(); err != nil {
		// Nothing was activated on this path, so there is nothing to
		// revoke
		return "", newError(err, "activating service account")
	}
	defer func() {
		// Best effort.  A failed revoke must never mask a successful
		// upload, nor turn a failed one into a different failure
		if err := c.credential.Revoke(); err != nil {
			logger.Printf("revoking service account: %v", err)
		}
	}()

	logger.Printf("upload %s", dest.StoragePath)
	if err := c.copier.Copy(build.OVAPath, dest.StoragePath); err != nil {
		return "", newErrorf(err, "uploading %s to %s", build.OVAPath, dest.StoragePath)
	}

	logger.Printf("upload %s", dest.ChecksumStoragePath)
	if err := c.copier.Copy(build.ChecksumPath, dest.ChecksumStoragePath); err != nil {
		return "", newErrorf(err, "uploading %s to %s", build.ChecksumPath, dest.ChecksumStoragePath)
	}

	return dest.URL, nil
}
