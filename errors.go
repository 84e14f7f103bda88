package imageupload

import "errors"

// ErrNilCredential is returned by New when no credential is provided.  A
// client without a credential could still decide to skip, but the moment it
// decided to publish it would have nothing to activate, so the mistake is
// caught at construction time instead
var ErrNilCredential = errors.New("credential must be non-nil")

// ErrNilCopier is returned by New when no copier is provided
var ErrNilCopier = errors.New("copier must be non-nil")
