// Package imageupload publishes OVA disk images built by Packer to Google
// Cloud Storage.  An OVA is uploaded alongside a .sha256 sidecar file which
// holds the hex encoded sha256 of the artifact.  Before any upload happens,
// the checksum of the local artifact is compared to the checksum already
// published for the same destination.  When the two match the upload is
// skipped entirely, which makes a publish run safe to repeat as many times as
// needed.
//
// Destinations
//
// A destination is a pure function of the artifact name and the Kubernetes
// version it was built for.  Versions which look like released Kubernetes
// versions (v1.14.0, 1.14.0, v1.14.0-3) are filed under the release/ prefix
// of the bucket, everything else (ci builds, release candidates, malformed
// strings) is filed under ci/.  The same path components rooted at the public
// HTTP host give the stable download URL that a successful run reports.
//
// Publish decision
//
// The remote checksum is fetched with a single HTTP GET against the public
// checksum URL.  A missing object is the normal state of the world on a first
// publish, so any non-2xx response and any transport failure are treated as
// "no remote checksum" and never abort the run.  A missing *local* checksum
// is fatal: it means the artifact was never built and there is nothing worth
// uploading.
//
// Uploading requires an activated service account.  The credential is revoked
// on every exit path after a successful activation, whether the copies
// succeeded or not.  If activation itself fails nothing was activated, so
// nothing is revoked.  The artifact is always copied before its checksum so
// that a reader can never observe a checksum which vouches for an object that
// is not there yet.
//
// External tools
//
// The actual storage operations are delegated to the gcloud and gsutil
// command line tools, wrapped by the gcloud subpackage.  This library treats
// them as black boxes with an exit status and applies no retries or timeouts
// of its own.
package imageupload
