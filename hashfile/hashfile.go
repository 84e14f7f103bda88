// Package hashfile computes the sha256 sidecar files which gate publishing.
// The build pipeline normally writes the sidecar next to the OVA as part of
// the build; this package exists for the cases where it has to be recreated
package hashfile

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/ioutil"
	"os"
)

const chunkSize = 64 * 1024

// Sum streams the file at path through sha256 and returns the hex encoded
// digest
func Sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hash := sha256.New()

	buf := make([]byte, chunkSize)
	for {
		nBytes, err := f.Read(buf)
		if nBytes > 0 {
			if _, err := hash.Write(buf[:nBytes]); err != nil {
				return "", err
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// WriteSidecar hashes the artifact at path and writes the digest to the
// sidecar file at path + ".sha256", returning the sidecar's path.  The
// sidecar holds just the digest and a trailing newline, which is also the
// exact body published as the remote checksum object
func WriteSidecar(path string) (string, error) {
	sum, err := Sum(path)
	if err != nil {
		return "", err
	}

	sidecar := path + ".sha256"
	if err := ioutil.WriteFile(sidecar, []byte(sum+"\n"), 0644); err != nil {
		return "", err
	}

	return sidecar, nil
}
