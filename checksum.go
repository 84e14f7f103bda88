package imageupload

import (
	"bufio"
	"io/ioutil"
	"net/http"
	"os"
	"strings"
	"time"
)

// GetLocalChecksum reads the checksum value from the sidecar file at path.
// The value is the first line of the file with surrounding whitespace
// stripped.  A missing or unreadable sidecar is an error: it means the
// artifact was never built or the build did not finish, and a run without a
// local checksum has nothing it could safely publish
func GetLocalChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", newErrorf(err, "opening checksum file %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Scan()
	if err := scanner.Err(); err != nil {
		return "", newErrorf(err, "reading checksum file %s", path)
	}

	return strings.TrimSpace(scanner.Text()), nil
}

// An agent wraps the http.Client used to fetch remote checksums.  Checksum
// objects are a few dozen bytes, so the transport is tuned for short one
// shot requests rather than throughput
type agent struct {
	client *http.Client
}

func newAgent() agent {
	transport := &http.Transport{
		MaxIdleConns:    10,
		IdleConnTimeout: 30 * time.Second,
	}
	client := &http.Client{
		Transport: transport,
	}
	return agent{client}
}

// getRemoteChecksum does a single GET against the public checksum URL and
// returns the trimmed body along with whether a checksum was found.  There
// is deliberately no error return.  A 404 is the normal state of the world
// before the first publish, and every other failure (5xx, refused
// connection, DNS) must take the exact same branch as a 404 so that a flaky
// network turns into a redundant upload rather than a failed run.  The
// failure is logged for operators who want to know which of the two it was
func (a agent) getRemoteChecksum(url string) (string, bool) {
	resp, err := a.client.Get(url)
	if err != nil {
		logger.Printf("remote checksum fetch failed: %v", err)
		return "", false
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		logger.Printf("remote checksum read failed: %v", err)
		return "", false
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false
	}

	return strings.TrimSpace(string(body)), true
}
