package imageupload

import (
	"testing"
)

// testLogWriter routes package logs into the test output so that failing
// tests show the log lines interleaved with the assertions around them
type testLogWriter struct {
	t *testing.T
}

func useTestLogger(t *testing.T) {
	SetLogPrefix("")
	SetLogOutput(testLogWriter{t})
}

func (w testLogWriter) Write(p []byte) (n int, err error) {
	w.t.Logf("%s", p)
	return len(p), nil
}
