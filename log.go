package imageupload

import (
	"errors"
	"io"
	"log"
	"os"
)

// The default logger prints to standard output with the same prefix the old
// upload script used, so operators watching a build job keep getting the
// output they're used to.  Consumers embedding this library can redirect or
// silence it through the setters below.
var logger = log.New(os.Stdout, "image-upload-ova: ", 0)

// SetLogOutput changes where this package's logs are written.  To suppress
// all logging from this library:
//  SetLogOutput(ioutil.Discard)
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLogPrefix changes the prefix used by this package's logs
func SetLogPrefix(p string) {
	logger.SetPrefix(p)
}

// SetLogFlags changes the flags used by this package's logs.
// See: https://golang.org/pkg/log/#pkg-constants
func SetLogFlags(f int) {
	logger.SetFlags(f)
}

// SetLogger replaces the package logger with the logger specified
func SetLogger(l *log.Logger) error {
	if l == nil {
		return errors.New("new logger must be non-nil")
	}
	logger = l
	return nil
}
