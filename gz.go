package archiver

import (
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/pgzip"
)

func init() {
	RegisterFormat(Gz{})
}

// Gz facilitates gzip compression.
type Gz struct {
	// Use a fast parallel Gzip implementation. This is only
	// effective for large streams (about 1 MB or greater).
	Multithreaded bool
}

func (Gz) Name() string { return ".gz" }

func (gz Gz) Match(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), gz.Name())
}

func (gz Gz) OpenWriter(w io.Writer) (io.WriteCloser, error) {
	if gz.Multithreaded {
		return pgzip.NewWriter(w), nil
	}
	return gzip.NewWriter(w), nil
}
