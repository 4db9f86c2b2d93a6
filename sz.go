package archiver

import (
	"io"
	"strings"

	"github.com/klauspost/compress/s2"
)

func init() {
	RegisterFormat(Sz{})
}

// Sz facilitates Snappy compression. Streams are written by the S2
// encoder in its Snappy-compatible mode, so any framed Snappy reader
// can decode them.
type Sz struct {
	// Number of goroutines the encoder may use.
	// Zero means GOMAXPROCS.
	Concurrency int
}

func (Sz) Name() string { return ".sz" }

func (sz Sz) Match(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), sz.Name())
}

func (sz Sz) OpenWriter(w io.Writer) (io.WriteCloser, error) {
	opts := []s2.WriterOption{s2.WriterSnappyCompat()}
	if sz.Concurrency != 0 {
		opts = append(opts, s2.WriterConcurrency(sz.Concurrency))
	}
	return s2.NewWriter(w, opts...), nil
}
