package archiver

import (
	"io"
	"strings"

	"github.com/pierrec/lz4/v4"
)

func init() {
	RegisterFormat(Lz4{})
}

// Lz4 facilitates LZ4 compression.
type Lz4 struct{}

func (Lz4) Name() string { return ".lz4" }

func (lz Lz4) Match(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), lz.Name())
}

func (Lz4) OpenWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}
