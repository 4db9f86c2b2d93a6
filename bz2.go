package archiver

import (
	"io"
	"strings"

	"github.com/dsnet/compress/bzip2"
)

func init() {
	RegisterFormat(Bz2{})
}

// Bz2 facilitates bzip2 compression.
type Bz2 struct{}

func (Bz2) Name() string { return ".bz2" }

func (bz Bz2) Match(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), bz.Name())
}

func (Bz2) OpenWriter(w io.Writer) (io.WriteCloser, error) {
	return bzip2.NewWriter(w, nil)
}
