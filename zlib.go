package archiver

import (
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
)

func init() {
	RegisterFormat(Zlib{})
}

// Zlib facilitates zlib compression.
type Zlib struct{}

func (Zlib) Name() string { return ".zz" }

func (zz Zlib) Match(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), zz.Name())
}

func (Zlib) OpenWriter(w io.Writer) (io.WriteCloser, error) {
	return zlib.NewWriter(w), nil
}
