package archiver

import (
	"io"
	"strings"

	"github.com/andybalholm/brotli"
)

func init() {
	RegisterFormat(Brotli{})
}

// Brotli facilitates brotli compression.
type Brotli struct{}

func (Brotli) Name() string { return ".br" }

func (br Brotli) Match(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), br.Name())
}

func (Brotli) OpenWriter(w io.Writer) (io.WriteCloser, error) {
	return brotli.NewWriter(w), nil
}
