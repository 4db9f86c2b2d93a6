package archiver

import (
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

func init() {
	RegisterFormat(Zstd{})
}

// Zstd facilitates Zstandard compression.
type Zstd struct {
	EncoderOptions []zstd.EOption
}

func (Zstd) Name() string { return ".zst" }

func (zs Zstd) Match(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), zs.Name())
}

func (zs Zstd) OpenWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zs.EncoderOptions...)
}
