package archiver

import (
	"io"
	"strings"

	"github.com/ulikunitz/xz"
)

func init() {
	RegisterFormat(Xz{})
}

// Xz facilitates xz compression.
type Xz struct{}

func (Xz) Name() string { return ".xz" }

func (x Xz) Match(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), x.Name())
}

func (Xz) OpenWriter(w io.Writer) (io.WriteCloser, error) {
	return xz.NewWriter(w)
}
