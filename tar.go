package archiver

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/charmbracelet/log"
)

func init() {
	RegisterFormat(Tar{})
}

// Tar writes POSIX tar archives. Ownership is not carried into the
// archive: user and group are always left empty.
type Tar struct {
	// Receives debug output about each entry. If nil,
	// the default logger is used.
	Logger *log.Logger
}

func (Tar) Name() string { return ".tar" }

func (t Tar) Match(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), t.Name())
}

// Archive writes a tar archive containing files to output, in the
// given order, then writes the end-of-archive footer.
func (t Tar) Archive(ctx context.Context, output io.Writer, files []File) (err error) {
	tw := tar.NewWriter(output)
	defer func() {
		if cerr := tw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("finishing tar archive: %w", cerr)
		}
	}()

	buf := make([]byte, copyBufferSize)
	for _, file := range files {
		if err := t.writeFileToArchive(ctx, tw, file, buf); err != nil {
			return err
		}
	}

	return nil
}

// ArchiveDir writes the tree below sourceDir to output while walking
// it: each entry is written as soon as it is reached, a directory
// entry always before the entries inside it. If rootInArchive is set,
// every entry is named rootInArchive/<path relative to sourceDir>.
//
// A missing or empty sourceDir produces a valid archive without
// entries.
func (t Tar) ArchiveDir(ctx context.Context, output io.Writer, sourceDir, rootInArchive string) (err error) {
	tw := tar.NewWriter(output)
	defer func() {
		if cerr := tw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("finishing tar archive: %w", cerr)
		}
	}()

	buf := make([]byte, copyBufferSize)
	return walkDir(sourceDir, t.Logger, func(pathOnDisk, relName string, d fs.DirEntry) error {
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("%s: stat: %w", pathOnDisk, err)
		}
		name := relName
		if rootInArchive != "" {
			name = path.Join(rootInArchive, relName)
		}
		return t.writeFileToArchive(ctx, tw, newFileFromDisk(info, pathOnDisk, name), buf)
	})
}

func (t Tar) writeFileToArchive(ctx context.Context, tw *tar.Writer, file File, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return err // honor context cancellation
	}

	hdr, err := tar.FileInfoHeader(file, "")
	if err != nil {
		return fmt.Errorf("file %s: creating header: %w", file.NameInArchive, err)
	}
	hdr.Name = file.NameInArchive // complete path, since FileInfoHeader() only has base name
	if hdr.Name == "" {
		hdr.Name = file.Name()
	}
	if file.IsDir() && !strings.HasSuffix(hdr.Name, "/") {
		hdr.Name += "/"
	}
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("file %s: writing header: %w", file.NameInArchive, err)
	}
	t.logger().Debug("tar entry", "name", hdr.Name, "size", hdr.Size)

	// only proceed to write a file body if there is actually a body
	// (for example, directories don't have a body)
	if hdr.Typeflag != tar.TypeReg {
		return nil
	}

	if err := openAndCopyFile(file, tw, buf); err != nil {
		return fmt.Errorf("file %s: writing data: %w", file.NameInArchive, err)
	}

	return nil
}

func (t Tar) logger() *log.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return log.Default()
}

// Interface guards
var (
	_ Archival = (*Tar)(nil)
)
