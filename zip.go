package archiver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"
)

func init() {
	RegisterFormat(Zip{})
}

// Zip writes .zip archives. File contents are deflated; directories
// are stored as empty entries whose names end in a slash. Zip64
// records are written for any entry, and for the archive as a whole,
// whenever a size or count exceeds the classic 32-bit limits.
type Zip struct {
	// Receives debug output about each entry. If nil,
	// the default logger is used.
	Logger *log.Logger
}

func (Zip) Name() string { return ".zip" }

func (z Zip) Match(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), z.Name())
}

// ZipDir writes every file and directory under sourceDir into a new
// ZIP archive at zipPath. Entry names are relative to sourceDir and
// all directory entries are written before any file entry.
//
// If sourceDir is missing or empty, zipPath is not created and nil is
// returned. If an error occurs, a partial zipPath is left on disk.
func ZipDir(ctx context.Context, sourceDir, zipPath string) error {
	return Zip{}.ArchiveDirToFile(ctx, sourceDir, zipPath)
}

// ArchiveDirToFile is like ZipDir but uses the options of z.
func (z Zip) ArchiveDirToFile(ctx context.Context, sourceDir, zipPath string) (err error) {
	files, err := z.filesForDir(sourceDir, "")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		z.logger().Debug("nothing to archive; zip not created", "source", sourceDir, "zip", zipPath)
		return nil
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", zipPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", zipPath, cerr)
		}
	}()

	bw := bufio.NewWriter(out)
	if err := z.Archive(ctx, bw, files); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", zipPath, err)
	}
	return nil
}

// ArchiveDir writes the tree below sourceDir to output, directories
// first. Nothing at all is written if the tree is empty.
func (z Zip) ArchiveDir(ctx context.Context, output io.Writer, sourceDir, rootInArchive string) error {
	files, err := z.filesForDir(sourceDir, rootInArchive)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}
	return z.Archive(ctx, output, files)
}

func (Zip) filesForDir(sourceDir, rootInArchive string) ([]File, error) {
	files, err := FilesFromDisk(sourceDir, rootInArchive)
	if err != nil {
		return nil, err
	}
	return OrderDirsFirst(files), nil
}

// Archive writes a ZIP archive containing files to output, in the
// given order. The archive's central directory is written when all
// files have been added.
func (z Zip) Archive(ctx context.Context, output io.Writer, files []File) (err error) {
	zw := zip.NewWriter(output)
	defer func() {
		if cerr := zw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("finishing zip archive: %w", cerr)
		}
	}()

	buf := make([]byte, copyBufferSize)
	for i, file := range files {
		if err := z.archiveOneFile(ctx, zw, i, file, buf); err != nil {
			return err
		}
	}

	return nil
}

func (z Zip) archiveOneFile(ctx context.Context, zw *zip.Writer, idx int, file File, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return err // honor context cancellation
	}

	hdr, err := zip.FileInfoHeader(file)
	if err != nil {
		return fmt.Errorf("getting info for file %d: %s: %w", idx, file.Name(), err)
	}
	hdr.Name = file.NameInArchive // complete path, since FileInfoHeader() only has base name
	if hdr.Name == "" {
		hdr.Name = file.Name()
	}

	if file.IsDir() {
		if !strings.HasSuffix(hdr.Name, "/") {
			hdr.Name += "/"
		}
		hdr.Method = zip.Store
		hdr.UncompressedSize64 = 0
	} else {
		hdr.Method = zip.Deflate
	}

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("creating header for file %d: %s: %w", idx, file.Name(), err)
	}
	z.logger().Debug("zip entry", "name", hdr.Name, "size", file.Size())

	// directories have no body
	if file.IsDir() {
		return nil
	}

	if err := openAndCopyFile(file, w, buf); err != nil {
		return fmt.Errorf("file %s: writing data: %w", file.NameInArchive, err)
	}

	return nil
}

func (z Zip) logger() *log.Logger {
	if z.Logger != nil {
		return z.Logger
	}
	return log.Default()
}

// Interface guards
var (
	_ Archival = (*Zip)(nil)
)
