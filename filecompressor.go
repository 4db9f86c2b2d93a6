package archiver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileCompressor compresses single files, such as an archive that was
// written uncompressed and should also be shipped as .tar.xz.
type FileCompressor struct {
	Compression

	// Whether to overwrite existing files when creating files.
	OverwriteExisting bool
}

// CompressFile reads the source file and compresses it to destination.
// The destination must have the extension of the compression format.
func (fc FileCompressor) CompressFile(ctx context.Context, source, destination string) (err error) {
	if fc.Compression == nil {
		return fmt.Errorf("no compression format specified")
	}
	if !fc.Match(filepath.Base(destination)) {
		return fmt.Errorf("%s: extension does not match %s", destination, fc.Name())
	}
	if !fc.OverwriteExisting {
		if _, err := os.Lstat(destination); err == nil {
			return fmt.Errorf("file exists: %s", destination)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: stat: %w", destination, err)
		}
	}

	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("creating %s: %w", destination, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", destination, cerr)
		}
	}()

	bw := bufio.NewWriter(out)
	if err := fc.compress(ctx, in, bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", destination, err)
	}
	return nil
}

func (fc FileCompressor) compress(ctx context.Context, in io.Reader, out io.Writer) (err error) {
	wc, err := fc.OpenWriter(out)
	if err != nil {
		return fmt.Errorf("opening %s writer: %w", fc.Name(), err)
	}
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s writer: %w", fc.Name(), cerr)
		}
	}()

	buf := make([]byte, copyBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, rerr := in.Read(buf)
		if n > 0 {
			if _, err := wc.Write(buf[:n]); err != nil {
				return fmt.Errorf("compressing: %w", err)
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return fmt.Errorf("reading: %w", rerr)
		}
	}
}

// CompressFile compresses source to destination in the compression
// format chosen by the extension of destination. An existing
// destination is not overwritten.
func CompressFile(ctx context.Context, source, destination string) error {
	comp, err := IdentifyCompression(filepath.Base(destination))
	if err != nil {
		return fmt.Errorf("%s: %w", destination, err)
	}
	return FileCompressor{Compression: comp}.CompressFile(ctx, source, destination)
}
