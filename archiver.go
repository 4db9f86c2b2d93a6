package archiver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// File is a file or directory on disk that is to be written into an
// archive, together with the name it gets inside the archive.
type File struct {
	fs.FileInfo

	// The path of the file on disk. Always absolute when the File
	// came from FilesFromDisk.
	PathOnDisk string

	// The (slash-separated) path of the file within the archive.
	// Directories do not carry a trailing slash here; each archive
	// format adds its own directory marker when writing.
	NameInArchive string

	// A callback function that opens the file to read its contents.
	// The file must be closed when reading is complete. Nil for
	// directories.
	Open func() (io.ReadCloser, error)
}

// FilesFromDisk walks root and returns a File for everything below
// it, in walk order (see Walk). Each name in the archive is the path
// relative to root, prefixed by rootInArchive if it is not empty.
//
// A missing root yields an empty list, not an error.
func FilesFromDisk(root, rootInArchive string) ([]File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%s: resolving absolute path: %w", root, err)
	}

	paths, err := Walk(absRoot)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(paths))
	for _, pathOnDisk := range paths {
		info, err := os.Lstat(pathOnDisk)
		if err != nil {
			return nil, fmt.Errorf("%s: stat: %w", pathOnDisk, err)
		}
		files = append(files, newFileFromDisk(info, pathOnDisk, nameOnDiskToNameInArchive(pathOnDisk, absRoot, rootInArchive)))
	}

	return files, nil
}

func newFileFromDisk(info fs.FileInfo, pathOnDisk, nameInArchive string) File {
	file := File{
		FileInfo:      info,
		PathOnDisk:    pathOnDisk,
		NameInArchive: nameInArchive,
	}
	if !info.IsDir() {
		file.Open = func() (io.ReadCloser, error) { return os.Open(pathOnDisk) }
	}
	return file
}

// nameOnDiskToNameInArchive strips rootOnDisk from nameOnDisk, converts
// the remainder to forward slashes, and places it under rootInArchive.
// nameOnDisk must be within rootOnDisk.
func nameOnDiskToNameInArchive(nameOnDisk, rootOnDisk, rootInArchive string) string {
	prefix := strings.TrimSuffix(rootOnDisk, string(filepath.Separator)) + string(filepath.Separator)
	name := filepath.ToSlash(strings.TrimPrefix(nameOnDisk, prefix))
	if rootInArchive == "" {
		return name
	}
	return path.Join(rootInArchive, name)
}

// OrderDirsFirst returns the files reordered so that every directory
// precedes every regular file. The relative order within directories
// and within files is kept. This does not order a directory against
// its own subdirectories beyond what the input order already does.
func OrderDirsFirst(files []File) []File {
	ordered := make([]File, 0, len(files))
	var regular []File
	for _, file := range files {
		if file.IsDir() {
			ordered = append(ordered, file)
		} else {
			regular = append(regular, file)
		}
	}
	return append(ordered, regular...)
}

// copyBufferSize is the size of the buffer used to stream file
// contents into an archive.
const copyBufferSize = 32 * 1024

// openAndCopyFile opens file and copies its contents to w
// through buf, then closes it.
func openAndCopyFile(file File, w io.Writer, buf []byte) error {
	if file.Open == nil {
		return fmt.Errorf("%s: no way to open file", file.NameInArchive)
	}
	fileReader, err := file.Open()
	if err != nil {
		return err
	}
	defer fileReader.Close()

	// a file that grows while it is being archived would overrun the size
	// already written in its header ("archive/tar: write too long"), so
	// copy at most that many bytes
	if file.Mode().IsRegular() {
		_, err = io.CopyBuffer(w, io.LimitReader(fileReader, file.Size()), buf)
	} else {
		_, err = io.CopyBuffer(w, fileReader, buf)
	}
	return err
}

// ArchiveDir writes every file and directory under sourceDir into a
// new archive at destination. The format is chosen by the extension
// of destination (see Identify).
//
// ZIP archives hold the paths relative to sourceDir, directories
// first, and no file is created at all if there is nothing to archive.
// Tar-based archives put every entry under a top-level folder named
// after destination with its extension removed, and are always
// created.
//
// On failure, a partially written destination is left in place.
func ArchiveDir(ctx context.Context, sourceDir, destination string) error {
	format, err := Identify(filepath.Base(destination))
	if err != nil {
		return fmt.Errorf("%s: %w", destination, err)
	}
	return ArchiveDirAs(ctx, format, sourceDir, destination)
}

// ArchiveDirAs is like ArchiveDir, but writes the given format no
// matter what the extension of destination is. The top-level folder
// of a tar-based archive is still derived from destination, with the
// format's extension cut if present.
func ArchiveDirAs(ctx context.Context, format Format, sourceDir, destination string) error {
	if z, ok := format.(Zip); ok {
		return z.ArchiveDirToFile(ctx, sourceDir, destination)
	}

	archival, ok := format.(Archival)
	if !ok {
		return fmt.Errorf("%s: format %s cannot hold a directory", destination, format.Name())
	}
	return archiveDirToFile(ctx, archival, sourceDir, destination, RootInArchive(destination, archival.Name()))
}

// archiveDirToFile creates destination and streams the archive of
// sourceDir into it. The output is buffered and flushed before the
// file is closed; the first error along the way is returned.
func archiveDirToFile(ctx context.Context, archival DirArchiver, sourceDir, destination, rootInArchive string) (err error) {
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
	if err := archival.ArchiveDir(ctx, bw, sourceDir, rootInArchive); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", destination, err)
	}
	return nil
}

// RootInArchive returns the name of the top-level folder for an
// archive file: its base name cut at the first occurrence of ext
// (compared case-insensitively). "dist/app-1.0.tar.gz" with ext
// ".tar.gz" gives "app-1.0". If the cut would leave nothing, the
// whole base name is used.
func RootInArchive(archivePath, ext string) string {
	base := filepath.Base(archivePath)
	if ext == "" {
		return base
	}
	idx := strings.Index(strings.ToLower(base), strings.ToLower(ext))
	if idx <= 0 {
		return base
	}
	return base[:idx]
}
