package archiver

import (
	"context"
	"io"
)

// Format represents either an archive or compression format.
type Format interface {
	// Name returns the name of the format, which is also the
	// file extension it is recognized by (e.g. ".zip", ".gz").
	Name() string

	// Match returns true if the given filename is recognized as
	// this format. The filename should consist only of the base
	// name, not a path component. Matching is done on the trailing
	// extension only, case-insensitively.
	Match(filename string) bool
}

// Compression is a compression format that can compress data.
type Compression interface {
	Format
	Compressor
}

// Archival is an archival format that can write archives, either
// from a pre-assembled list of files or by walking a directory.
type Archival interface {
	Format
	Archiver
	DirArchiver
}

// Compressor can compress data by wrapping a writer.
type Compressor interface {
	// OpenWriter wraps w with a new writer that compresses what is written.
	// The writer must be closed when writing is finished.
	OpenWriter(w io.Writer) (io.WriteCloser, error)
}

// Archiver can create a new archive.
type Archiver interface {
	// Archive writes an archive to output with the given files,
	// in the order given.
	//
	// Context cancellation must be honored.
	Archive(ctx context.Context, output io.Writer, files []File) error
}

// DirArchiver can write the whole tree below a directory on
// disk into an archive.
type DirArchiver interface {
	// ArchiveDir writes every file and directory under sourceDir
	// to output. If rootInArchive is not empty, all entries are
	// placed inside a top-level folder of that name.
	//
	// Context cancellation must be honored.
	ArchiveDir(ctx context.Context, output io.Writer, sourceDir, rootInArchive string) error
}
