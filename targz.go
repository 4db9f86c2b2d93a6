package archiver

import (
	"context"
)

// tarGzExt is cut from a .tar.gz file name to get its top-level folder.
const tarGzExt = ".tar.gz"

// TarGzDir writes every file and directory under sourceDir into a new
// gzip-compressed tar archive at tarGzPath. All entries are placed in
// one top-level folder named after tarGzPath without its ".tar.gz", so
// that "out/app.tar.gz" unpacks into "app/".
//
// The archive is created even when sourceDir is missing or empty. If
// an error occurs, a partial tarGzPath is left on disk.
func TarGzDir(ctx context.Context, sourceDir, tarGzPath string) error {
	return TarGz{}.ArchiveDirToFile(ctx, sourceDir, tarGzPath)
}

// TarGz is the .tar.gz format with its compression options.
type TarGz struct {
	Gz
	Tar
}

// ArchiveDirToFile is like TarGzDir but uses the options of tgz.
func (tgz TarGz) ArchiveDirToFile(ctx context.Context, sourceDir, tarGzPath string) error {
	caf := CompressedArchive{tgz.Gz, tgz.Tar}
	return archiveDirToFile(ctx, caf, sourceDir, tarGzPath, RootInArchive(tarGzPath, tarGzExt))
}
