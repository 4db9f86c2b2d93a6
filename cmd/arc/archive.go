package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jpack/archiver"
	"github.com/spf13/cobra"
)

func newZipCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "zip <dir> <out.zip>",
		Short: "Write a directory into a ZIP archive",
		Long: `Write every file and directory below <dir> into a new ZIP archive.
Entry names are relative to <dir> and directories come first. Nothing
is written if <dir> is missing or empty.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.archive(cmd.Context(), archiver.Zip{}, args[0], args[1])
		},
	}
}

func newTarGzCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "targz <dir> <out.tar.gz>",
		Short: "Write a directory into a gzipped tar archive",
		Long: `Write every file and directory below <dir> into a new .tar.gz archive.
All entries are placed under a top-level folder named after the archive
file without its .tar.gz extension.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tgz := archiver.CompressedArchive{
				Compression: archiver.Gz{},
				Archival:    archiver.Tar{},
			}
			return opts.archive(cmd.Context(), tgz, args[0], args[1])
		},
	}
}

func newArchiveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <dir> <out>",
		Short: "Write a directory into an archive chosen by file extension",
		Long: `Write every file and directory below <dir> into a new archive whose
format is chosen by the extension of <out>: .zip, .tar, or .tar with
any supported compression (.tar.gz, .tar.zst, .tar.xz, .tar.bz2,
.tar.lz4, .tar.br, .tar.lz, .tar.zz, .tar.sz).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := archiver.Identify(filepath.Base(args[1]))
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}
			return opts.archive(cmd.Context(), format, args[0], args[1])
		},
	}
}

func newCompressCmd(opts *options) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "compress <file> <out>",
		Short: "Compress a single file, such as a finished .tar",
		Long: `Compress <file> into <out> with the compression format chosen by the
extension of <out> (.gz, .zst, .xz, .bz2, .lz4, .br, .lz, .zz, .sz).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := archiver.IdentifyCompression(filepath.Base(args[1]))
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}
			if c, ok := opts.configure(comp).(archiver.Compression); ok {
				comp = c
			}
			fc := archiver.FileCompressor{Compression: comp, OverwriteExisting: overwrite}
			if err := fc.CompressFile(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			opts.logger.Info("wrote compressed file", "path", args[1])
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace <out> if it exists")
	return cmd
}

// archive writes sourceDir to destination in the given format, after
// applying the configured logger and compression settings.
func (o *options) archive(ctx context.Context, format archiver.Format, sourceDir, destination string) error {
	format = o.configure(format)
	o.logger.Debug("archiving", "source", sourceDir, "destination", destination, "format", format.Name())
	if err := archiver.ArchiveDirAs(ctx, format, sourceDir, destination); err != nil {
		return err
	}
	if _, err := os.Stat(destination); errors.Is(err, fs.ErrNotExist) {
		o.logger.Info("nothing to archive", "source", sourceDir)
		return nil
	}
	o.logger.Info("wrote archive", "path", destination)
	return nil
}

// configure returns format with the options of o applied.
func (o *options) configure(format archiver.Format) archiver.Format {
	switch f := format.(type) {
	case archiver.Zip:
		f.Logger = o.logger
		return f
	case archiver.Tar:
		f.Logger = o.logger
		return f
	case archiver.Gz:
		f.Multithreaded = o.v.GetBool("gzip.multithreaded")
		return f
	case archiver.CompressedArchive:
		if c, ok := o.configure(f.Compression).(archiver.Compression); ok {
			f.Compression = c
		}
		if t, ok := f.Archival.(archiver.Tar); ok {
			t.Logger = o.logger
			f.Archival = t
		}
		return f
	}
	return format
}
