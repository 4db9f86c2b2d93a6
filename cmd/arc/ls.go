package main

import (
	"fmt"

	"github.com/jpack/archiver"
	"github.com/spf13/cobra"
)

func newLsCmd(opts *options) *cobra.Command {
	var absolute bool
	cmd := &cobra.Command{
		Use:   "ls <dir>",
		Short: "List what would be archived from a directory",
		Long: `List every file and directory below <dir> in the order it is walked:
each directory before its contents, siblings in lexical order.
Directories are shown with a trailing slash. Symbolic links and other
special files are not listed, as they are never archived.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := archiver.FilesFromDisk(args[0], "")
			if err != nil {
				return err
			}
			opts.logger.Debug("walked", "root", args[0], "entries", len(files))

			out := cmd.OutOrStdout()
			for _, f := range files {
				name := f.NameInArchive
				if absolute {
					name = f.PathOnDisk
				}
				if f.IsDir() {
					fmt.Fprintf(out, "%s/\n", name)
				} else {
					fmt.Fprintf(out, "%s\t%d\n", name, f.Size())
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&absolute, "absolute", false, "print absolute paths on disk")
	return cmd
}
