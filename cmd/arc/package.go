package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpack/archiver"
	"github.com/jpack/archiver/goal"
	"github.com/spf13/cobra"
)

func newPackageCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package <dir>",
		Short: "Write a directory into every configured archive format",
		Long: `Write every file and directory below <dir> into one archive per
configured format. Archives are named <name><ext> and placed in the
output directory; <name> defaults to the base name of <dir>.

Docker goals (save, push) are matched case-insensitively; unknown
goals are reported and ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runPackage(cmd, args[0])
		},
	}

	flags := cmd.Flags()
	flags.String("out-dir", "dist", "directory to write archives into")
	flags.String("name", "", "archive name without extension (default: base name of <dir>)")
	flags.StringSlice("format", []string{".zip", ".tar.gz"}, "archive formats to write, by extension")
	flags.StringSlice("goal", nil, "docker goals (save, push)")
	_ = opts.v.BindPFlag("package.out_dir", flags.Lookup("out-dir"))
	_ = opts.v.BindPFlag("package.name", flags.Lookup("name"))
	_ = opts.v.BindPFlag("package.formats", flags.Lookup("format"))
	_ = opts.v.BindPFlag("package.goals", flags.Lookup("goal"))

	return cmd
}

func (o *options) runPackage(cmd *cobra.Command, sourceDir string) error {
	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("%s: resolving absolute path: %w", sourceDir, err)
	}

	name := o.v.GetString("package.name")
	if name == "" {
		name = filepath.Base(absSource)
	}
	outDir := o.v.GetString("package.out_dir")

	goals, unmatched := goal.ParseList(o.v.GetStringSlice("package.goals"))
	for _, code := range unmatched {
		o.logger.Warn("unknown docker goal", "goal", code)
	}

	exts := o.v.GetStringSlice("package.formats")
	if len(exts) == 0 {
		return fmt.Errorf("no archive formats configured")
	}
	formats := make([]archiver.Format, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		format, err := archiver.Identify(name + ext)
		if err != nil {
			return fmt.Errorf("format %s: %w", ext, err)
		}
		formats = append(formats, format)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, format := range formats {
		destination := filepath.Join(outDir, name+format.Name())
		if err := o.archive(cmd.Context(), format, absSource, destination); err != nil {
			return err
		}
	}

	for _, g := range goals {
		fmt.Fprintf(cmd.OutOrStdout(), "docker goal: %s\n", g)
	}
	return nil
}
