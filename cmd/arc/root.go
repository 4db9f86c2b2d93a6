package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// options holds the configuration shared by all subcommands.
type options struct {
	v      *viper.Viper
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{v: viper.New()}

	var configFile string
	cmd := &cobra.Command{
		Use:   "arc",
		Short: "Package directories into archives",
		Long: `arc writes the contents of a directory into a ZIP archive or a
(compressed) tar archive.

ZIP archives hold paths relative to the directory, directory entries
first. Tar archives hold everything below one top-level folder named
after the archive file, so "app-1.0.tar.gz" unpacks into "app-1.0/".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(configFile)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: ./arc.{yaml,toml,json} if present)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("gzip-multithreaded", false, "use the parallel gzip writer for .tar.gz")
	_ = opts.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = opts.v.BindPFlag("gzip.multithreaded", flags.Lookup("gzip-multithreaded"))

	cmd.AddCommand(
		newZipCmd(opts),
		newTarGzCmd(opts),
		newArchiveCmd(opts),
		newCompressCmd(opts),
		newLsCmd(opts),
		newPackageCmd(opts),
	)
	return cmd
}

// load reads configuration from defaults, the config file, ARC_*
// environment variables and flags, then sets up logging.
func (o *options) load(configFile string) error {
	v := o.v
	v.SetDefault("log_level", "info")
	v.SetDefault("gzip.multithreaded", false)
	v.SetDefault("package.out_dir", "dist")
	v.SetDefault("package.name", "")
	v.SetDefault("package.formats", []string{".zip", ".tar.gz"})
	v.SetDefault("package.goals", []string{})

	v.SetEnvPrefix("ARC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("arc")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("reading config: %w", err)
			}
		}
	}

	level, err := log.ParseLevel(v.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	o.logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "arc",
		Level:  level,
	})
	log.SetDefault(o.logger)

	if used := v.ConfigFileUsed(); used != "" {
		o.logger.Debug("loaded config", "file", used)
	}
	return nil
}
