// Command snipgif records a region of the screen and saves it as a GIF.
//
// Capture runs ffmpeg's ddagrab desktop duplication into a temporary frame
// directory; export hands the frames to gifski.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/backmassage/snipgif/internal/config"
	"github.com/backmassage/snipgif/internal/logging"
	"github.com/backmassage/snipgif/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if pipeline.IsCancelled(err) {
			return 130
		}
		fmt.Fprintf(os.Stderr, "snipgif: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "snipgif",
		Short:         "Record a screen region to an animated GIF",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "Config file (default: "+config.ConfigFile()+")")
	config.DefineFlags(root.PersistentFlags())

	root.AddCommand(
		newRecordCmd(),
		newMonitorsCmd(),
		newCheckCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig merges defaults, the config file, SNIPGIF_* environment
// variables and flags, in increasing priority.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	v, err := config.NewViper(configFile)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	config.ApplyNegatedFlags(cfg, cmd.Flags())
	return cfg, nil
}

// setup loads the config and opens the logger. The caller closes the logger.
func setup(cmd *cobra.Command) (*config.Config, *logging.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// errCheckFailed is returned by the check command when a required tool is missing.
var errCheckFailed = errors.New("system check failed")
