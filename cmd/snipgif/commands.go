package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/backmassage/snipgif/internal/check"
	"github.com/backmassage/snipgif/internal/config"
	"github.com/backmassage/snipgif/internal/display"
	"github.com/backmassage/snipgif/internal/monitor"
)

func newMonitorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monitors",
		Short: "List monitors in the order used by --monitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := monitor.EnableDPIAwareness(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "snipgif: DPI awareness: %v\n", err)
			}
			mons, err := monitor.ScreenshotProvider{}.Monitors()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, m := range mons {
				primary := ""
				if i == 0 {
					primary = " (primary)"
				}
				fmt.Fprintf(out, "%d: %s%s\n", i, monitor.Describe(m), primary)
			}
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report ffmpeg, gifski and ffprobe availability and the monitor layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer log.Close()

			display.PrintBanner(cmd.OutOrStdout(), version)
			if !check.RunCheck(cfg, monitor.ScreenshotProvider{}, log) {
				return errCheckFailed
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Dump()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "# %s\n", configSource(cmd))
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func configSource(cmd *cobra.Command) string {
	if f, _ := cmd.Flags().GetString("config"); f != "" {
		return f
	}
	path := config.ConfigFile()
	if _, err := os.Stat(path); err != nil {
		return "defaults (" + path + " not found)"
	}
	return path
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "snipgif %s (commit %s)\n", version, commit)
		},
	}
}
