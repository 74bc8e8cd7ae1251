package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/snipgif/internal/check"
	"github.com/backmassage/snipgif/internal/config"
	"github.com/backmassage/snipgif/internal/display"
	"github.com/backmassage/snipgif/internal/monitor"
	"github.com/backmassage/snipgif/internal/pipeline"
	"github.com/backmassage/snipgif/internal/term"
)

type recordFlags struct {
	output    string
	region    string
	noClobber bool
	keepTemp  bool
}

func newRecordCmd() *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:   "record [flags]",
		Short: "Record until Enter is pressed or the duration elapses, then export",
		Long: `Record the selected monitor (or a region of it) and export a GIF.

Press Enter to stop and export. Ctrl-C aborts without exporting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecord(cmd, f)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "Output file or directory (default: timestamped name in the current directory)")
	fs.DurationP("duration", "d", 0, "Stop automatically after this long (default: max-duration)")
	fs.StringVar(&f.region, "region", "", "Capture WxH+X+Y relative to the monitor (default: whole monitor)")
	fs.BoolVarP(&f.noClobber, "no-clobber", "n", false, "Pick a new name instead of replacing an existing file")
	fs.BoolVar(&f.keepTemp, "keep-temp", false, "Keep the captured frames after export")
	return cmd
}

func runRecord(cmd *cobra.Command, f recordFlags) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Close()

	if term.IsTerminal(os.Stdout) {
		display.PrintBanner(os.Stdout, version)
	}

	if err := check.CheckDeps(cfg); err != nil {
		return err
	}
	if err := monitor.EnableDPIAwareness(); err != nil {
		log.Debug("DPI awareness: %v", err)
	}

	opts := pipeline.Options{
		Output:    f.output,
		NoClobber: f.noClobber,
		KeepTemp:  f.keepTemp,
		Monitors:  monitor.ScreenshotProvider{},
	}
	opts.Duration, _ = cmd.Flags().GetDuration("duration")
	if f.region != "" {
		r, err := config.ParseRegion(f.region)
		if err != nil {
			return err
		}
		opts.Region = &r
	}
	if term.IsTerminal(os.Stdin) {
		opts.Stop = pipeline.StopOnEnter(os.Stdin)
	} else {
		log.Info("stdin is not a terminal; recording until the duration elapses")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = pipeline.Run(ctx, cfg, opts, log)
	if err != nil && !pipeline.IsCancelled(err) {
		log.Error("%v", err)
	}
	return err
}
