package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/baxromumarov/pacer"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pacer",
		Short: "Debounce or throttle lines read from stdin",
		Long: `pacer reads stdin line by line and writes the lines that survive
debouncing or throttling to stdout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newDebounceCommand(),
		newThrottleCommand(),
	)
	return cmd
}

func newDebounceCommand() *cobra.Command {
	var f commandFlags

	cmd := &cobra.Command{
		Use:     "debounce",
		Short:   "Print a line once input has been quiet for --delay",
		Example: `  inotifywait -m -r src | pacer debounce --delay 300ms --max-wait 2s`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fc, err := loadConfig(f.configPath)
			if err != nil {
				return err
			}

			s := settings{name: "debounce", period: 300 * time.Millisecond, trailing: true}
			s.verbose, s.metricsAddr = fc.Verbose, fc.MetricsAddr
			s.apply(fc.Debounce, fc.Debounce.Delay)
			s.overlay(cmd.Flags(), &f, "delay")

			return run(cmd, s, func(sink func(string), opts []pacer.Option) (scheduler, error) {
				if s.hasMaxWait {
					opts = append(opts, pacer.WithMaxWait(s.maxWait))
				}
				return pacer.NewDebouncer(s.period, sink, opts...)
			})
		},
	}

	addCommonFlags(cmd, &f)
	cmd.Flags().DurationVar(&f.period, "delay", 300*time.Millisecond, "quiet period before a line is printed")
	cmd.Flags().DurationVar(&f.maxWait, "max-wait", 0, "longest a line may be held back under continuous input")
	cmd.Flags().BoolVar(&f.leading, "leading", false, "also print the first line of each burst immediately")
	return cmd
}

func newThrottleCommand() *cobra.Command {
	var f commandFlags

	cmd := &cobra.Command{
		Use:     "throttle",
		Short:   "Print at most one line per --interval",
		Example: `  tail -f app.log | pacer throttle --interval 1s`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fc, err := loadConfig(f.configPath)
			if err != nil {
				return err
			}

			s := settings{name: "throttle", period: time.Second, leading: true, trailing: true}
			s.verbose, s.metricsAddr = fc.Verbose, fc.MetricsAddr
			s.apply(fc.Throttle, fc.Throttle.Interval)
			s.overlay(cmd.Flags(), &f, "interval")

			return run(cmd, s, func(sink func(string), opts []pacer.Option) (scheduler, error) {
				if s.hasMaxWait {
					// Rejected by the throttler with a configuration error.
					opts = append(opts, pacer.WithMaxWait(s.maxWait))
				}
				return pacer.NewThrottler(s.period, sink, opts...)
			})
		},
	}

	addCommonFlags(cmd, &f)
	cmd.Flags().DurationVar(&f.period, "interval", time.Second, "minimum spacing between printed lines")
	cmd.Flags().BoolVar(&f.leading, "leading", true, "print the first line of a window immediately")
	return cmd
}

func addCommonFlags(cmd *cobra.Command, f *commandFlags) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log every emission to stderr")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	cmd.Flags().StringVar(&f.name, "name", "", "scheduler name used in logs and metrics")
	cmd.Flags().BoolVar(&f.noTrailing, "no-trailing", false, "disable the trailing edge")
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func run(cmd *cobra.Command, s settings, build buildFunc) error {
	logger, err := newLogger(s.verbose)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := &lineWriter{w: cmd.OutOrStdout()}
	sched, err := build(out.write, []pacer.Option{
		pacer.WithName(s.name),
		pacer.WithLeading(s.leading),
		pacer.WithTrailing(s.trailing),
		pacer.WithLogger(logger),
		pacer.WithOnEmit(func(info pacer.EmitInfo) {
			logger.Debug("emit",
				zap.Stringer("edge", info.Edge),
				zap.Time("at", info.At),
				zap.Duration("latency", info.Latency),
			)
		}),
	})
	if err != nil {
		return err
	}

	if s.metricsAddr != "" {
		stop, _, err := serveMetrics(s.metricsAddr, s.name, sched, logger)
		if err != nil {
			sched.Dispose()
			return err
		}
		defer stop()
	}

	if err := pipe(ctx, cmd.InOrStdin(), sched); err != nil {
		return err
	}
	if err := out.err(); err != nil {
		return err
	}

	st := sched.Stats()
	logger.Debug("done",
		zap.Int64("fed", st.Fed),
		zap.Int64("emitted", st.Emitted),
		zap.Int64("dropped", st.Dropped),
	)
	return nil
}
