package main

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/careermate/internal/async"
	"github.com/joseph-ayodele/careermate/internal/ingest"
)

func (c *cli) newWatchCmd() *cobra.Command {
	var (
		jdPath      string
		exts        []string
		initialScan bool
		debounce    time.Duration
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Analyse resumes as they land in watched directories",
		Long: `Watches directories recursively and prints one JSON analysis per line for
every new or rewritten resume. Runs until interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			jd, err := c.optionalText(ctx, jdPath)
			if err != nil {
				return err
			}
			an, err := c.analyzer()
			if err != nil {
				return err
			}

			metrics, stopMetrics := c.serveMetrics(metricsAddr)
			defer stopMetrics()

			var mu sync.Mutex
			enc := json.NewEncoder(cmd.OutOrStdout())
			proc := async.ProcessorFunc(func(ctx context.Context, job async.Job) error {
				res, err := analyzeFile(ctx, an, job.Path, jd)
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				return enc.Encode(res)
			})
			q := c.newQueue(proc, metrics)
			defer q.Shutdown(context.Background())

			events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
				Roots:       args,
				AllowedExts: ingest.ExtSet(exts),
				InitialScan: initialScan,
				Debounce:    debounce,
				SkipHidden:  true,
				Logger:      c.logger,
			})
			if err != nil {
				return err
			}

			for {
				select {
				case path, ok := <-events:
					if !ok {
						return nil
					}
					if err := q.Enqueue(ctx, async.NewJob(path)); err != nil {
						c.logger.Warn("watch.enqueue.failed", "path", path, "error", err)
					}
				case err, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					c.logger.Warn("watch.error", "error", err)
				case <-ctx.Done():
					return nil
				}
			}
		},
	}
	cmd.Flags().StringVar(&jdPath, "jd", "", "job description file")
	cmd.Flags().StringSliceVar(&exts, "ext", nil, "file extensions to include (default pdf,png,jpg,jpeg,txt)")
	cmd.Flags().BoolVar(&initialScan, "initial-scan", false, "also analyse files already present")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "coalesce bursts of file events")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	return cmd
}
