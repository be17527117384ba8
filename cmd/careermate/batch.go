package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/careermate/internal/async"
	"github.com/joseph-ayodele/careermate/internal/common"
	"github.com/joseph-ayodele/careermate/internal/export"
	"github.com/joseph-ayodele/careermate/internal/ingest"
	"github.com/joseph-ayodele/careermate/internal/resume"
)

func (c *cli) newBatchCmd() *cobra.Command {
	var (
		jdPath      string
		outPath     string
		exts        []string
		skipHidden  bool
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Analyse every resume in a directory and export a ranked workbook",
		Args:  cobra.ExactArgs(1),
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

			files, stats, err := ingest.CollectDocuments(ctx, args[0], exts, skipHidden)
			if err != nil {
				return common.NewAppError(common.CodeInput, "collect documents", err)
			}
			c.logger.Info("batch.collect.ok",
				"root", args[0],
				"matched", stats.Matched,
				"duplicates", stats.Deduplicated,
				"failed", stats.Failed,
			)

			metrics, stopMetrics := c.serveMetrics(metricsAddr)
			defer stopMetrics()

			var (
				mu      sync.Mutex
				results []resume.Analysis
			)
			proc := async.ProcessorFunc(func(ctx context.Context, job async.Job) error {
				res, err := analyzeFile(ctx, an, job.Path, jd)
				if err != nil {
					return err
				}
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
				return nil
			})
			q := c.newQueue(proc, metrics)

			for _, f := range files {
				if f.Err != "" || f.Duplicate {
					continue
				}
				if err := q.Enqueue(ctx, async.NewJob(f.Path)); err != nil {
					q.Shutdown(context.Background())
					return err
				}
			}
			q.Shutdown(ctx)

			mu.Lock()
			defer mu.Unlock()
			data, err := export.NewService(c.logger).WriteMatchesXLSX(ctx, results)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return common.NewAppError(common.CodeIO, "write workbook", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d results to %s\n", len(results), outPath)
			return err
		},
	}
	cmd.Flags().StringVar(&jdPath, "jd", "", "job description file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "results.xlsx", "output workbook")
	cmd.Flags().StringSliceVar(&exts, "ext", nil, "file extensions to include (default pdf,png,jpg,jpeg,txt)")
	cmd.Flags().BoolVar(&skipHidden, "skip-hidden", true, "skip hidden files and directories")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	return cmd
}

func (c *cli) newQueue(proc async.Processor, metrics *async.Metrics) *async.ProcessorQueue {
	return async.NewProcessorQueue(proc, c.logger,
		async.WithWorkers(c.cfg.Batch.Workers),
		async.WithQueueSize(c.cfg.Batch.QueueSize),
		async.WithProcessTimeout(c.cfg.Batch.ProcessTimeout),
		async.WithMetrics(metrics),
	)
}

// serveMetrics registers queue metrics and, when addr is set, exposes them
// over HTTP until the returned stop function is called.
func (c *cli) serveMetrics(addr string) (*async.Metrics, func()) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := async.NewMetrics(reg)
	if addr == "" {
		return metrics, func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		c.logger.Info("metrics.listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error("metrics.listen.failed", "addr", addr, "error", err)
		}
	}()
	return metrics, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Warn("metrics.shutdown.failed", "error", err)
		}
	}
}
