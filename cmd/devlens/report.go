package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devlens-ai/devlens/pkg/cache"
	"github.com/devlens-ai/devlens/pkg/models"
	"github.com/devlens-ai/devlens/pkg/perf"
)

func newReportCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a performance report for the durable store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			st, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			c := cache.New(cache.WithDefaultTTL(cfg.Cache.DefaultTTL))
			m := perf.New(perf.WithHitRateFunc(c.HitRate))

			// Measure a full record load so the report has at least one
			// real sample for this process. The measurement brackets
			// only the reads; every started measure is stopped.
			stop := m.StartMeasure("store load")
			warmCache(c, st, cfg.Cache.DefaultTTL)
			stop()

			// A persisted snapshot, when fresh, contributes a second
			// sample so restarts don't start from nothing.
			if snap, err := st.MetricsSnapshot(); err == nil && snap != nil {
				m.Record(models.Sample{
					Timestamp: snap.CapturedAt,
					MemoryMB:  snap.MemoryMB,
				})
			}

			fmt.Print(m.Report(c.Stats(), cfg.Report))

			recs := m.Recommendations(cfg.Report)
			if len(recs) == 1 && recs[0] == "performance is optimal" {
				color.Green("Status: optimal")
			} else {
				color.Yellow("Status: %d recommendation(s)", len(recs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "devlens.yaml", "path to config file")
	return cmd
}
