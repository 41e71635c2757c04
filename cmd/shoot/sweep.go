// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sortshoot/metrics"
	"github.com/katalvlaran/sortshoot/shooting"
	"github.com/katalvlaran/sortshoot/store"
	"github.com/katalvlaran/sortshoot/sweep"
)

func newSweepCmd(a *app) *cobra.Command {
	var (
		sf          solveFlags
		axes        []string
		concurrency int
		failFast    bool
		db          string
		metricsFile string
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Solve one model over a grid of parameter values",
		Long: `sweep solves the model once per point of the cartesian product of the
--param axes. An axis is name=v1,v2,... or name=start:stop:n.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(sf.modelPath, sf.sets)
			if err != nil {
				return err
			}
			opts, err := sf.options(a.logger)
			if err != nil {
				return err
			}
			if concurrency < 1 {
				return usageError("--concurrency must be > 0")
			}

			grid := sweep.Grid{}
			for _, ax := range axes {
				name, vs, err := sweep.ParseAxis(ax)
				if err != nil {
					return err
				}
				grid[name] = vs
			}
			points, err := sweep.Points(grid)
			if err != nil {
				return err
			}

			var collector *metrics.Collector
			if metricsFile != "" {
				collector = metrics.New("")
				opts = append(opts, shooting.WithObserver(collector))
			}
			var st *store.Store
			if db != "" {
				if st, err = store.Open(cmd.Context(), db); err != nil {
					return err
				}
				defer st.Close()
			}

			results, runErr := sweep.Run(cmd.Context(), m, sf.guess, points,
				sweep.WithConcurrency(concurrency),
				sweep.WithFailFast(failFast),
				sweep.WithLogger(a.logger),
				sweep.WithSolveOptions(opts...))

			w := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(w, "%-24s error: %v\n", r.Point, r.Err)
					continue
				}
				fmt.Fprintf(w, "%-24s theta0=%-12.8g trials=%-3d %s\n", r.Point, r.Result.Guess, r.Result.Trials, r.Result.Outcome.Reason)
				if st != nil {
					if _, err := st.SaveRun(cmd.Context(), r.Model, r.Result); err != nil {
						return err
					}
				}
			}
			if collector != nil {
				if err := collector.WriteTextfile(metricsFile); err != nil {
					return err
				}
			}
			if runErr != nil {
				return runErr
			}
			if failed > 0 {
				return fmt.Errorf("sweep: %d of %d points failed", failed, len(results))
			}
			return nil
		},
	}
	sf.register(cmd.Flags())
	cmd.Flags().StringArrayVarP(&axes, "param", "p", nil, "Parameter axis name=v1,v2 or name=start:stop:n (repeatable)")
	cmd.Flags().IntVar(&concurrency, "concurrency", runtime.GOMAXPROCS(0), "Solves in flight")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failed point")
	cmd.Flags().StringVar(&db, "db", "", "Record every successful run in this SQLite database")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}
