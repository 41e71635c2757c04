// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sortshoot/metrics"
	"github.com/katalvlaran/sortshoot/model"
	"github.com/katalvlaran/sortshoot/shooting"
	"github.com/katalvlaran/sortshoot/store"
)

// outputFlags control where a solve's results go.
type outputFlags struct {
	out         string
	db          string
	metricsFile string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Write the solution table as CSV (\"-\" for stdout)")
	cmd.Flags().StringVar(&f.db, "db", "", "Record the run in this SQLite database")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file")
}

func newSolveCmd(a *app) *cobra.Command {
	var (
		sf solveFlags
		of outputFlags
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find the equilibrium of one model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(sf.modelPath, sf.sets)
			if err != nil {
				return err
			}
			opts, err := sf.options(a.logger)
			if err != nil {
				return err
			}
			var collector *metrics.Collector
			if of.metricsFile != "" {
				collector = metrics.New("")
				opts = append(opts, shooting.WithObserver(collector))
			}

			solver, err := shooting.New(m)
			if err != nil {
				return err
			}
			res, solveErr := solver.Solve(sf.guess, opts...)

			// metrics are written for failed solves too
			if collector != nil {
				if err := collector.WriteTextfile(of.metricsFile); err != nil {
					return err
				}
			}
			if solveErr != nil {
				return solveErr
			}

			printResult(cmd.OutOrStdout(), m, res)
			if of.out != "" {
				if err := writeTable(cmd, of.out, res); err != nil {
					return err
				}
			}
			if of.db != "" {
				st, err := store.Open(cmd.Context(), of.db)
				if err != nil {
					return err
				}
				defer st.Close()
				if _, err := st.SaveRun(cmd.Context(), m, res); err != nil {
					return err
				}
			}
			return nil
		},
	}
	sf.register(cmd.Flags())
	of.register(cmd)
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func printResult(w io.Writer, m *model.Model, res *shooting.Result) {
	fmt.Fprintf(w, "run      %s\n", res.ID)
	fmt.Fprintf(w, "model    %s (%s)\n", m.Name(), m.Assortativity())
	fmt.Fprintf(w, "method   %s\n", res.Method)
	fmt.Fprintf(w, "outcome  %s\n", res.Outcome)
	fmt.Fprintf(w, "theta0   %.8g\n", res.Guess)
	fmt.Fprintf(w, "trials   %d\n", res.Trials)
	fmt.Fprintf(w, "rows     %d\n", res.Table.Len())
}

func writeTable(cmd *cobra.Command, path string, res *shooting.Result) error {
	w, closeFn, err := openOut(cmd, path)
	if err != nil {
		return err
	}
	if err := res.Table.WriteCSV(w); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}
