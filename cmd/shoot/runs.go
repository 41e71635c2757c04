// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/sortshoot/store"
)

func newRunsCmd(a *app) *cobra.Command {
	var db string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect runs recorded with --db",
	}
	cmd.PersistentFlags().StringVar(&db, "db", "", "SQLite database")
	_ = cmd.MarkPersistentFlagRequired("db")

	var (
		modelName string
		limit     int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cmd.Context(), db)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), store.Filter{Model: modelName, Limit: limit})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tMODEL\tSORTING\tMETHOD\tREASON\tTHETA0\tTRIALS\tROWS\tCREATED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.8g\t%d\t%d\t%s\n",
					r.ID, r.Model, r.Assortativity, r.Method, r.Reason, r.Theta0, r.Trials, r.Rows,
					r.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			a.logger.Debug("listed runs")
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&modelName, "model", "", "Only runs of this model")
	list.Flags().IntVar(&limit, "limit", 0, "At most this many runs (0 = all)")

	var out string
	export := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Write the solution table of a run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("run id %q: %w", args[0], err)
			}
			st, err := store.Open(cmd.Context(), db)
			if err != nil {
				return err
			}
			defer st.Close()

			table, err := st.LoadTable(cmd.Context(), id)
			if err != nil {
				return err
			}
			w, closeFn, err := openOut(cmd, out)
			if err != nil {
				return err
			}
			if err := table.WriteCSV(w); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	export.Flags().StringVarP(&out, "out", "o", "-", "Output file (\"-\" for stdout)")

	cmd.AddCommand(list, export)
	return cmd
}
