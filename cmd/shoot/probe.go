// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sortshoot/evaluator"
	"github.com/katalvlaran/sortshoot/shooting"
)

func newProbeCmd(a *app) *cobra.Command {
	var (
		modelPath string
		sets      []string
		x, mu, th float64
		numeric   bool
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Evaluate the compiled system, Jacobian, wage and profit at one point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(modelPath, sets)
			if err != nil {
				return err
			}
			solver, err := shooting.New(m)
			if err != nil {
				return err
			}
			V := []float64{mu, th}
			w := cmd.OutOrStdout()

			rhs, err := solver.EvaluateRHS(x, V)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "mu'      %.10g\n", rhs[0])
			fmt.Fprintf(w, "theta'   %.10g\n", rhs[1])

			J, err := solver.EvaluateJacobian(x, V)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "jacobian %v\n", mat.Formatted(J, mat.Prefix("         ")))
			if numeric {
				ev, err := evaluator.Compile(m)
				if err != nil {
					return err
				}
				N, err := ev.NumericJacobian(x, V)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "numeric  %v\n", mat.Formatted(N, mat.Prefix("         ")))
			}

			// infeasible values are still printed, flagged
			for _, q := range []struct {
				name string
				eval func(float64, []float64) (float64, error)
			}{
				{"wage", solver.EvaluateWage},
				{"profit", solver.EvaluateProfit},
			} {
				v, err := q.eval(x, V)
				switch {
				case errors.Is(err, evaluator.ErrInfeasible):
					fmt.Fprintf(w, "%-8s %.10g (infeasible)\n", q.name, v)
				case err != nil:
					return err
				default:
					fmt.Fprintf(w, "%-8s %.10g\n", q.name, v)
				}
			}
			a.logger.Debug("probe", zap.Float64("x", x), zap.Float64("mu", mu), zap.Float64("theta", th))
			return nil
		},
	}
	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "Model file (YAML)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Override a model parameter, name=value (repeatable)")
	cmd.Flags().Float64Var(&x, "x", 0, "Worker skill")
	cmd.Flags().Float64Var(&mu, "mu", 1, "Firm type matched to x")
	cmd.Flags().Float64Var(&th, "theta", 1, "Firm size")
	cmd.Flags().BoolVar(&numeric, "numeric", false, "Also print the finite-difference Jacobian")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}
