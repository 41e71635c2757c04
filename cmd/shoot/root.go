// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/sortshoot/model"
)

// app carries state shared by all subcommands.
type app struct {
	verbose bool
	logger  *zap.Logger // preset by tests; built in PersistentPreRunE otherwise
	built   bool
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&app{})
}

func newRootCmdWith(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "shoot",
		Short: "Solve equilibrium sorting models by shooting",
		Long: `shoot integrates the matching ODE system of a sorting model from one
worker bound to the other and bisects on the initial firm size until the
trajectory meets the boundary conditions.

Models are YAML files: assortativity, worker and firm bounds, parameters and
the four equations (mu', theta', wage, profit) as expressions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger, a.built = logger, true
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.built {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging (one line per trial)")

	root.AddCommand(newSolveCmd(a))
	root.AddCommand(newProbeCmd(a))
	root.AddCommand(newSweepCmd(a))
	root.AddCommand(newRunsCmd(a))
	return root
}

// parseAssignments reads repeated "key=value" flags.
func parseAssignments(flag string, kvs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(kvs))
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("--%s %q: want key=value", flag, kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("--%s %q: %w", flag, kv, err)
		}
		out[k] = f
	}
	return out, nil
}

// loadModel reads a model file and applies --set overrides.
func loadModel(path string, sets []string) (*model.Model, error) {
	m, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	kv, err := parseAssignments("set", sets)
	if err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(kv) {
		if m, err = m.Override(name, kv[name]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// openOut returns stdout for "-" and a created file otherwise.
func openOut(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
