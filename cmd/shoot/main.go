// SPDX-License-Identifier: MIT

// Command shoot solves equilibrium sorting models by shooting.
//
//	shoot solve  --model m.yaml --guess 5 [--out table.csv] [--db runs.db]
//	shoot probe  --model m.yaml --x 0 --mu 1 --theta 2
//	shoot sweep  --model m.yaml --guess 5 --param s=0.5:2:4 [--db runs.db]
//	shoot runs list   --db runs.db [--model name] [--limit n]
//	shoot runs export --db runs.db <run-id> [--out table.csv]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
