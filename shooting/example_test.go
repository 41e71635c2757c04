// SPDX-License-Identifier: MIT

package shooting_test

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/sortshoot/model"
	"github.com/katalvlaran/sortshoot/shooting"
	"github.com/katalvlaran/sortshoot/symbolic"
)

// ExampleSolver_Solve finds the firm size at which every worker on [0,1] is
// matched to exactly the available firms. With mu' = -1/theta the answer is
// theta = 1.
func ExampleSolver_Solve() {
	unit := model.Bounds{Lower: 0, Upper: 1}
	m, err := model.New(model.Negative, unit, unit, model.Equations{
		MuPrime:    symbolic.MustParse("-1/theta"),
		ThetaPrime: symbolic.N(0),
		Wage:       symbolic.MustParse("1 + x"),
		Profit:     symbolic.MustParse("1 + mu"),
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	solver, err := shooting.New(m)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	res, err := solver.Solve(3.0)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("theta0=%.4f rows=%d\n", res.Guess, res.Table.Len())
	fmt.Println(res.Outcome)
	// Output:
	// theta0=1.0000 rows=100
	// success: all workers and firms are matched
}

// ExampleSolver_Solve_ceilingTooLow shows the failure when the true firm size
// lies above the bracket.
func ExampleSolver_Solve_ceilingTooLow() {
	unit := model.Bounds{Lower: 0, Upper: 1}
	m, _ := model.New(model.Negative, unit, unit, model.Equations{
		MuPrime:    symbolic.MustParse("-1/theta"),
		ThetaPrime: symbolic.N(0),
		Wage:       symbolic.MustParse("1 + x"),
		Profit:     symbolic.MustParse("1 + mu"),
	})
	solver, _ := shooting.New(m)

	_, err := solver.Solve(0.5)
	fmt.Println(errors.Is(err, shooting.ErrGuessUpperTooLow))
	// Output: true
}
