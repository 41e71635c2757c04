// SPDX-License-Identifier: MIT

package shooting

import (
	"github.com/katalvlaran/sortshoot/model"
	"github.com/katalvlaran/sortshoot/solution"
)

// direction is everything that differs between the two sorting regimes.
type direction struct {
	sign     float64
	table    solution.Direction
	start    func(model.Bounds) float64
	end      func(model.Bounds) float64
	classify func(State, limits) Outcome
}

func lowerOf(b model.Bounds) float64 { return b.Lower }
func upperOf(b model.Bounds) float64 { return b.Upper }

var (
	negativeDirection = direction{
		sign:     1,
		table:    solution.Increasing,
		start:    lowerOf,
		end:      upperOf,
		classify: classifyNegative,
	}
	positiveDirection = direction{
		sign:     -1,
		table:    solution.Decreasing,
		start:    upperOf,
		end:      lowerOf,
		classify: classifyPositive,
	}
)

func directionFor(a model.Assortativity) direction {
	if a == model.Positive {
		return positiveDirection
	}
	return negativeDirection
}
