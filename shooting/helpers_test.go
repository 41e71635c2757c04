// SPDX-License-Identifier: MIT

package shooting_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sortshoot/model"
	"github.com/katalvlaran/sortshoot/symbolic"
)

var unit = model.Bounds{Lower: 0, Upper: 1}

func build(t testing.TB, a model.Assortativity, muPrime, wage, profit string, opts ...model.Option) *model.Model {
	t.Helper()
	m, err := model.New(a, unit, unit, model.Equations{
		MuPrime:    symbolic.MustParse(muPrime),
		ThetaPrime: symbolic.N(0),
		Wage:       symbolic.MustParse(wage),
		Profit:     symbolic.MustParse(profit),
	}, opts...)
	require.NoError(t, err)
	return m
}

// toyModel: mu falls one-for-one with x whatever the firm size.
func toyModel(t testing.TB) *model.Model {
	return build(t, model.Negative, "-1", "1 + a*x", "1 + mu",
		model.WithName("toy"), model.WithParam("a", 1))
}

// sizeModel: each firm absorbs theta workers, so mu(x) = 1 - x/theta and the
// equilibrium firm size is exactly 1.
func sizeModel(t testing.TB, a model.Assortativity) *model.Model {
	muPrime := "-1/theta"
	if a == model.Positive {
		muPrime = "1/theta"
	}
	return build(t, a, muPrime, "1 + x", "1 + mu", model.WithName("size-"+a.String()))
}

// lossModel: profit turns negative once half of the firms are matched.
func lossModel(t testing.TB) *model.Model {
	return build(t, model.Negative, "-1", "1 + x", "mu - 0.5", model.WithName("loss"))
}
