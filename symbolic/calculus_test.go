// SPDX-License-Identifier: MIT
package symbolic_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sortshoot/symbolic"
)

// numericDerivative is a central difference used as an oracle.
func numericDerivative(t *testing.T, e symbolic.Expr, env map[string]float64, name string) float64 {
	t.Helper()
	const h = 1e-6
	up := cloneEnv(env)
	up[name] += h
	down := cloneEnv(env)
	down[name] -= h
	fu, err := symbolic.Eval(e, up)
	require.NoError(t, err)
	fd, err := symbolic.Eval(e, down)
	require.NoError(t, err)
	return (fu - fd) / (2 * h)
}

func cloneEnv(env map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}

func TestDiff_MatchesCentralDifferences(t *testing.T) {
	env := map[string]float64{"x": 0.7, "mu": 1.3, "theta": 2.1, "a": 0.4}
	srcs := []string{
		"a*x^2 + mu*theta",
		"exp(-mu/theta)",
		"log(theta)*sin(x) - cos(mu)",
		"tan(x/2) + tanh(mu)",
		"theta^mu",
		"sqrt(x*theta) + abs(mu - 2)",
		"erf(a*x - mu)",
		"(x + mu)^(-2)",
	}
	for _, src := range srcs {
		e := symbolic.MustParse(src)
		for _, name := range []string{"x", "mu", "theta"} {
			d := symbolic.Diff(e, name)
			got, err := symbolic.Eval(d, env)
			require.NoError(t, err)
			want := numericDerivative(t, e, env, name)
			assert.InDelta(t, want, got, 1e-6, "d(%s)/d%s = %s", src, name, d)
		}
	}
}

func TestDiff_Simplifies(t *testing.T) {
	assert.Equal(t, "0", symbolic.Diff(symbolic.MustParse("a*b"), "x").String())
	assert.Equal(t, "2*x", symbolic.Diff(symbolic.MustParse("x^2"), "x").String())
	assert.Equal(t, "0", symbolic.Diff(symbolic.MustParse("sign(x)"), "x").String())
}

func TestJacobian_Shape(t *testing.T) {
	sys := []symbolic.Expr{
		symbolic.MustParse("-theta*mu"),
		symbolic.MustParse("mu + x"),
	}
	jac := symbolic.Jacobian(sys, []string{"mu", "theta"})
	require.Len(t, jac, 2)
	require.Len(t, jac[0], 2)

	assert.Equal(t, "-theta", jac[0][0].String())
	assert.Equal(t, "-mu", jac[0][1].String())
	assert.Equal(t, "1", jac[1][0].String())
	assert.Equal(t, "0", jac[1][1].String())
}

func TestSub_ReplacesSymbol(t *testing.T) {
	e := symbolic.MustParse("mu*theta + mu")
	got := symbolic.Sub(e, "mu", symbolic.N(2))
	v, err := symbolic.Eval(got, map[string]float64{"theta": 3})
	require.NoError(t, err)
	assert.Equal(t, 8.0, v)
	assert.Equal(t, []string{"theta"}, symbolic.FreeSymbols(got))
}

func TestFreeSymbols_Sorted(t *testing.T) {
	e := symbolic.MustParse("z*exp(b) + a^y")
	assert.Equal(t, []string{"a", "b", "y", "z"}, symbolic.FreeSymbols(e))
	assert.Empty(t, symbolic.FreeSymbols(symbolic.N(math.Pi)))
}
