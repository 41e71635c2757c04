// SPDX-License-Identifier: MIT

// Package model describes an assortative-matching economy in the form the
// shooting solver consumes.
//
// A Model bundles:
//   - the assortativity regime (positive or negative sorting),
//   - domain bounds for workers (the independent skill variable x) and for
//     firms (the range of the pairing value mu),
//   - named numeric parameters,
//   - symbolic equilibrium conditions: mu'(x), theta'(x), the wage and the
//     profit, written over (x, mu, theta, params...).
//
// Models are immutable values. Override returns a new Model with one parameter
// changed, so a Model can be shared between goroutines and solvers freely.
//
// Models can be built in Go (New) or loaded from YAML (Load, Decode):
//
//	name: toy
//	assortativity: negative
//	workers: {lower: 0, upper: 1, variable: x}
//	firms:   {lower: 0, upper: 1}
//	params:  {a: 1.0}
//	equations:
//	  mu_prime: "-1"
//	  theta_prime: "0"
//	  wage: "1 + a*x"
//	  profit: "1 + mu"
//
// Deriving these equations from a production function and a matching
// technology is the caller's business; this package only carries them.
package model
