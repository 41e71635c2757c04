// Package sortshoot solves equilibrium sorting models of workers and firms
// by shooting.
//
// A model pairs a worker skill domain with a firm type domain and describes
// the matching through two ODEs: mu(x), the firm type matched to worker x,
// and theta(x), the size of that firm. Sorting is either positive (the best
// workers meet the best firms) or negative. The equilibrium is the trajectory
// that starts at the top firm type and exhausts workers and firms together,
// or leaves only zero-surplus agents unmatched.
//
// What is in the box?
//
//	A small, pure-Go toolchain built around one bisection loop:
//		• Expressions: parse, differentiate and compile model equations
//		• Models: YAML files validated and built into immutable models
//		• Integration: dopri5, bs32, rk4 and friends, plus Rosenbrock ros2
//		• Shooting: bracket the initial firm size, classify every step
//		• Results: solution tables, CSV, SQLite runs, Prometheus metrics
//
// Packages:
//
//	symbolic/   – expression trees, parser, derivatives, compiled closures
//	model/      – Model, Bounds, Assortativity; YAML model files
//	evaluator/  – compiled system, Jacobian, wage and profit; feasibility errors
//	integrator/ – adaptive and fixed-step ODE integrators behind one API
//	solution/   – the (x, mu, theta, wage, profit) table of a trajectory
//	shooting/   – boundary classifier and the bisection driver (Solver)
//	metrics/    – Prometheus Collector observing solves
//	store/      – SQLite persistence of runs
//	sweep/      – parallel solves over parameter grids
//	cmd/shoot   – command-line front end
//
// Quick start:
//
//	m, _ := model.Load("toy.yaml")
//	solver, _ := shooting.New(m)
//	res, err := solver.Solve(5.0)
//	// res.Guess is the equilibrium initial firm size, res.Table the trajectory.
//
//	go install github.com/katalvlaran/sortshoot/cmd/shoot@latest
package sortshoot
