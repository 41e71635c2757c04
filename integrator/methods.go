// SPDX-License-Identifier: MIT

package integrator

import "sort"

// tableau is an explicit Runge–Kutta scheme in Butcher form. E holds the
// error weights B - B̂ of the embedded pair; it is nil for fixed methods.
type tableau struct {
	name  string
	order int
	c     []float64
	a     [][]float64
	b     []float64
	e     []float64
}

func (t *tableau) stages() int { return len(t.b) }

// Dormand–Prince 5(4), the pair behind MATLAB's ode45 and scipy's dopri5.
var dopri5 = &tableau{
	name:  "dopri5",
	order: 5,
	c:     []float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1, 1},
	a: [][]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
		{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
	},
	b: []float64{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0, 0},
	e: []float64{
		35.0/384.0 - 5179.0/57600.0,
		0,
		500.0/1113.0 - 7571.0/16695.0,
		125.0/192.0 - 393.0/640.0,
		-2187.0/6784.0 + 92097.0/339200.0,
		11.0/84.0 - 187.0/2100.0,
		-1.0 / 40.0,
	},
}

// Bogacki–Shampine 3(2).
var bs32 = &tableau{
	name:  "bs32",
	order: 3,
	c:     []float64{0, 0.5, 0.75, 1},
	a: [][]float64{
		{},
		{0.5},
		{0, 0.75},
		{2.0 / 9.0, 1.0 / 3.0, 4.0 / 9.0},
	},
	b: []float64{2.0 / 9.0, 1.0 / 3.0, 4.0 / 9.0, 0},
	e: []float64{
		2.0/9.0 - 7.0/24.0,
		1.0/3.0 - 1.0/4.0,
		4.0/9.0 - 1.0/3.0,
		-1.0 / 8.0,
	},
}

var rk4 = &tableau{
	name:  "rk4",
	order: 4,
	c:     []float64{0, 0.5, 0.5, 1},
	a:     [][]float64{{}, {0.5}, {0, 0.5}, {0, 0, 1}},
	b:     []float64{1.0 / 6.0, 1.0 / 3.0, 1.0 / 3.0, 1.0 / 6.0},
}

var heun = &tableau{
	name:  "heun",
	order: 2,
	c:     []float64{0, 1},
	a:     [][]float64{{}, {1}},
	b:     []float64{0.5, 0.5},
}

var midpoint = &tableau{
	name:  "midpoint",
	order: 2,
	c:     []float64{0, 0.5},
	a:     [][]float64{{}, {0.5}},
	b:     []float64{0, 1},
}

var euler = &tableau{
	name:  "euler",
	order: 1,
	c:     []float64{0},
	a:     [][]float64{{}},
	b:     []float64{1},
}

// methodKind tells the Integrator how to drive a scheme.
type methodKind int

const (
	kindExplicit methodKind = iota
	kindRosenbrock
)

type method struct {
	kind     methodKind
	tableau  *tableau // kindExplicit only
	adaptive bool
	// errOrder is the order of the embedded error estimate; the controller
	// exponent is 1/(errOrder+1).
	errOrder int
}

// Ros2Name is the registry name of the two-stage Rosenbrock method.
const Ros2Name = "ros2"

var registry = map[string]method{
	dopri5.name:   {kind: kindExplicit, tableau: dopri5, adaptive: true, errOrder: 4},
	bs32.name:     {kind: kindExplicit, tableau: bs32, adaptive: true, errOrder: 2},
	rk4.name:      {kind: kindExplicit, tableau: rk4},
	heun.name:     {kind: kindExplicit, tableau: heun},
	midpoint.name: {kind: kindExplicit, tableau: midpoint},
	euler.name:    {kind: kindExplicit, tableau: euler},
	Ros2Name:      {kind: kindRosenbrock, adaptive: true, errOrder: 1},
}

// Methods returns the registered method names in ascending order.
func Methods() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
