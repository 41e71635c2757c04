// SPDX-License-Identifier: MIT

package sweep

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/sortshoot/model"
)

// ErrEmptyAxis signals a grid parameter without values.
var ErrEmptyAxis = errors.New("sweep: parameter has no values")

// ErrBadRange signals an unparsable range specification.
var ErrBadRange = errors.New("sweep: bad range")

// Grid maps parameter names to the values to try.
type Grid map[string][]float64

// Point is one parameter assignment.
type Point map[string]float64

// String renders p as "a=1,b=2" with sorted names.
func (p Point) String() string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = k + "=" + strconv.FormatFloat(p[k], 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// apply overrides every parameter of p on m, in name order.
func (p Point) apply(m *model.Model) (*model.Model, error) {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	var err error
	for _, k := range names {
		if m, err = m.Override(k, p[k]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Points expands g into its cartesian product. Names are taken in sorted
// order and the last name varies fastest. An empty grid yields one empty
// Point (the base model).
func Points(g Grid) ([]Point, error) {
	names := make([]string, 0, len(g))
	for k, vs := range g {
		if len(vs) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyAxis, k)
		}
		names = append(names, k)
	}
	sort.Strings(names)

	total := 1
	for _, k := range names {
		total *= len(g[k])
	}
	out := make([]Point, total)
	for i := range out {
		p := make(Point, len(names))
		rem := i
		for j := len(names) - 1; j >= 0; j-- {
			vs := g[names[j]]
			p[names[j]] = vs[rem%len(vs)]
			rem /= len(vs)
		}
		out[i] = p
	}
	return out, nil
}

// ParseAxis reads "name=v1,v2,..." or "name=start:stop:n" (n evenly spaced
// values, both ends included).
func ParseAxis(s string) (string, []float64, error) {
	name, spec, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(spec) == "" {
		return "", nil, fmt.Errorf("%w: %q: want name=values", ErrBadRange, s)
	}
	if parts := strings.Split(spec, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		hi, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		n, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err := errors.Join(err1, err2, err3); err != nil {
			return "", nil, fmt.Errorf("%w: %q: %w", ErrBadRange, s, err)
		}
		if n < 1 || math.IsNaN(lo) || math.IsNaN(hi) {
			return "", nil, fmt.Errorf("%w: %q", ErrBadRange, s)
		}
		if n == 1 {
			return name, []float64{lo}, nil
		}
		vs := make([]float64, n)
		for i := range vs {
			vs[i] = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		return name, vs, nil
	}

	var vs []float64
	for _, f := range strings.Split(spec, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %q: %w", ErrBadRange, s, err)
		}
		vs = append(vs, v)
	}
	return name, vs, nil
}
