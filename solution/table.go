// SPDX-License-Identifier: MIT

package solution

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNonMonotonic is returned by Append when x does not move strictly in
	// the table's direction.
	ErrNonMonotonic = errors.New("solution: x is not strictly monotonic")

	// ErrIndexOutOfRange is returned by Row for a bad index.
	ErrIndexOutOfRange = errors.New("solution: row index out of range")

	// ErrUnknownColumn is returned by Column for a name outside Columns.
	ErrUnknownColumn = errors.New("solution: unknown column")
)

// Direction is the order of x along a table.
type Direction int

const (
	// Increasing x: negative assortative matching.
	Increasing Direction = 1
	// Decreasing x: positive assortative matching.
	Decreasing Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Increasing:
		return "increasing"
	case Decreasing:
		return "decreasing"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Columns names the table columns in order.
var Columns = []string{"x", "mu", "theta", "wage", "profit"}

// Row is one point of a trajectory.
type Row struct {
	X      float64
	Mu     float64
	Theta  float64
	Wage   float64
	Profit float64
}

// Values returns the row in Columns order.
func (r Row) Values() []float64 {
	return []float64{r.X, r.Mu, r.Theta, r.Wage, r.Profit}
}

// Table is an append-only trajectory. The zero value is not usable; call New.
type Table struct {
	dir  Direction
	rows []Row
}

// New starts a table at the initial row. A dir other than Increasing or
// Decreasing is a programmer error and panics.
func New(initial Row, dir Direction) *Table {
	if dir != Increasing && dir != Decreasing {
		panic(fmt.Sprintf("solution: New: invalid direction %d", int(dir)))
	}
	return &Table{dir: dir, rows: []Row{initial}}
}

// Append adds r after the last row.
func (t *Table) Append(r Row) error {
	last := t.rows[len(t.rows)-1]
	if step := (r.X - last.X) * float64(t.dir); !(step > 0) {
		return fmt.Errorf("%w: %s table, x=%g after x=%g", ErrNonMonotonic, t.dir, r.X, last.X)
	}
	t.rows = append(t.rows, r)
	return nil
}

// Direction returns the order of x.
func (t *Table) Direction() Direction { return t.dir }

// Len returns the number of rows, including the initial one.
func (t *Table) Len() int { return len(t.rows) }

// Row returns row i.
func (t *Table) Row(i int) (Row, error) {
	if i < 0 || i >= len(t.rows) {
		return Row{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(t.rows))
	}
	return t.rows[i], nil
}

// First returns the initial row.
func (t *Table) First() Row { return t.rows[0] }

// Last returns the most recent row.
func (t *Table) Last() Row { return t.rows[len(t.rows)-1] }

// Rows returns a copy of all rows.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Column returns one column by name (see Columns).
func (t *Table) Column(name string) ([]float64, error) {
	idx := -1
	for i, c := range Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Values()[idx]
	}
	return out, nil
}

// Dense returns the table as an n×5 gonum matrix in Columns order.
func (t *Table) Dense() *mat.Dense {
	data := make([]float64, 0, len(t.rows)*len(Columns))
	for _, r := range t.rows {
		data = append(data, r.Values()...)
	}
	return mat.NewDense(len(t.rows), len(Columns), data)
}

// Clone returns an independent copy.
func (t *Table) Clone() *Table {
	return &Table{dir: t.dir, rows: t.Rows()}
}

// WriteCSV writes a header line followed by one line per row. Values use the
// shortest representation that round-trips through strconv.ParseFloat.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	rec := make([]string, len(Columns))
	for _, r := range t.rows {
		for i, v := range r.Values() {
			rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
