// SPDX-License-Identifier: MIT

package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/sortshoot/symbolic"
)

// fileValidate is shared; validator.Validate caches struct metadata and is
// safe for concurrent use.
var fileValidate = validator.New()

// File is the on-disk (YAML) form of a Model.
type File struct {
	Name          string             `yaml:"name"`
	Assortativity string             `yaml:"assortativity" validate:"required,oneof=positive negative"`
	Workers       BoundsFile         `yaml:"workers" validate:"required"`
	Firms         BoundsFile         `yaml:"firms" validate:"required"`
	Params        map[string]float64 `yaml:"params"`
	Equations     EquationsFile      `yaml:"equations" validate:"required"`
}

// BoundsFile is one domain in a model file. Pointers distinguish "0" from
// "missing".
type BoundsFile struct {
	Lower    *float64 `yaml:"lower" validate:"required"`
	Upper    *float64 `yaml:"upper" validate:"required"`
	Variable string   `yaml:"variable,omitempty" validate:"omitempty,alphanum"`
}

// EquationsFile holds the equilibrium conditions as expression strings.
type EquationsFile struct {
	MuPrime    string `yaml:"mu_prime" validate:"required"`
	ThetaPrime string `yaml:"theta_prime" validate:"required"`
	Wage       string `yaml:"wage" validate:"required"`
	Profit     string `yaml:"profit" validate:"required"`
}

// Load reads a model file from path.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	return Decode(bytes.NewReader(raw))
}

// Decode reads one YAML model document. Unknown keys are rejected.
func Decode(r io.Reader) (*Model, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidFile)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	return f.Build()
}

// Build validates the file and parses its equations.
func (f *File) Build() (*Model, error) {
	if err := fileValidate.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	a, err := ParseAssortativity(f.Assortativity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	var eq Equations
	for _, src := range []struct {
		field string
		text  string
		dst   *symbolic.Expr
	}{
		{"mu_prime", f.Equations.MuPrime, &eq.MuPrime},
		{"theta_prime", f.Equations.ThetaPrime, &eq.ThetaPrime},
		{"wage", f.Equations.Wage, &eq.Wage},
		{"profit", f.Equations.Profit, &eq.Profit},
	} {
		e, err := symbolic.Parse(src.text)
		if err != nil {
			return nil, fmt.Errorf("%w: equations.%s: %w", ErrInvalidFile, src.field, err)
		}
		*src.dst = e
	}

	opts := []Option{WithName(f.Name)}
	if f.Workers.Variable != "" {
		opts = append(opts, WithVariable(f.Workers.Variable))
	}
	if len(f.Params) > 0 {
		opts = append(opts, WithParams(f.Params))
	}
	m, err := New(a,
		Bounds{Lower: *f.Workers.Lower, Upper: *f.Workers.Upper},
		Bounds{Lower: *f.Firms.Lower, Upper: *f.Firms.Upper},
		eq, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	return m, nil
}
