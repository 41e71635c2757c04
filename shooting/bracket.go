// SPDX-License-Identifier: MIT

package shooting

// Bracket is the interval of initial firm sizes still in play.
// Invariant: 0 ≤ Lower < Upper.
type Bracket struct {
	Lower float64
	Upper float64
}

// Guess returns the midpoint.
func (b Bracket) Guess() float64 { return 0.5 * (b.Lower + b.Upper) }

// Width returns Upper - Lower.
func (b Bracket) Width() float64 { return b.Upper - b.Lower }

// narrow replaces exactly one bound with the guess: TooHigh lowers Upper,
// TooLow raises Lower.
func (b Bracket) narrow(v Verdict) (Bracket, error) {
	g := b.Guess()
	if !(g > b.Lower && g < b.Upper) {
		return b, ErrBracketCollapsed
	}
	switch v {
	case TooHigh:
		return Bracket{Lower: b.Lower, Upper: g}, nil
	case TooLow:
		return Bracket{Lower: g, Upper: b.Upper}, nil
	}
	return b, nil
}
