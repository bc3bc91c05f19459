package model

import (
	"fmt"
	"strings"
)

// SpecSignature is the structured (or literal) representation of a variant's
// size/quantity/pack. It is a value type: two signatures are the same variant
// iff they compare equal, which lets grouping use it directly as a map key.
type SpecSignature struct {
	Unit      string
	SizeClass string
	Literal   string
	Quantity  float64
	Pack      int
}

// IsZero reports whether no spec signal at all was found.
func (s SpecSignature) IsZero() bool {
	return s == SpecSignature{}
}

// Structured reports whether the signature came from a recognized pattern
// rather than a literal leftover string.
func (s SpecSignature) Structured() bool {
	return s.Quantity > 0 || s.SizeClass != ""
}

// String renders a stable canonical form used for lexical ordering and
// display: "12x50g", "500ml", "3只", "大", or the literal text.
func (s SpecSignature) String() string {
	if s.IsZero() {
		return ""
	}
	var b strings.Builder
	if s.Quantity > 0 {
		if s.Pack > 1 {
			fmt.Fprintf(&b, "%dx", s.Pack)
		}
		b.WriteString(trimFloat(s.Quantity))
		b.WriteString(s.Unit)
	}
	if s.SizeClass != "" {
		if b.Len() > 0 {
			b.WriteString("/")
		}
		b.WriteString(s.SizeClass)
	}
	if b.Len() == 0 {
		return s.Literal
	}
	return b.String()
}

// trimFloat formats a quantity without a trailing ".0" for whole numbers.
func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return strings.TrimRight(fmt.Sprintf("%.3f", f), "0")
}
