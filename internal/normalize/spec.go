package normalize

import (
	"strconv"
	"strings"

	"github.com/shelfscope/shelfscope/internal/model"
)

// ExtractSpec derives the spec signature for one SKU. Priority order:
// an explicit spec field always wins; otherwise a spec pattern recognized in
// the name; otherwise the zero signature. Barcodes never enter the
// signature, since a barcode difference alone must not mint a new variant;
// barcode handling lives in the reconciler's dedup identity instead.
func (n *Normalizer) ExtractSpec(name, specField string) model.SpecSignature {
	if field := cleanSpecField(specField); field != "" {
		sig := n.parseSpecText(field)
		if !sig.IsZero() {
			return sig
		}
		// Unparseable spec text still distinguishes variants; keep it literally.
		return model.SpecSignature{Literal: field}
	}
	return n.parseSpecText(strings.ToLower(strings.TrimSpace(name)))
}

// parseSpecText scans text for the tail-most structured spec token.
func (n *Normalizer) parseSpecText(text string) model.SpecSignature {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return model.SpecSignature{}
	}

	var sig model.SpecSignature

	if m := lastMatch(n.packRe.FindAllStringSubmatch(s, -1)); m != nil {
		pack, _ := strconv.Atoi(m[1])
		qty, _ := strconv.ParseFloat(m[2], 64)
		sig.Pack = pack
		sig.Quantity = qty
		sig.Unit = m[3]
	} else if m := lastMatch(n.measureRe.FindAllStringSubmatch(s, -1)); m != nil {
		qty, _ := strconv.ParseFloat(m[1], 64)
		sig.Quantity = qty
		sig.Unit = m[2]
	} else if m := lastMatch(n.countRe.FindAllStringSubmatch(s, -1)); m != nil {
		qty, _ := strconv.ParseFloat(m[1], 64)
		sig.Quantity = qty
		sig.Unit = m[2]
	}

	// A size word refines a quantity match and can also stand alone
	// ("薯片 大包" has no number but is still a distinct variant).
	for _, w := range n.sizeWords {
		if strings.Contains(s, strings.ToLower(w)) {
			sig.SizeClass = strings.ToLower(w)
			break
		}
	}

	return sig
}

// cleanSpecField normalizes a raw spec column value, treating placeholder
// text from spreadsheet exports as absent.
func cleanSpecField(field string) string {
	f := strings.ToLower(strings.TrimSpace(field))
	switch f {
	case "", "nan", "none", "null", "-":
		return ""
	}
	return f
}

func lastMatch(matches [][]string) []string {
	if len(matches) == 0 {
		return nil
	}
	return matches[len(matches)-1]
}
