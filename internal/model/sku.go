// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
)

// RawRow is one catalog row after column-alias resolution, before validation.
// Optional numeric fields are pointers so that "absent" and "zero" stay
// distinguishable until validation.
type RawRow struct {
	Price         *float64
	OriginalPrice *float64
	SalesQty      *float64
	Stock         *float64
	Name          string
	Spec          string
	Barcode       string
	Store         string
	CategoryPath  []string
}

// Catalog is one input snapshot for a single analysis run.
type Catalog struct {
	Store string
	Rows  []RawRow
}

// SKU is a validated catalog row. All derived tagging lives on TaggedSKU;
// an SKU carries only what the input snapshot asserted.
type SKU struct {
	Name          string
	Spec          string
	Barcode       string
	Store         string
	CategoryPath  []string
	Price         float64
	OriginalPrice float64
	SalesQty      float64
	Stock         float64
	RowIndex      int // position in the input snapshot, used as the final ordering tie-break
}

// TopCategory returns the first level of the category path, or "" if none.
func (s *SKU) TopCategory() string {
	if len(s.CategoryPath) == 0 {
		return ""
	}
	return s.CategoryPath[0]
}

// Revenue is price times monthly sales volume.
func (s *SKU) Revenue() float64 {
	return s.Price * s.SalesQty
}

// TaggedSKU is an SKU plus every column the engine derives for it.
type TaggedSKU struct {
	SKU
	FamilyKey    string
	Signature    SpecSignature
	Role         RoleLabel
	Scenarios    []string
	IsMultiSpec  bool
	CanonicalRow bool
}

// DedupKey identifies "the same SKU" across raw rows: same family, same
// spec signature, same barcode. A barcode difference alone never creates a
// new spec signature, but it does keep two otherwise identical-looking rows
// from collapsing into one.
type DedupKey struct {
	FamilyKey string
	Signature SpecSignature
	Barcode   string
}

// Identity returns the dedup identity of a tagged row.
func (t *TaggedSKU) Identity() DedupKey {
	return DedupKey{
		FamilyKey: t.FamilyKey,
		Signature: t.Signature,
		Barcode:   strings.TrimSpace(t.Barcode),
	}
}

// RejectReason explains why a row was excluded from classification.
type RejectReason string

// Reject reason codes.
const (
	ReasonMissingName      RejectReason = "missing_name"
	ReasonMissingPrice     RejectReason = "missing_price"
	ReasonInvalidPrice     RejectReason = "invalid_price"
	ReasonExcludedCategory RejectReason = "excluded_category"
)

// RejectedRow is a catalog row excluded from classification. Rejected rows
// are reported alongside the tagged table so that no input row ever silently
// disappears from the accounting.
type RejectedRow struct {
	Row      RawRow
	Reason   RejectReason
	RowIndex int
}
