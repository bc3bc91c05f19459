package model

// Family is a set of SKUs judged to be variants of the same underlying
// product: same family key, same top-level category. Grouping is always
// category-scoped, so a key collision across unrelated departments can
// never merge them.
type Family struct {
	Key          string
	TopCategory  string
	SKUs         []TaggedSKU
	SpecCount    int
	IsMultiSpec  bool
	CanonicalSKU TaggedSKU
}

// Size returns the number of member SKUs.
func (f *Family) Size() int {
	return len(f.SKUs)
}
