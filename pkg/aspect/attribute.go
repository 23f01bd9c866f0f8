package aspect

// Attribute names one searchable field and whether it matches partially
// (case-insensitive substring) or exactly (case-sensitive equality).
// Attributes are immutable value objects; equality is by (Name, Partial).
type Attribute struct {
	Name    string
	Partial bool
}

// NewAttribute returns a partial-match attribute for name.
func NewAttribute(name string) Attribute {
	return Attribute{Name: name, Partial: true}
}

// NewExactAttribute returns an exact-match attribute for name.
func NewExactAttribute(name string) Attribute {
	return Attribute{Name: name, Partial: false}
}

// NewAttributes returns partial-match attributes for names, in order.
func NewAttributes(names ...string) []Attribute {
	attrs := make([]Attribute, len(names))
	for i, name := range names {
		attrs[i] = NewAttribute(name)
	}
	return attrs
}
