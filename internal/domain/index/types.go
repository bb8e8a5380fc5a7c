package index

// Serialization tags. They are part of the on-disk format and must not change.
const (
	ComponentTag = "!index-component"
	DiffTag      = "!index-diff"
	IndexTag     = "!index"
)

// Component is a single index constituent.
type Component struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Diff is one change to the index composition.
// Added and Removed are independently optional.
type Diff struct {
	Date    string     `json:"date"`
	Added   *Component `json:"added"`
	Removed *Component `json:"removed"`
	Reason  string     `json:"reason"`
}

// Index is the full scrape result, in page order.
type Index struct {
	Components []*Component `json:"components"`
	Diffs      []*Diff      `json:"diffs"`
}

// Equal reports whether both components carry the same symbol and name.
// Two nil components are equal.
func (c *Component) Equal(other *Component) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Symbol == other.Symbol && c.Name == other.Name
}

// String returns "SYMBOL (Name)".
func (c *Component) String() string {
	if c == nil {
		return "<none>"
	}
	return c.Symbol + " (" + c.Name + ")"
}

// Equal compares two diffs by value.
func (d *Diff) Equal(other *Diff) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.Date == other.Date &&
		d.Reason == other.Reason &&
		d.Added.Equal(other.Added) &&
		d.Removed.Equal(other.Removed)
}

// Equal compares two indexes element by element.
func (i *Index) Equal(other *Index) bool {
	if i == nil || other == nil {
		return i == other
	}
	if len(i.Components) != len(other.Components) || len(i.Diffs) != len(other.Diffs) {
		return false
	}
	for n := range i.Components {
		if !i.Components[n].Equal(other.Components[n]) {
			return false
		}
	}
	for n := range i.Diffs {
		if !i.Diffs[n].Equal(other.Diffs[n]) {
			return false
		}
	}
	return true
}

// Symbols returns the component symbols in order.
func (i *Index) Symbols() []string {
	symbols := make([]string, 0, len(i.Components))
	for _, c := range i.Components {
		symbols = append(symbols, c.Symbol)
	}
	return symbols
}
