package app

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/GriffinCanCode/wikisnp/internal/codec"
	"github.com/GriffinCanCode/wikisnp/internal/domain/index"
)

// Comparison lists what changed between two snapshots.
// Components are matched by symbol; a component whose name changed shows up
// in Renamed, not in Added and Removed.
type Comparison struct {
	Added    []*index.Component
	Removed  []*index.Component
	Renamed  []Rename
	NewDiffs []*index.Diff
}

// Rename is a symbol that kept its place in the index under another name
type Rename struct {
	Symbol  string
	OldName string
	NewName string
}

// Empty reports whether the snapshots describe the same index
func (c *Comparison) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Renamed) == 0 && len(c.NewDiffs) == 0
}

// String renders one change per line
func (c *Comparison) String() string {
	var sb strings.Builder
	for _, comp := range c.Added {
		fmt.Fprintf(&sb, "+ %s\n", comp)
	}
	for _, comp := range c.Removed {
		fmt.Fprintf(&sb, "- %s\n", comp)
	}
	for _, r := range c.Renamed {
		fmt.Fprintf(&sb, "~ %s: %s -> %s\n", r.Symbol, r.OldName, r.NewName)
	}
	for _, d := range c.NewDiffs {
		fmt.Fprintf(&sb, "! %s: added %s, removed %s (%s)\n", d.Date, d.Added, d.Removed, d.Reason)
	}
	return sb.String()
}

// Compare loads two tagged YAML snapshots and reports their differences
func Compare(oldData, newData []byte) (*Comparison, error) {
	oldIdx, err := codec.UnmarshalIndex(oldData)
	if err != nil {
		return nil, fmt.Errorf("loading old snapshot: %w", err)
	}
	newIdx, err := codec.UnmarshalIndex(newData)
	if err != nil {
		return nil, fmt.Errorf("loading new snapshot: %w", err)
	}
	return CompareIndexes(oldIdx, newIdx), nil
}

// CompareIndexes reports differences between two loaded indexes. Output
// follows the order of the newer index, then the older one for removals.
func CompareIndexes(oldIdx, newIdx *index.Index) *Comparison {
	cmp := &Comparison{}

	oldBySymbol := bySymbol(oldIdx.Components)
	newBySymbol := bySymbol(newIdx.Components)

	for _, c := range newIdx.Components {
		prev, ok := oldBySymbol[c.Symbol]
		switch {
		case !ok:
			cmp.Added = append(cmp.Added, c)
		case prev.Name != c.Name:
			cmp.Renamed = append(cmp.Renamed, Rename{Symbol: c.Symbol, OldName: prev.Name, NewName: c.Name})
		}
	}
	for _, c := range oldIdx.Components {
		if _, ok := newBySymbol[c.Symbol]; !ok {
			cmp.Removed = append(cmp.Removed, c)
		}
	}

	for _, d := range newIdx.Diffs {
		if !containsDiff(oldIdx.Diffs, d) {
			cmp.NewDiffs = append(cmp.NewDiffs, d)
		}
	}
	return cmp
}

// bySymbol indexes components by symbol; the first occurrence wins
func bySymbol(components []*index.Component) map[string]*index.Component {
	m := make(map[string]*index.Component, len(components))
	for _, c := range components {
		if _, ok := m[c.Symbol]; !ok {
			m[c.Symbol] = c
		}
	}
	return m
}

func containsDiff(diffs []*index.Diff, target *index.Diff) bool {
	for _, d := range diffs {
		if d.Equal(target) {
			return true
		}
	}
	return false
}

// TextDiff renders a unified line diff of two snapshots. Unchanged lines are
// prefixed with two spaces, removed lines with "- " and added lines with "+ ".
func TextDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
