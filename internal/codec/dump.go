package codec

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/GriffinCanCode/wikisnp/internal/domain/index"
)

const indent = 2

var invalidAnchorChars = regexp.MustCompile(`[^0-9A-Za-z_-]`)

// Encoder writes tagged YAML documents to an output stream.
// Anchors never span documents: each Encode call starts a fresh identity map.
type Encoder struct {
	enc *yaml.Encoder
}

// NewEncoder returns an encoder that writes to w
func NewEncoder(w io.Writer) *Encoder {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(indent)
	return &Encoder{enc: enc}
}

// Encode writes v as one document. v must be an *index.Index, *index.Diff or
// *index.Component (or the corresponding value).
func (e *Encoder) Encode(v any) error {
	node, err := newDumper().record(v)
	if err != nil {
		return err
	}
	if err := e.enc.Encode(node); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return nil
}

// Close flushes buffered output
func (e *Encoder) Close() error {
	return e.enc.Close()
}

// Marshal returns the tagged YAML encoding of v
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// dumper builds the node tree for one document.
type dumper struct {
	seen    map[*index.Component]*yaml.Node
	anchors map[string]bool
	unnamed int
}

func newDumper() *dumper {
	return &dumper{
		seen:    make(map[*index.Component]*yaml.Node),
		anchors: make(map[string]bool),
	}
}

func (d *dumper) record(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case *index.Index:
		if v != nil {
			return d.index(v), nil
		}
	case index.Index:
		return d.index(&v), nil
	case *index.Diff:
		if v != nil {
			return d.diff(v), nil
		}
	case index.Diff:
		return d.diff(&v), nil
	case *index.Component:
		if v != nil {
			return d.component(v), nil
		}
	case index.Component:
		return d.component(&v), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

func (d *dumper) index(idx *index.Index) *yaml.Node {
	components := sequence()
	for _, c := range idx.Components {
		components.Content = append(components.Content, d.component(c))
	}

	diffs := sequence()
	for _, diff := range idx.Diffs {
		diffs.Content = append(diffs.Content, d.diff(diff))
	}

	return mapping(index.IndexTag,
		"components", components,
		"diffs", diffs,
	)
}

func (d *dumper) diff(diff *index.Diff) *yaml.Node {
	if diff == nil {
		return null()
	}
	return mapping(index.DiffTag,
		"date", str(diff.Date),
		"added", d.component(diff.Added),
		"removed", d.component(diff.Removed),
		"reason", str(diff.Reason),
	)
}

// component writes c in full on first sight and as an alias afterwards.
// The anchor is attached to the first node lazily, so components seen only
// once carry no anchor.
func (d *dumper) component(c *index.Component) *yaml.Node {
	if c == nil {
		return null()
	}

	if first, ok := d.seen[c]; ok {
		if first.Anchor == "" {
			first.Anchor = d.anchorFor(c)
		}
		return &yaml.Node{Kind: yaml.AliasNode, Value: first.Anchor, Alias: first}
	}

	node := mapping(index.ComponentTag,
		"symbol", str(c.Symbol),
		"name", str(c.Name),
	)
	d.seen[c] = node
	return node
}

// anchorFor derives a document-unique anchor from the component symbol.
// Characters not allowed in anchors become '_'; an empty symbol gets a
// generated idNNN name.
func (d *dumper) anchorFor(c *index.Component) string {
	base := invalidAnchorChars.ReplaceAllString(c.Symbol, "_")
	if base == "" {
		d.unnamed++
		base = fmt.Sprintf("id%03d", d.unnamed)
	}

	name := base
	for n := 2; d.anchors[name]; n++ {
		name = fmt.Sprintf("%s-%d", base, n)
	}
	d.anchors[name] = true
	return name
}

// mapping builds a tagged block mapping from alternating keys and values
func mapping(tag string, pairs ...any) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: tag}
	for i := 0; i < len(pairs); i += 2 {
		node.Content = append(node.Content, str(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return node
}

func sequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

// str always yields a string on reload; values that would resolve to another
// type ("null", "123", "") get quoted by the encoder
func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func null() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
