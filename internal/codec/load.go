package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GriffinCanCode/wikisnp/internal/domain/index"
)

// constructor builds one record from a node already known to carry its tag
type constructor func(l *loader, n *yaml.Node) (any, error)

var constructors = map[string]constructor{
	index.ComponentTag: func(l *loader, n *yaml.Node) (any, error) { return l.component(n) },
	index.DiffTag:      func(l *loader, n *yaml.Node) (any, error) { return l.diff(n) },
	index.IndexTag:     func(l *loader, n *yaml.Node) (any, error) { return l.index(n) },
}

var knownTags = map[string]bool{
	index.ComponentTag: true,
	index.DiffTag:      true,
	index.IndexTag:     true,
}

// Decoder reads tagged YAML documents from an input stream.
type Decoder struct {
	dec *yaml.Decoder
}

// NewDecoder returns a decoder that reads from r
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: yaml.NewDecoder(r)}
}

// Decode reads the next document and returns the record it holds.
// It returns io.EOF when the stream is exhausted.
func (d *Decoder) Decode() (any, error) {
	var doc yaml.Node
	if err := d.dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return loadDocument(&doc)
}

// Unmarshal decodes a single document into *index.Index, *index.Diff or
// *index.Component depending on its root tag.
func Unmarshal(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return loadDocument(&doc)
}

// UnmarshalIndex decodes a document whose root is an !index record
func UnmarshalIndex(data []byte) (*index.Index, error) {
	return unmarshalAs[*index.Index](data, index.IndexTag)
}

// UnmarshalDiff decodes a document whose root is an !index-diff record
func UnmarshalDiff(data []byte) (*index.Diff, error) {
	return unmarshalAs[*index.Diff](data, index.DiffTag)
}

// UnmarshalComponent decodes a document whose root is an !index-component record
func UnmarshalComponent(data []byte) (*index.Component, error) {
	return unmarshalAs[*index.Component](data, index.ComponentTag)
}

func unmarshalAs[T any](data []byte, tag string) (T, error) {
	var zero T

	v, err := Unmarshal(data)
	if err != nil {
		return zero, err
	}

	record, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: want %s, got %T", ErrUnexpectedRecord, tag, v)
	}
	return record, nil
}

func loadDocument(doc *yaml.Node) (any, error) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmptyDocument
	}
	return newLoader().record(doc.Content[0])
}

// loader holds the alias memo for one document.
type loader struct {
	components map[*yaml.Node]*index.Component
}

func newLoader() *loader {
	return &loader{components: make(map[*yaml.Node]*index.Component)}
}

func (l *loader) record(n *yaml.Node) (any, error) {
	target := resolve(n)
	construct, ok := constructors[target.Tag]
	if !ok {
		return nil, loadErrorf(target, ErrUnknownTag, "%q", target.Tag)
	}
	return construct(l, target)
}

func (l *loader) index(n *yaml.Node) (*index.Index, error) {
	fields, err := l.fields(n, index.IndexTag, "components", "diffs")
	if err != nil {
		return nil, err
	}

	components, err := l.sequence(fields["components"], "components")
	if err != nil {
		return nil, err
	}
	diffs, err := l.sequence(fields["diffs"], "diffs")
	if err != nil {
		return nil, err
	}

	idx := &index.Index{
		Components: make([]*index.Component, 0, len(components)),
		Diffs:      make([]*index.Diff, 0, len(diffs)),
	}
	for _, item := range components {
		c, err := l.component(item)
		if err != nil {
			return nil, err
		}
		idx.Components = append(idx.Components, c)
	}
	for _, item := range diffs {
		d, err := l.diff(item)
		if err != nil {
			return nil, err
		}
		idx.Diffs = append(idx.Diffs, d)
	}
	return idx, nil
}

func (l *loader) diff(n *yaml.Node) (*index.Diff, error) {
	fields, err := l.fields(n, index.DiffTag, "date", "added", "removed", "reason")
	if err != nil {
		return nil, err
	}

	d := &index.Diff{}
	if d.Date, err = scalar(fields["date"], "date"); err != nil {
		return nil, err
	}
	if d.Added, err = l.optionalComponent(fields["added"]); err != nil {
		return nil, err
	}
	if d.Removed, err = l.optionalComponent(fields["removed"]); err != nil {
		return nil, err
	}
	if d.Reason, err = scalar(fields["reason"], "reason"); err != nil {
		return nil, err
	}
	return d, nil
}

// component returns the instance already built for n, if any, so every alias
// of one anchor shares a pointer.
func (l *loader) component(n *yaml.Node) (*index.Component, error) {
	n = resolve(n)
	if c, ok := l.components[n]; ok {
		return c, nil
	}

	fields, err := l.fields(n, index.ComponentTag, "symbol", "name")
	if err != nil {
		return nil, err
	}

	c := &index.Component{}
	if c.Symbol, err = scalar(fields["symbol"], "symbol"); err != nil {
		return nil, err
	}
	if c.Name, err = scalar(fields["name"], "name"); err != nil {
		return nil, err
	}

	l.components[n] = c
	return c, nil
}

func (l *loader) optionalComponent(n *yaml.Node) (*index.Component, error) {
	if isNull(resolve(n)) {
		return nil, nil
	}
	return l.component(n)
}

func (l *loader) sequence(n *yaml.Node, field string) ([]*yaml.Node, error) {
	n = resolve(n)
	if n.Kind != yaml.SequenceNode {
		return nil, loadErrorf(n, ErrFieldMismatch, "%s: expected a sequence", field)
	}
	return n.Content, nil
}

// fields checks that n is a mapping tagged tag holding exactly the named
// keys, and returns their value nodes.
func (l *loader) fields(n *yaml.Node, tag string, names ...string) (map[string]*yaml.Node, error) {
	n = resolve(n)
	if n.Tag != tag {
		if !knownTags[n.Tag] && !strings.HasPrefix(n.Tag, "!!") {
			return nil, loadErrorf(n, ErrUnknownTag, "%q", n.Tag)
		}
		return nil, loadErrorf(n, ErrFieldMismatch, "expected %s, got %s", tag, n.Tag)
	}
	if n.Kind != yaml.MappingNode {
		return nil, loadErrorf(n, ErrExpectedMapping, "%s", tag)
	}

	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = true
	}

	fields := make(map[string]*yaml.Node, len(names))
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if key.Kind != yaml.ScalarNode {
			return nil, loadErrorf(key, ErrFieldMismatch, "%s: non-scalar key", tag)
		}
		if !want[key.Value] {
			return nil, loadErrorf(key, ErrFieldMismatch, "%s: unexpected field %q", tag, key.Value)
		}
		if _, dup := fields[key.Value]; dup {
			return nil, loadErrorf(key, ErrFieldMismatch, "%s: duplicate field %q", tag, key.Value)
		}
		fields[key.Value] = n.Content[i+1]
	}

	for _, name := range names {
		if _, ok := fields[name]; !ok {
			return nil, loadErrorf(n, ErrFieldMismatch, "%s: missing field %q", tag, name)
		}
	}
	return fields, nil
}

// scalar reads a string field. Any non-null scalar is accepted as text.
func scalar(n *yaml.Node, field string) (string, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode || isNull(n) {
		return "", loadErrorf(n, ErrFieldMismatch, "%s: expected a string", field)
	}
	return n.Value, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
