package scraper

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/GriffinCanCode/wikisnp/internal/domain/index"
)

// ComponentsFunc parses the components table
type ComponentsFunc func(table *goquery.Selection) ([]*index.Component, error)

// DiffsFunc parses the changes table
type DiffsFunc func(table *goquery.Selection) ([]*index.Diff, error)

// Parser turns a full index page into an index.Index.
// Both table strategies can be swapped, which tests use to observe table selection.
type Parser struct {
	Components ComponentsFunc
	Diffs      DiffsFunc
}

// NewParser creates a parser using ParseComponents and ParseDiffs
func NewParser() *Parser {
	return &Parser{
		Components: ParseComponents,
		Diffs:      ParseDiffs,
	}
}

// Parse parses an HTML page held in memory
func (p *Parser) Parse(htmlStr string) (*index.Index, error) {
	return p.ParseBytes([]byte(htmlStr), "")
}

// ParseBytes parses raw page bytes; contentType may carry a charset hint
func (p *Parser) ParseBytes(data []byte, contentType string) (*index.Index, error) {
	doc, err := LoadHTML(data, contentType)
	if err != nil {
		return nil, err
	}
	return p.ParseDocument(doc)
}

// ParseDocument selects the components and changes tables and parses them
func (p *Parser) ParseDocument(doc *goquery.Document) (*index.Index, error) {
	tables := doc.Find("table")

	componentsPos, diffsPos, err := tablePositions(tables.Length())
	if err != nil {
		return nil, err
	}

	components, err := p.componentsFunc()(tables.Eq(componentsPos))
	if err != nil {
		return nil, fmt.Errorf("components table #%d: %w", componentsPos, err)
	}

	diffs, err := p.diffsFunc()(tables.Eq(diffsPos))
	if err != nil {
		return nil, fmt.Errorf("changes table #%d: %w", diffsPos, err)
	}

	return &index.Index{
		Components: components,
		Diffs:      diffs,
	}, nil
}

func (p *Parser) componentsFunc() ComponentsFunc {
	if p.Components == nil {
		return ParseComponents
	}
	return p.Components
}

func (p *Parser) diffsFunc() DiffsFunc {
	if p.Diffs == nil {
		return ParseDiffs
	}
	return p.Diffs
}

// tablePositions picks the components and changes tables out of count tables.
// With exactly two tables they are the first two; with more, the page is
// assumed to lead with one extra table (a navigation or info box).
func tablePositions(count int) (components, diffs int, err error) {
	switch {
	case count < 2:
		return 0, 0, fmt.Errorf("%w: found %d", ErrInsufficientTables, count)
	case count == 2:
		return 0, 1, nil
	default:
		return 1, 2, nil
	}
}
