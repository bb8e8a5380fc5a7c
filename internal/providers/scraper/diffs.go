package scraper

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/GriffinCanCode/wikisnp/internal/domain/index"
)

// diffsHeader is the flattened two-row header of the changes table:
// Date | Added (Ticker, Security) | Removed (Ticker, Security) | Reason
var diffsHeader = []string{
	"Date",
	"Added",
	"Removed",
	"Reason",
	"Ticker",
	"Security",
	"Ticker",
	"Security",
}

const diffsHeaderRows = 2

// Logical cell positions of a reconstructed row
const (
	dateIdx = iota
	addedSymbolIdx
	addedNameIdx
	removedSymbolIdx
	removedNameIdx
	reasonIdx

	diffRowWidth
)

// carry tracks a cell that spans more rows than the one it is written in.
type carry struct {
	cell      *goquery.Selection
	remaining int
}

func (c *carry) active() bool {
	return c.remaining > 0
}

// start remembers cell as the carry source, for as many rows as it spans.
func (c *carry) start(cell *goquery.Selection) error {
	span, err := rowSpan(cell)
	if err != nil {
		return err
	}
	c.cell = cell
	c.remaining = span
	return nil
}

func (c *carry) step() {
	c.remaining = max(c.remaining-1, 0)
}

// ParseDiffs extracts the change history from the changes table.
//
// The page compresses rows sharing a date or a reason with rowspan, so those
// cells only appear in the first row of their group. Date and reason groups
// are tracked separately and do not need to line up.
func ParseDiffs(table *goquery.Selection) ([]*index.Diff, error) {
	header := make([]string, 0, len(diffsHeader))
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		header = append(header, cellText(th))
	})

	if !slices.Equal(header, diffsHeader) {
		return nil, fmt.Errorf("%w: header [%s]", ErrUnrecognizedTableStructure, strings.Join(header, ", "))
	}

	rows := table.Find("tr")
	result := make([]*index.Diff, 0, max(rows.Length()-diffsHeaderRows, 0))

	var date, reason carry

	for i := diffsHeaderRows; i < rows.Length(); i++ {
		cells := rowCells(rows.Eq(i))

		if date.active() {
			cells = append([]*goquery.Selection{date.cell}, cells...)
		}
		if reason.active() {
			cells = append(cells, reason.cell)
		}

		if len(cells) != diffRowWidth {
			return nil, fmt.Errorf("%w: row %d has %d cells, need %d", ErrMalformedRow, i, len(cells), diffRowWidth)
		}

		if !date.active() {
			if err := date.start(cells[dateIdx]); err != nil {
				return nil, fmt.Errorf("row %d date: %w", i, err)
			}
		}
		if !reason.active() {
			if err := reason.start(cells[reasonIdx]); err != nil {
				return nil, fmt.Errorf("row %d reason: %w", i, err)
			}
		}

		text := make([]string, diffRowWidth)
		for n, cell := range cells {
			text[n] = cellText(cell)
		}

		result = append(result, &index.Diff{
			Date:    text[dateIdx],
			Added:   component(text[addedSymbolIdx], text[addedNameIdx]),
			Removed: component(text[removedSymbolIdx], text[removedNameIdx]),
			Reason:  text[reasonIdx],
		})

		date.step()
		reason.step()
	}

	return result, nil
}

// component returns nil when the symbol cell is empty
func component(symbol, name string) *index.Component {
	if symbol == "" {
		return nil
	}
	return &index.Component{Symbol: symbol, Name: name}
}

// rowSpan reads the rowspan attribute; absent or zero means the cell
// covers its own row only
func rowSpan(cell *goquery.Selection) (int, error) {
	value, ok := cell.Attr("rowspan")
	if !ok {
		return 0, nil
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	span, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: rowspan %q", ErrMalformedRow, value)
	}
	return max(span, 0), nil
}
