package scraper

import (
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/GriffinCanCode/wikisnp/internal/domain/index"
)

// Header synonyms, matched against the whole trimmed header text
var (
	symbolHeader = regexp.MustCompile(`^(Ticker symbol|Symbol|Ticker)$`)
	nameHeader   = regexp.MustCompile(`^(Security|Company)$`)
)

// ParseComponents extracts the current constituents from the components table.
//
// The header row is the first row holding th cells. The symbol and name
// columns are located by header text, so their position does not matter.
func ParseComponents(table *goquery.Selection) ([]*index.Component, error) {
	rows := table.Find("tr")

	headerRow := -1
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		if row.ChildrenFiltered("th").Length() > 0 {
			headerRow = i
			return false
		}
		return true
	})

	symbolIdx, nameIdx := -1, -1
	if headerRow >= 0 {
		for i, cell := range rowCells(rows.Eq(headerRow)) {
			text := cellText(cell)
			switch {
			case symbolIdx < 0 && symbolHeader.MatchString(text):
				symbolIdx = i
			case nameIdx < 0 && nameHeader.MatchString(text):
				nameIdx = i
			}
		}
	}

	if symbolIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, "Symbol")
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, "Name")
	}

	width := max(symbolIdx, nameIdx) + 1
	result := make([]*index.Component, 0, rows.Length()-headerRow-1)

	for i := headerRow + 1; i < rows.Length(); i++ {
		cells := rowCells(rows.Eq(i))
		if len(cells) < width {
			return nil, fmt.Errorf("%w: row %d has %d cells, need %d", ErrMalformedRow, i, len(cells), width)
		}

		result = append(result, &index.Component{
			Symbol: cellText(cells[symbolIdx]),
			Name:   cellText(cells[nameIdx]),
		})
	}

	return result, nil
}
