package scraper

import (
	"strings"

	"github.com/antchfx/htmlquery"
)

// TableRole tells what the page parser would do with a table
type TableRole string

const (
	RoleComponents TableRole = "components"
	RoleDiffs      TableRole = "changes"
	RoleIgnored    TableRole = "ignored"
)

// TableSummary describes one table of a page
type TableSummary struct {
	Position int
	Class    string
	Caption  string
	Headers  []string
	Rows     int // rows holding at least one td
	Role     TableRole
}

// DescribeTables lists every table of the page in document order.
// It is the diagnostic view of the choice made by Parser.ParseDocument.
func DescribeTables(data []byte) ([]TableSummary, error) {
	doc, err := LoadHTMLNode(data, "")
	if err != nil {
		return nil, err
	}

	tables, err := htmlquery.QueryAll(doc, "//table")
	if err != nil {
		return nil, err
	}

	componentsPos, diffsPos, posErr := tablePositions(len(tables))

	summaries := make([]TableSummary, 0, len(tables))
	for i, table := range tables {
		headers, err := htmlquery.QueryAll(table, ".//th")
		if err != nil {
			return nil, err
		}
		rows, err := htmlquery.QueryAll(table, ".//tr[td]")
		if err != nil {
			return nil, err
		}

		summary := TableSummary{
			Position: i,
			Class:    htmlquery.SelectAttr(table, "class"),
			Headers:  make([]string, 0, len(headers)),
			Rows:     len(rows),
			Role:     RoleIgnored,
		}
		if caption := htmlquery.FindOne(table, "./caption"); caption != nil {
			summary.Caption = strings.TrimSpace(htmlquery.InnerText(caption))
		}
		for _, th := range headers {
			summary.Headers = append(summary.Headers, strings.TrimSpace(htmlquery.InnerText(th)))
		}

		if posErr == nil {
			switch i {
			case componentsPos:
				summary.Role = RoleComponents
			case diffsPos:
				summary.Role = RoleDiffs
			}
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}
