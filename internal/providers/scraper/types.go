package scraper

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const (
	// MaxHTMLSize limits HTML input to 10MB to prevent memory exhaustion
	MaxHTMLSize = 10 * 1024 * 1024

	defaultCharset = "utf-8"
)

var (
	ErrEmptyDocument              = errors.New("html content required")
	ErrDocumentTooLarge           = errors.New("html exceeds maximum size")
	ErrColumnNotFound             = errors.New("column not found")
	ErrUnrecognizedTableStructure = errors.New("diffs table structure is not recognized")
	ErrMalformedRow               = errors.New("malformed table row")
	ErrInsufficientTables         = errors.New("page has fewer than two tables")
)

// ValidateHTML checks HTML size and returns error if empty or too large
func ValidateHTML(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyDocument
	}
	if len(data) > MaxHTMLSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrDocumentTooLarge, len(data), MaxHTMLSize)
	}
	return nil
}

// DetectCharset returns the charset label for an HTML payload.
// A BOM, an explicit Content-Type charset or a <meta> declaration wins;
// valid UTF-8 is taken as is; otherwise chardet guesses.
func DetectCharset(data []byte, contentType string) string {
	_, name, certain := charset.DetermineEncoding(data, contentType)
	if certain {
		return name
	}
	if utf8.Valid(data) {
		return defaultCharset
	}
	// DetermineEncoding falls back to windows-1252 when it found nothing
	if name != "" && name != "windows-1252" {
		return name
	}

	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return defaultCharset
	}
	return strings.ToLower(result.Charset)
}

// LoadHTML parses HTML into a goquery document, converting to UTF-8 first
func LoadHTML(data []byte, contentType string) (*goquery.Document, error) {
	node, err := LoadHTMLNode(data, contentType)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(node), nil
}

// LoadHTMLNode parses HTML into an xpath-compatible node
func LoadHTMLNode(data []byte, contentType string) (*html.Node, error) {
	if err := ValidateHTML(data); err != nil {
		return nil, err
	}

	label := DetectCharset(data, contentType)
	utf8Reader, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		// Unknown label, parse the bytes untouched
		return htmlquery.Parse(bytes.NewReader(data))
	}

	node, err := htmlquery.Parse(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return node, nil
}

// cellText returns the trimmed text of a table cell
func cellText(cell *goquery.Selection) string {
	return strings.TrimSpace(cell.Text())
}

// rowCells returns the td/th children of a table row, in order
func rowCells(row *goquery.Selection) []*goquery.Selection {
	children := row.ChildrenFiltered("td, th")
	cells := make([]*goquery.Selection, 0, children.Length())
	children.Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, cell)
	})
	return cells
}
