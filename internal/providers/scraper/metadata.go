package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
)

// PageInfo is descriptive metadata of a scraped page
type PageInfo struct {
	Title     string
	Canonical string
	Language  string
	Modified  string // dateModified from JSON-LD, if the page carries it
}

// linkedData holds the JSON-LD fields we read
type linkedData struct {
	Headline     string `json:"headline"`
	Name         string `json:"name"`
	DateModified string `json:"dateModified"`
}

// DescribePage extracts page metadata. Missing items are left empty.
func DescribePage(doc *goquery.Document) PageInfo {
	info := PageInfo{
		Title:     cellText(doc.Find("head title").First()),
		Canonical: doc.Find(`link[rel="canonical"]`).AttrOr("href", ""),
		Language:  doc.Find("html").AttrOr("lang", ""),
	}

	if info.Title == "" {
		info.Title = doc.Find(`meta[property="og:title"]`).AttrOr("content", "")
	}

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content := strings.TrimSpace(s.Text())
		if content == "" {
			return true
		}

		var data linkedData
		if err := sonic.UnmarshalString(content, &data); err != nil {
			return true
		}
		if info.Title == "" {
			info.Title = firstNonEmpty(data.Headline, data.Name)
		}
		if data.DateModified != "" {
			info.Modified = data.DateModified
			return false
		}
		return true
	})

	return info
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
