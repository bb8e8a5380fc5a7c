package scraper

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHTML(t *testing.T) {
	assert.ErrorIs(t, ValidateHTML(nil), ErrEmptyDocument)
	assert.ErrorIs(t, ValidateHTML([]byte(" \t\n")), ErrEmptyDocument)
	assert.ErrorIs(t, ValidateHTML(bytes.Repeat([]byte("a"), MaxHTMLSize+1)), ErrDocumentTooLarge)
	assert.NoError(t, ValidateHTML([]byte("<p>ok</p>")))
}

func TestDetectCharset(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		want        string
	}{
		{"plain ascii", []byte("<p>hello</p>"), "", "utf-8"},
		{"valid utf-8", []byte("<p>Société Générale</p>"), "", "utf-8"},
		{"utf-8 bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("<p>x</p>")...), "", "utf-8"},
		{"content type wins", []byte("<p>Soci\xe9t\xe9</p>"), "text/html; charset=iso-8859-1", "windows-1252"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCharset(tt.data, tt.contentType))
		})
	}
}

func TestLoadHTML_ConvertsToUTF8(t *testing.T) {
	latin1 := []byte("<table><tr><td>Soci\xe9t\xe9 G\xe9n\xe9rale</td></tr></table>")

	doc, err := LoadHTML(latin1, "text/html; charset=iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "Société Générale", strings.TrimSpace(doc.Find("td").Text()))
}
