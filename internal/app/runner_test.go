package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/wikisnp/internal/codec"
	"github.com/GriffinCanCode/wikisnp/internal/domain/index"
	"github.com/GriffinCanCode/wikisnp/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/wikisnp/internal/providers/http/client"
	"github.com/GriffinCanCode/wikisnp/internal/providers/scraper"
)

const pageURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

const page = `<!DOCTYPE html>
<html>
<body>
<table class="wikitable">
  <tr><th>Symbol</th><th>Security</th></tr>
  <tr><td>ABC</td><td>A b c.</td></tr>
  <tr><td>DEF</td><td>D e f.</td></tr>
</table>
<table class="wikitable">
  <tr><th rowspan="2">Date</th><th colspan="2">Added</th><th colspan="2">Removed</th><th rowspan="2">Reason</th></tr>
  <tr><th>Ticker</th><th>Security</th><th>Ticker</th><th>Security</th></tr>
  <tr><td>June 8, 2022</td><td>ABC</td><td>A b c.</td><td>XYZ</td><td>X y z.</td><td>Market capitalization change.</td></tr>
</table>
</body>
</html>`

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*client.Response, error) {
	args := m.Called(ctx, url)
	resp, _ := args.Get(0).(*client.Response)
	return resp, args.Error(1)
}

func htmlResponse(body string) *client.Response {
	return &client.Response{
		URL:         pageURL,
		Status:      200,
		ContentType: "text/html; charset=UTF-8",
		Body:        []byte(body),
		Source:      client.SourceNetwork,
	}
}

func newTestRunner(fetcher Fetcher) (*Runner, *bytes.Buffer) {
	runner := NewRunner(fetcher, nil, monitoring.NewMetrics())
	var stdout bytes.Buffer
	runner.Stdout = &stdout
	return runner, &stdout
}

func TestRunnerScrape(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, pageURL).Return(htmlResponse(page), nil)

	runner, _ := newTestRunner(fetcher)
	idx, err := runner.Scrape(context.Background(), pageURL)
	require.NoError(t, err)

	assert.Equal(t, []string{"ABC", "DEF"}, idx.Symbols())
	require.Len(t, idx.Diffs, 1)
	assert.Equal(t, "XYZ", idx.Diffs[0].Removed.Symbol)

	assert.Equal(t, float64(2), testutil.ToFloat64(runner.Metrics.Components))
	assert.Equal(t, float64(1), testutil.ToFloat64(runner.Metrics.FetchesTotal.WithLabelValues("network")))
	fetcher.AssertExpectations(t)
}

func TestRunnerScrapeErrors(t *testing.T) {
	tests := []struct {
		name    string
		resp    *client.Response
		err     error
		wantErr error
	}{
		{
			name:    "fetch failure",
			err:     client.ErrFetch,
			wantErr: client.ErrFetch,
		},
		{
			name:    "not html",
			resp:    &client.Response{Body: []byte(`{"components": []}`), Source: client.SourceNetwork},
			wantErr: ErrNotHTML,
		},
		{
			name:    "missing tables",
			resp:    htmlResponse("<html><body><p>Nothing here</p></body></html>"),
			wantErr: scraper.ErrInsufficientTables,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &mockFetcher{}
			fetcher.On("Fetch", mock.Anything, pageURL).Return(tt.resp, tt.err)

			runner, _ := newTestRunner(fetcher)
			_, err := runner.Scrape(context.Background(), pageURL)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRunnerRunToStdout(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, pageURL).Return(htmlResponse(page), nil)

	runner, stdout := newTestRunner(fetcher)
	require.NoError(t, runner.Run(context.Background(), pageURL, "", FormatYAML))

	idx, err := codec.UnmarshalIndex(stdout.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC", "DEF"}, idx.Symbols())
	assert.Equal(t, float64(1), testutil.ToFloat64(runner.Metrics.RunsTotal.WithLabelValues("success")))
}

func TestRunnerRunRecordsFailure(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, pageURL).Return(nil, client.ErrFetch)

	runner, stdout := newTestRunner(fetcher)
	err := runner.Run(context.Background(), pageURL, "", FormatYAML)

	assert.ErrorIs(t, err, client.ErrFetch)
	assert.Empty(t, stdout.String())
	assert.Equal(t, float64(1), testutil.ToFloat64(runner.Metrics.RunsTotal.WithLabelValues("error")))
}

func TestRunnerWrite(t *testing.T) {
	abc := &index.Component{Symbol: "ABC", Name: "A b c."}
	idx := &index.Index{
		Components: []*index.Component{abc},
		Diffs:      []*index.Diff{{Date: "d", Added: abc, Reason: "r"}},
	}

	tests := []struct {
		name   string
		format Format
		check  func(t *testing.T, data []byte)
	}{
		{
			name:   "yaml",
			format: FormatYAML,
			check: func(t *testing.T, data []byte) {
				assert.True(t, strings.HasPrefix(string(data), "!index\n"))
				assert.Contains(t, string(data), "added: *ABC")
			},
		},
		{
			name:   "json",
			format: FormatJSON,
			check: func(t *testing.T, data []byte) {
				assert.True(t, strings.HasPrefix(string(data), "{"))
				assert.Equal(t, 2, strings.Count(string(data), `"symbol": "ABC"`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, _ := newTestRunner(nil)
			out := filepath.Join(t.TempDir(), "sp500."+string(tt.format))

			require.NoError(t, runner.Write(idx, out, tt.format))

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			tt.check(t, data)
		})
	}
}

func TestRunnerWriteErrors(t *testing.T) {
	runner, _ := newTestRunner(nil)

	err := runner.Write(&index.Index{}, filepath.Join(t.TempDir(), "out.xml"), Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	err = runner.Write(&index.Index{}, t.TempDir(), FormatYAML)
	assert.Error(t, err)

	err = runner.Write(&index.Index{}, filepath.Join(t.TempDir(), "missing", "out.yaml"), FormatYAML)
	assert.Error(t, err)
}

func TestRunnerInspect(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, pageURL).Return(htmlResponse(page), nil)

	runner, _ := newTestRunner(fetcher)
	inspection, err := runner.Inspect(context.Background(), pageURL)
	require.NoError(t, err)

	require.Len(t, inspection.Tables, 2)
	assert.Equal(t, scraper.RoleComponents, inspection.Tables[0].Role)
	assert.Equal(t, scraper.RoleDiffs, inspection.Tables[1].Role)
	assert.Equal(t, scraper.PageInfo{}, inspection.Page)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{name: "", want: FormatYAML},
		{name: "yaml", want: FormatYAML},
		{name: "JSON", want: FormatJSON},
		{name: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
