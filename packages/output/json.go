package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Pages    []JSONPage  `json:"pages"`
	Errors   []string    `json:"errors,omitempty"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the walk summary
type JSONSummary struct {
	Pages   int        `json:"pages"`
	Invalid int        `json:"invalid"`
	Latency JSONLatency `json:"latency"`
}

// JSONLatency holds latency percentiles in milliseconds
type JSONLatency struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

// JSONHeader keeps headers as an ordered list
type JSONHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// JSONPage represents one fetched page
type JSONPage struct {
	Seq           int             `json:"seq"`
	URL           string          `json:"url"`
	StatusCode    int             `json:"statusCode"`
	StatusMessage string          `json:"statusMessage"`
	Headers       []JSONHeader    `json:"headers,omitempty"`
	Selected      json.RawMessage `json:"selected,omitempty"`
	SelectError   string          `json:"selectError,omitempty"`
	SchemaError   string          `json:"schemaError,omitempty"`
}

// JSONFormatter collects pages and writes one JSON document on Flush
type JSONFormatter struct {
	writer     io.Writer
	selectPath string
	output     JSONOutput
	now        func() time.Time
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		output: JSONOutput{Pages: make([]JSONPage, 0)},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithJSONWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func WithJSONSelect(path string) JSONOption {
	return func(f *JSONFormatter) {
		f.selectPath = path
	}
}

func (f *JSONFormatter) FormatPage(page PageResult) {
	resp := page.Response
	p := JSONPage{
		Seq:           page.Seq,
		URL:           page.URL,
		StatusCode:    resp.StatusCode(),
		StatusMessage: resp.StatusMessage(),
	}
	for h := range resp.Headers().All() {
		p.Headers = append(p.Headers, JSONHeader{Name: h.Name, Value: h.Value})
	}
	if f.selectPath != "" {
		// gjson also matches inside malformed bodies; only valid JSON is embedded
		if result := resp.JSON(f.selectPath); result.Exists() {
			if json.Valid([]byte(result.Raw)) {
				p.Selected = json.RawMessage(result.Raw)
			} else {
				p.SelectError = fmt.Sprintf("%s: selected value is not valid JSON: %s", f.selectPath, result.Raw)
			}
		}
	}
	if page.SchemaErr != nil {
		p.SchemaError = page.SchemaErr.Error()
	}
	f.output.Pages = append(f.output.Pages, p)
}

func (f *JSONFormatter) FormatSummary(summary WalkSummary) {
	f.output.Summary = JSONSummary{
		Pages:   summary.Pages,
		Invalid: summary.Invalid,
		Latency: JSONLatency{
			P50: ms(summary.Latency.P50),
			P90: ms(summary.Latency.P90),
			P99: ms(summary.Latency.P99),
			Max: ms(summary.Latency.Max),
		},
	}
	f.output.Duration = ms(summary.Duration)
}

func (f *JSONFormatter) FormatError(err error) {
	f.output.Errors = append(f.output.Errors, err.Error())
}

func (f *JSONFormatter) Flush() error {
	f.output.Time = f.now().UTC().Format(time.RFC3339)
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.output)
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
