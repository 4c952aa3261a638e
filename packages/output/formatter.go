package output

import (
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/linkwalk/packages/http"
	"github.com/abdul-hamid-achik/linkwalk/packages/timed"
)

// PageResult is one page of a walk as the formatters see it.
type PageResult struct {
	Seq       int
	URL       string
	Response  *http.Response
	SchemaErr error
}

// WalkSummary closes a walk.
type WalkSummary struct {
	Pages    int
	Invalid  int
	Duration time.Duration
	Latency  timed.Summary
}

type Formatter interface {
	FormatPage(page PageResult)
	FormatSummary(summary WalkSummary)
	FormatError(err error)
	Flush() error
}

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// NewFormatter builds the formatter named format.
func NewFormatter(format string, w io.Writer, verbose, noColor, showBody bool, selectPath string) (Formatter, error) {
	switch format {
	case "", FormatConsole:
		return NewConsoleFormatter(
			WithWriter(w),
			WithVerbose(verbose),
			WithNoColor(noColor),
			WithBody(showBody),
			WithSelect(selectPath),
		), nil
	case FormatJSON:
		return NewJSONFormatter(WithJSONWriter(w), WithJSONSelect(selectPath)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// formatValue truncates long values for display, never inside a UTF-8 sequence
func formatValue(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
