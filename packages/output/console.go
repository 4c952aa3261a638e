package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer     io.Writer
	verbose    bool
	noColor    bool
	showBody   bool
	selectPath string
	maxBodyLen int
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer:     os.Stdout,
		maxBodyLen: 2000,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// WithBody prints each page body, truncated to the max body length.
func WithBody(show bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.showBody = show
	}
}

// WithSelect prints the gjson path result of each body instead of the body.
func WithSelect(path string) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.selectPath = path
	}
}

func WithMaxBodyLen(n int) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.maxBodyLen = n
	}
}

func (f *ConsoleFormatter) FormatPage(page PageResult) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	resp := page.Response
	status := fmt.Sprintf("%d %s", resp.StatusCode(), resp.StatusMessage())
	switch {
	case resp.IsSuccess():
		status = green(status)
	case resp.IsRedirect():
		status = yellow(status)
	default:
		status = red(status)
	}

	fmt.Fprintf(f.writer, "%s %s %s\n", bold(fmt.Sprintf("#%d", page.Seq)), status, cyan(page.URL))

	if f.verbose {
		for h := range resp.Headers().All() {
			fmt.Fprintf(f.writer, "    %s: %s\n", h.Name, h.Value)
		}
	}

	if f.selectPath != "" {
		result := resp.JSON(f.selectPath)
		if result.Exists() {
			fmt.Fprintf(f.writer, "    %s\n", result.Raw)
		} else {
			fmt.Fprintf(f.writer, "    %s\n", yellow("(no match for "+f.selectPath+")"))
		}
	} else if f.showBody {
		fmt.Fprintf(f.writer, "    %s\n", formatValue(resp.Body(), f.maxBodyLen))
	}

	if page.SchemaErr != nil {
		fmt.Fprintf(f.writer, "    %s %v\n", red("✗"), page.SchemaErr)
	}
}

func (f *ConsoleFormatter) FormatSummary(summary WalkSummary) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Pages: %s", green(fmt.Sprintf("%d fetched", summary.Pages)))
	if summary.Invalid > 0 {
		fmt.Fprintf(f.writer, ", %s", red(fmt.Sprintf("%d invalid", summary.Invalid)))
	}
	fmt.Fprintf(f.writer, "\n")
	if summary.Latency.Total > 0 {
		l := summary.Latency
		fmt.Fprintf(f.writer, "Latency: p50 %dms, p90 %dms, p99 %dms, max %dms\n",
			l.P50.Milliseconds(), l.P90.Milliseconds(), l.P99.Milliseconds(), l.Max.Milliseconds())
	}
	fmt.Fprintf(f.writer, "Time:  %dms\n", summary.Duration.Milliseconds())
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) Flush() error {
	return nil
}
