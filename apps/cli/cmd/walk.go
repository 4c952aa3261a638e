package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http/httpguts"

	"github.com/abdul-hamid-achik/linkwalk/packages/archive"
	"github.com/abdul-hamid-achik/linkwalk/packages/config"
	"github.com/abdul-hamid-achik/linkwalk/packages/http"
	"github.com/abdul-hamid-achik/linkwalk/packages/logging"
	"github.com/abdul-hamid-achik/linkwalk/packages/output"
	"github.com/abdul-hamid-achik/linkwalk/packages/pagination"
	"github.com/abdul-hamid-achik/linkwalk/packages/timed"
	"github.com/abdul-hamid-achik/linkwalk/packages/validate"
)

type walkOptions struct {
	configPath      string
	envFile         string
	headers         []string
	maxPages        int
	timeout         time.Duration
	rate            float64
	selectPath      string
	schemaPath      string
	archive         string
	verbose         bool
	showBody        bool
	noColor         bool
	logLevel        string
	logFormat       string
	output          string
	insecure        bool
	proxy           string
	requestIDHeader string
}

func newWalkCmd() *cobra.Command {
	opts := &walkOptions{}
	walkCmd := &cobra.Command{
		Use:   "walk <url>",
		Short: "Fetch a URL and follow its Link rel=\"next\" chain",
		Long: `Fetch a URL and follow the Link rel="next" header of every response
until a page has none.

Examples:
  linkwalk walk https://api.github.com/repos/golang/go/issues
  linkwalk walk https://api.example.com/items --max-pages 5 --select "items.#.id"
  linkwalk walk https://api.example.com/items -H "Authorization: Bearer \${TOKEN}"
  linkwalk walk https://api.example.com/items --schema page.schema.json --archive sqlite://walks.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWalk(cmd, opts, args[0])
		},
	}

	flags := walkCmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: search the working directory)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Path to .env file")
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, `Request header "Name: value" (repeatable)`)
	flags.IntVar(&opts.maxPages, "max-pages", 0, "Stop after this many pages, including the first (0 follows every link)")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")
	flags.Float64Var(&opts.rate, "rate", 0, "Maximum requests per second (0 is unlimited)")
	flags.StringVar(&opts.selectPath, "select", "", "gjson path printed for each page body")
	flags.StringVar(&opts.schemaPath, "schema", "", "JSON Schema every page body must satisfy")
	flags.StringVar(&opts.archive, "archive", "", "Archive pages to SQLite (e.g. sqlite://walks.db)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print response headers")
	flags.BoolVar(&opts.showBody, "body", false, "Print response bodies")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: text, json")
	flags.StringVarP(&opts.output, "output", "o", output.FormatConsole, "Output format: console, json")
	flags.BoolVarP(&opts.insecure, "insecure", "k", false, "Disable SSL certificate validation")
	flags.StringVar(&opts.proxy, "proxy", "", "Proxy URL for HTTP requests")
	flags.StringVar(&opts.requestIDHeader, "request-id-header", "", "Send a fresh UUID under this header with every request")

	return walkCmd
}

func runWalk(cmd *cobra.Command, opts *walkOptions, rawURL string) error {
	if err := http.ValidateURL(rawURL); err != nil {
		return withExitCode(ExitUsageError, err)
	}
	start, err := url.Parse(rawURL)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	var validator *validate.Validator
	if opts.schemaPath != "" {
		if validator, err = validate.LoadValidator(opts.schemaPath); err != nil {
			return withExitCode(ExitConfigError, err)
		}
	}

	formatter, err := output.NewFormatter(opts.output, cmd.OutOrStdout(), cfg.GetVerbose(), cfg.GetNoColor(), opts.showBody, opts.selectPath)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	stats := timed.NewStats()
	timedClient, err := timed.New(http.NewClient(clientOptions(cfg)...), timed.SystemClock{}, logger, timed.WithStats(stats))
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	var getter http.Getter = timedClient
	if cfg.Archive != "" {
		store, err := archive.Open(cfg.Archive)
		if err != nil {
			return withExitCode(ExitConfigError, err)
		}
		defer store.Close()

		walkID := archive.NewWalkID()
		logger.Info("archiving walk", "walk_id", walkID, "archive", cfg.Archive)
		getter = archive.NewRecorder(timedClient, store, walkID, 0)
	}

	began := time.Now()
	summary := output.WalkSummary{}
	emit := func(pageURL string, resp *http.Response) {
		page := output.PageResult{Seq: summary.Pages, URL: pageURL, Response: resp}
		if validator != nil {
			page.SchemaErr = validator.Validate(resp.Body())
			if page.SchemaErr != nil {
				summary.Invalid++
			}
		}
		summary.Pages++
		formatter.FormatPage(page)
	}

	initial, err := getter.Get(start)
	if err != nil {
		formatter.FormatError(err)
		_ = formatter.Flush()
		return withExitCode(fetchExitCode(err), err)
	}
	emit(start.String(), initial)

	var walkErr error
	if cfg.MaxPages != 1 {
		var iterOpts []pagination.Option
		if cfg.MaxPages > 1 {
			iterOpts = append(iterOpts, pagination.WithMaxHops(cfg.MaxPages-1))
		}
		it := pagination.NewSequentialLinkIterator(initial, getter, iterOpts...)
		for it.HasNext() {
			next := it.NextURL().String()
			resp, err := it.Next()
			if err != nil {
				walkErr = err
				break
			}
			emit(next, resp)
		}
	}

	summary.Duration = time.Since(began)
	summary.Latency = stats.Summary()
	formatter.FormatSummary(summary)
	if walkErr != nil {
		formatter.FormatError(walkErr)
	}
	if err := formatter.Flush(); err != nil {
		return withExitCode(ExitOutputError, fmt.Errorf("write report: %w", err))
	}

	switch {
	case walkErr != nil:
		return withExitCode(fetchExitCode(walkErr), walkErr)
	case summary.Invalid > 0:
		return withExitCodef(ExitValidationFailure, "%d of %d pages failed schema validation", summary.Invalid, summary.Pages)
	}
	return nil
}

// fetchExitCode separates pages that could not be archived from pages that
// could not be fetched.
func fetchExitCode(err error) int {
	if errors.Is(err, archive.ErrSaveFailed) {
		return ExitArchiveError
	}
	return ExitNetworkError
}

// resolveConfig layers defaults, the config file, LINKWALK_* variables and
// explicitly set flags.
func resolveConfig(cmd *cobra.Command, opts *walkOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if cfg, err = cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	override := &config.Config{}
	if flags.Changed("timeout") {
		override.Timeout = int(opts.timeout.Milliseconds())
	}
	if flags.Changed("max-pages") {
		override.MaxPages = opts.maxPages
	}
	if flags.Changed("rate") {
		override.Rate = opts.rate
	}
	if flags.Changed("archive") {
		override.Archive = opts.archive
	}
	if flags.Changed("log-level") {
		override.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		override.LogFormat = opts.logFormat
	}
	if flags.Changed("proxy") {
		override.Proxy = opts.proxy
	}
	if flags.Changed("request-id-header") {
		override.RequestIDHeader = opts.requestIDHeader
	}
	if flags.Changed("insecure") {
		override.ValidateSSL = config.BoolPtr(!opts.insecure)
	}
	if flags.Changed("verbose") {
		override.Verbose = config.BoolPtr(opts.verbose)
	}
	if flags.Changed("no-color") {
		override.NoColor = config.BoolPtr(opts.noColor)
	}
	for _, raw := range opts.headers {
		h, err := parseHeaderFlag(raw)
		if err != nil {
			return nil, err
		}
		override.Headers = append(override.Headers, h)
	}

	return cfg.Merge(override), nil
}

func clientOptions(cfg *config.Config) []http.ClientOption {
	opts := []http.ClientOption{
		http.WithTimeout(time.Duration(cfg.Timeout) * time.Millisecond),
		http.WithFollowRedirects(cfg.GetFollowRedirects()),
		http.WithMaxRedirects(cfg.MaxRedirects),
		http.WithValidateSSL(cfg.GetValidateSSL()),
		http.WithProxy(cfg.Proxy),
		http.WithRateLimit(cfg.Rate),
		http.WithRequestIDHeader(cfg.RequestIDHeader),
	}
	for _, h := range cfg.ExpandHeaders(os.Getenv) {
		opts = append(opts, http.WithDefaultHeader(h.Name, h.Value))
	}
	return opts
}

// parseHeaderFlag splits "Name: value".
func parseHeaderFlag(raw string) (config.HeaderEntry, error) {
	name, value, found := strings.Cut(raw, ":")
	if !found {
		return config.HeaderEntry{}, fmt.Errorf("invalid header %q: expected \"Name: value\"", raw)
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if !httpguts.ValidHeaderFieldName(name) {
		return config.HeaderEntry{}, fmt.Errorf("invalid header name %q", name)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return config.HeaderEntry{}, fmt.Errorf("invalid value for header %q", name)
	}
	return config.HeaderEntry{Name: name, Value: value}, nil
}
