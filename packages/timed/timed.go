// Package timed decorates an http.Getter so every call is timed against an
// injected Clock and reported as a single structured log record.
package timed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/linkwalk/packages/http"
)

var (
	// ErrNoLogger is returned when no dedicated logger is configured. The
	// process default logger is rejected as well.
	ErrNoLogger    = errors.New("timed: a configured logger is required")
	ErrNilClock    = errors.New("timed: clock is nil")
	ErrNilDelegate = errors.New("timed: delegate is nil")
)

const methodGet = "get"

type Client struct {
	delegate http.Getter
	clock    Clock
	logger   *slog.Logger
	stats    *Stats
}

type Option func(*Client)

// WithStats records every timed call into s.
func WithStats(s *Stats) Option {
	return func(c *Client) {
		c.stats = s
	}
}

// New wraps delegate. It fails when the clock, delegate or logger is
// missing, or when logger is the process default logger.
func New(delegate http.Getter, clock Clock, logger *slog.Logger, opts ...Option) (*Client, error) {
	if delegate == nil {
		return nil, ErrNilDelegate
	}
	if clock == nil {
		return nil, ErrNilClock
	}
	if logger == nil || logger == slog.Default() {
		return nil, ErrNoLogger
	}

	c := &Client{
		delegate: delegate,
		clock:    clock,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get forwards to the delegate and logs the outcome. A clock running
// backwards fails the call even when the delegate succeeded.
func (c *Client) Get(u *url.URL) (*http.Response, error) {
	sw := Start(c.clock)
	resp, err := c.delegate.Get(u)
	elapsed, clockErr := sw.Elapsed()
	if clockErr != nil {
		return nil, errors.Join(err, clockErr)
	}

	if c.stats != nil {
		c.stats.Record(elapsed, err)
	}
	c.log(methodGet, u, resp, err, elapsed)
	return resp, err
}

func (c *Client) log(method string, u *url.URL, resp *http.Response, err error, elapsed time.Duration) {
	ctx := context.Background()
	if !c.logger.Enabled(ctx, slog.LevelInfo) {
		return
	}

	target := ""
	if u != nil {
		target = u.String()
	}

	attrs := []slog.Attr{
		slog.String("method", strings.ToUpper(method)),
		slog.String("url", target),
		slog.Int64("elapsed_ms", elapsed.Milliseconds()),
	}
	if resp != nil {
		attrs = append(attrs, slog.Int("status", resp.StatusCode()))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	c.logger.LogAttrs(ctx, slog.LevelInfo, Message(method, target, resp, elapsed), attrs...)
}

// Message renders the log line, e.g. "GET http://host/x was 200 (OK), took 12ms".
func Message(method, target string, resp *http.Response, elapsed time.Duration) string {
	outcome := ""
	if resp != nil {
		outcome = fmt.Sprintf("%d (%s)", resp.StatusCode(), resp.StatusMessage())
	}
	return fmt.Sprintf("%s %s was %s, took %dms", strings.ToUpper(method), target, outcome, elapsed.Milliseconds())
}
