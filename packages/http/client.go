package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// Getter is the capability the pagination and timing layers depend on:
// perform a GET and return the buffered response.
type Getter interface {
	Get(u *neturl.URL) (*Response, error)
}

// GetterFunc adapts a function to the Getter interface.
type GetterFunc func(u *neturl.URL) (*Response, error)

func (f GetterFunc) Get(u *neturl.URL) (*Response, error) {
	return f(u)
}

type Client struct {
	httpClient      *http.Client
	timeout         time.Duration
	followRedirect  bool
	maxRedirects    int
	validateSSL     bool
	proxyURL        string
	defaultHeaders  []Header
	limiter         *rate.Limiter
	requestIDHeader string
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		validateSSL:    true,
	}

	for _, opt := range opts {
		opt(c)
	}

	transport := &http.Transport{
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	if !c.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if c.proxyURL != "" {
		proxyURL, err := neturl.Parse(c.proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !c.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= c.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	c.httpClient = &http.Client{
		Transport:     transport,
		Timeout:       c.timeout,
		CheckRedirect: redirectPolicy,
	}

	return c
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

// WithDefaultHeader adds a header sent with every request. Repeated names
// are all sent.
func WithDefaultHeader(name, value string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders = append(c.defaultHeaders, NewHeader(name, value))
	}
}

// WithDefaultHeaders adds every header of hs to all requests
func WithDefaultHeaders(hs Headers) ClientOption {
	return func(c *Client) {
		c.defaultHeaders = append(c.defaultHeaders, hs.Slice()...)
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithRateLimit caps outgoing requests to rps per second. Zero or negative
// disables the limit.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRequestIDHeader sends a fresh UUID under name with every request.
func WithRequestIDHeader(name string) ClientOption {
	return func(c *Client) {
		c.requestIDHeader = name
	}
}

// Get performs a GET against u and buffers the whole response.
func (c *Client) Get(u *neturl.URL) (*Response, error) {
	if u == nil {
		return nil, fmt.Errorf("invalid URL: nil")
	}
	return c.do(context.Background(), http.MethodGet, u.String())
}

func (c *Client) do(ctx context.Context, method, rawURL string) (*Response, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}

	for _, h := range c.defaultHeaders {
		httpReq.Header.Add(h.Name, h.Value)
	}

	if c.requestIDHeader != "" {
		httpReq.Header.Set(c.requestIDHeader, uuid.New().String())
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return NewResponse(
		httpResp.StatusCode,
		StatusMessage(httpResp.StatusCode, httpResp.Status),
		FromHTTPHeader(httpResp.Header),
		string(respBody),
	), nil
}

// StatusMessage extracts the reason phrase from a status line such as
// "200 OK", falling back to the standard text for the code.
func StatusMessage(code int, status string) string {
	msg := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if msg == "" {
		return http.StatusText(code)
	}
	return msg
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}
