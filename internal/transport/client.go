// Package transport is the HTTP client for the catalog server.
package transport

import (
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/lepinkainen/shelf/internal/ratelimit"
)

const (
	defaultBaseURL       = "http://localhost:1323"
	defaultTimeout       = 10 * time.Second
	defaultRatePerSecond = 8
	defaultUserAgent     = "shelf/1.0"
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Paths lists the server routes used by the client.
type Paths struct {
	Books          string
	Recommendation string
	CreateBook     string
	CreateRating   string
	Users          string
	Login          string
	Register       string
}

// DefaultPaths returns the routes of the catalog server. Book creation,
// ratings and the user list live behind the /admin session check.
func DefaultPaths() Paths {
	return Paths{
		Books:          "/books.json",
		Recommendation: "/book",
		CreateBook:     "/admin/books",
		CreateRating:   "/admin/ratings",
		Users:          "/admin/users",
		Login:          "/login",
		Register:       "/register",
	}
}

// Client talks to the catalog server. The default HTTP client keeps the
// session cookie set by Login so admin routes are authorized.
type Client struct {
	baseURL     string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
	paths       Paths
	userAgent   string
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	jar, _ := cookiejar.New(nil)

	client := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  &http.Client{Timeout: defaultTimeout, Jar: jar},
		rateLimiter: ratelimit.New("catalog", defaultRatePerSecond),
		paths:       DefaultPaths(),
		userAgent:   defaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithTimeout replaces the default HTTP client with one using timeout,
// keeping a cookie jar.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		if timeout > 0 {
			jar, _ := cookiejar.New(nil)
			client.httpClient = &http.Client{Timeout: timeout, Jar: jar}
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}

// WithPaths overrides the server routes. Empty fields keep their default.
func WithPaths(p Paths) Option {
	return func(client *Client) {
		def := client.paths
		client.paths = Paths{
			Books:          firstNonEmpty(p.Books, def.Books),
			Recommendation: firstNonEmpty(p.Recommendation, def.Recommendation),
			CreateBook:     firstNonEmpty(p.CreateBook, def.CreateBook),
			CreateRating:   firstNonEmpty(p.CreateRating, def.CreateRating),
			Users:          firstNonEmpty(p.Users, def.Users),
			Login:          firstNonEmpty(p.Login, def.Login),
			Register:       firstNonEmpty(p.Register, def.Register),
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(client *Client) {
		if ua != "" {
			client.userAgent = ua
		}
	}
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
