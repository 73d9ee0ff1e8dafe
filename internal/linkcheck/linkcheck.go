// Package linkcheck requests bookmark URLs so stale entries can be recategorized
// or dropped.
package linkcheck

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/bmcat/internal/model"
	"github.com/rs/zerolog"
)

// Status represents the health status of a URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, 5xx, auth walls
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "ok"
	case Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

// Result is the outcome for one bookmark.
type Result struct {
	Bookmark   model.Bookmark
	Category   string // "" = uncategorized
	Status     Status
	StatusCode int    // 0 if the connection failed
	Reason     string // short explanation for unreachable URLs
}

// Options configures a Checker.
type Options struct {
	Concurrency int
	Timeout     time.Duration

	// PrivateDomains treat 404s as "possibly private" instead of dead,
	// e.g. github.com for private repositories.
	PrivateDomains []string
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		Concurrency: 8,
		Timeout:     10 * time.Second,
		PrivateDomains: []string{
			"github.com",
			"gitlab.com",
		},
	}
}

// Checker checks bookmark URLs with a bounded worker pool.
type Checker struct {
	client  *http.Client
	opts    Options
	private map[string]bool
	logger  zerolog.Logger
}

// NewChecker creates a Checker.
func NewChecker(opts Options, logger zerolog.Logger) *Checker {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	private := make(map[string]bool, len(opts.PrivateDomains))
	for _, d := range opts.PrivateDomains {
		private[strings.ToLower(d)] = true
	}

	return &Checker{
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		opts:    opts,
		private: private,
		logger:  logger,
	}
}

// Check requests every bookmark and returns results in input order.
// Bookmarks not yet checked when ctx is cancelled are reported unreachable.
func (c *Checker) Check(ctx context.Context, bookmarks []model.Bookmark, assignments model.Assignments) []Result {
	results := make([]Result, len(bookmarks))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < c.opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = c.checkOne(ctx, bookmarks[idx])
			}
		}()
	}

send:
	for i := range bookmarks {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(bookmarks); j++ {
				results[j] = Result{Bookmark: bookmarks[j], Status: Unreachable, Reason: "Cancelled"}
			}
			break send
		}
	}
	close(jobs)
	wg.Wait()

	for i := range results {
		results[i].Category, _ = assignments.CategoryOf(results[i].Bookmark.ID)
	}
	return results
}

func (c *Checker) checkOne(ctx context.Context, b model.Bookmark) Result {
	result := Result{Bookmark: b}

	// HEAD first, GET for servers that reject HEAD
	resp, err := c.do(ctx, http.MethodHead, b.URL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			resp.Body.Close()
		}
		resp, err = c.do(ctx, http.MethodGet, b.URL)
	}
	if err != nil {
		result.Status = Unreachable
		result.Reason = normalizeError(err.Error())
		c.logger.Debug().Err(err).Str("url", b.URL).Msg("link unreachable")
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		if c.isPrivate(b.URL) {
			result.Status = Unreachable
			result.Reason = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		result.Status = Unreachable
		result.Reason = http.StatusText(resp.StatusCode)
	}
	return result
}

func (c *Checker) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return c.client.Do(req)
}

// isPrivate reports whether the URL's host or a parent domain is private.
func (c *Checker) isPrivate(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for domain := range c.private {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context canceled"):
		return "Cancelled"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"), strings.Contains(lower, "tls:"):
		return "TLS error"
	case strings.Contains(lower, "unsupported protocol scheme"):
		return "Not a web URL"
	default:
		return errStr
	}
}
