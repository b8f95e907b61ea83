package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/yemekhane/menucal/internal/config"
	"github.com/yemekhane/menucal/internal/extract"
	"github.com/yemekhane/menucal/internal/logger"
	"github.com/yemekhane/menucal/internal/meal"
)

const (
	dateFilterQuery = "?date_filter[value][date]="
	maxBodySize     = 10 << 20
)

// ErrNoMenu is returned when a page was fetched but holds no usable menu.
var ErrNoMenu = extract.ErrNoMenu

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// PageSink receives raw page bodies as they are fetched.
type PageSink interface {
	SavePage(date string, body []byte) error
}

// Scraper handles fetching and parsing cafeteria menu pages
type Scraper struct {
	client     *http.Client
	baseURL    string
	userAgent  string
	maxRetries int
	newBackOff func() backoff.BackOff
	pages      PageSink
	log        *logger.Logger
	metrics    *logger.Metrics
}

// Option customizes a Scraper.
type Option func(*Scraper)

// WithBaseURL points the scraper at a different site root.
func WithBaseURL(u string) Option {
	return func(s *Scraper) { s.baseURL = u }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) { s.userAgent = ua }
}

// WithTimeout bounds each HTTP attempt.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.client.Timeout = d }
}

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(n int) Option {
	return func(s *Scraper) { s.maxRetries = n }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) { s.client = c }
}

// WithPageSink stores every fetched page body in sink.
func WithPageSink(sink PageSink) Option {
	return func(s *Scraper) { s.pages = sink }
}

// WithLogger sets the logger used for fetch and extraction diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) { s.log = l }
}

// WithMetrics sets the metrics tracker.
func WithMetrics(m *logger.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: config.DefaultTimeout,
		},
		baseURL:    config.DefaultBaseURL,
		userAgent:  config.DefaultUserAgent,
		maxRetries: config.DefaultMaxRetries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Default()
	}
	if s.metrics == nil {
		s.metrics = logger.DefaultMetrics()
	}
	return s
}

// NewFromConfig creates a Scraper from resolved settings.
func NewFromConfig(cfg config.Config, opts ...Option) *Scraper {
	base := []Option{
		WithBaseURL(cfg.BaseURL),
		WithUserAgent(cfg.UserAgent),
		WithTimeout(cfg.Timeout),
		WithMaxRetries(cfg.MaxRetries),
	}
	return New(append(base, opts...)...)
}

// MenuURL returns the page URL listing the menu for date.
func MenuURL(base, date string) string {
	return base + dateFilterQuery + date
}

// FetchAndFormatMenu returns the menu for date (DD/MM/YYYY), or nil when the
// page cannot be fetched, has no recognizable layout, or lists no meals.
func (s *Scraper) FetchAndFormatMenu(ctx context.Context, date string) *meal.Result {
	res, err := s.FetchMenu(ctx, date)
	if err != nil {
		fields := logger.Fields{"date": date}
		if errors.Is(err, ErrNoMenu) {
			s.log.Info("No menu published", fields)
		} else {
			s.log.Warn("Menu unavailable: "+err.Error(), fields)
		}
		return nil
	}
	return res
}

// FetchMenu fetches and parses the menu for date. It returns ErrNoMenu when the
// page holds no menu, meal.ErrInvalidDate for malformed dates, and a fetch error
// otherwise.
func (s *Scraper) FetchMenu(ctx context.Context, date string) (*meal.Result, error) {
	if _, err := meal.ParseDate(date, nil); err != nil {
		return nil, err
	}

	body, err := s.FetchPage(ctx, date)
	if err != nil {
		return nil, err
	}

	if s.pages != nil {
		if err := s.pages.SavePage(date, body); err != nil {
			s.log.Warn("Saving raw page failed", logger.Fields{"date": date, "error": err.Error()})
		}
	}

	return s.ParseMenu(bytes.NewReader(body), date)
}

// ParseMenu extracts the menu for date from an HTML page already on hand.
func (s *Scraper) ParseMenu(r io.Reader, date string) (*meal.Result, error) {
	obs := &logObserver{log: s.log, metrics: s.metrics}
	return extract.NewAssembler(obs).AssembleHTML(r, date)
}

// FetchPage retrieves the raw menu page for date, retrying transient failures.
func (s *Scraper) FetchPage(ctx context.Context, date string) ([]byte, error) {
	url := MenuURL(s.baseURL, date)
	start := time.Now()

	attempt := 0
	op := func() ([]byte, error) {
		attempt++
		body, err := s.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		if !isTransient(err) {
			return nil, backoff.Permanent(err)
		}
		s.log.Debug("Transient fetch failure", logger.Fields{"url": url, "attempt": attempt, "error": err.Error()})
		return nil, err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), uint64(max(s.maxRetries, 0))), ctx)
	body, err := backoff.RetryWithData(op, policy)

	s.metrics.RecordTiming("fetch", time.Since(start))
	if err != nil {
		s.metrics.IncrCounter("pages.failed")
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	s.metrics.IncrCounter("pages.fetched")
	s.log.Debug("Fetched menu page", logger.Fields{"url": url, "bytes": len(body), "attempts": attempt})
	return body, nil
}

func (s *Scraper) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// isTransient reports whether a retry may succeed: server errors, throttling
// and transport failures are; other HTTP statuses are not.
func isTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled)
}
