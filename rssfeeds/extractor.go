package rssfeeds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"newsdash/config"
)

// ErrDisallowed is returned when robots.txt forbids fetching a page.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// noiseSelector matches elements that never carry article text.
const noiseSelector = "script, style, nav, footer, aside, .advertisement, .ads, .social-share"

// contentSelectors are probed in order; the first region with enough text wins,
// so more specific containers take precedence over generic ones.
var contentSelectors = []string{
	"article",
	".entry-content",
	".post-content",
	".article-content",
	`[role="main"]`,
	"main",
}

// Page is the result of extracting an article page.
type Page struct {
	Text   string
	Byline string
}

// Extractor fetches article pages and isolates their readable text.
type Extractor struct {
	client  *http.Client
	hosts   *hostThrottle
	robots  *RobotsChecker
	logger  *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithHostInterval spaces page requests to the same host by at least d.
// Zero disables spacing.
func WithHostInterval(d time.Duration) ExtractorOption {
	return func(e *Extractor) { e.hosts = newHostThrottle(d) }
}

// WithRobots makes the extractor honor robots.txt.
func WithRobots(r *RobotsChecker) ExtractorOption {
	return func(e *Extractor) { e.robots = r }
}

// WithExtractorLogger sets the logger used by Extract.
func WithExtractorLogger(l *slog.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor builds an extractor. A nil client gets a config.FetchTimeout client.
func NewExtractor(client *http.Client, opts ...ExtractorOption) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: config.FetchTimeout}
	}
	e := &Extractor{client: client, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the readable text of pageURL, or "" on any failure.
func (e *Extractor) Extract(ctx context.Context, pageURL string) string {
	page, err := e.ExtractPage(ctx, pageURL)
	if err != nil {
		e.logger.Warn("Error extracting content", "url", pageURL, "error", err)
		return ""
	}
	return page.Text
}

// ExtractPage fetches pageURL and returns its text and byline.
func (e *Extractor) ExtractPage(ctx context.Context, pageURL string) (Page, error) {
	if pageURL == "" {
		return Page{}, errors.New("article URL is empty")
	}
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return Page{}, fmt.Errorf("invalid article URL %q", pageURL)
	}
	if !e.robots.Allowed(ctx, pageURL) {
		return Page{}, ErrDisallowed
	}
	if err := e.hosts.wait(ctx, u.Hostname()); err != nil {
		return Page{}, fmt.Errorf("waiting for %s: %w", u.Hostname(), err)
	}

	body, err := e.fetch(ctx, pageURL)
	if err != nil {
		return Page{}, err
	}

	text, err := ExtractText(bytes.NewReader(body))
	if err != nil {
		return Page{}, err
	}

	return Page{Text: text, Byline: byline(body, pageURL)}, nil
}

// fetch downloads the page and returns its body decoded to UTF-8.
func (e *Extractor) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	var r io.Reader = io.LimitReader(resp.Body, config.MaxPageBytes)
	if decoded, err := charset.NewReader(r, resp.Header.Get("Content-Type")); err == nil {
		r = decoded
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	return body, nil
}

// ExtractText isolates the main readable text of an HTML document.
func ExtractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	content := ""
	for _, selector := range contentSelectors {
		region := doc.Find(selector)
		if region.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(region.Text()); runeLen(text) > config.MinRegionLength {
			content = text
			break
		}
	}

	if content == "" {
		content = doc.Find("body").Text()
	}

	content = collapseWhitespace(content)
	return truncate(content, config.MaxContentLength, config.Ellipsis), nil
}

// byline runs a readability pass for the author line. Failures yield "".
func byline(body []byte, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return ""
	}
	return collapseWhitespace(article.Byline)
}

// hostThrottle hands out one token per interval for each host.
type hostThrottle struct {
	every time.Duration

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

func newHostThrottle(every time.Duration) *hostThrottle {
	return &hostThrottle{every: every, hosts: make(map[string]*rate.Limiter)}
}

func (t *hostThrottle) wait(ctx context.Context, host string) error {
	if t == nil || t.every <= 0 {
		return nil
	}

	t.mu.Lock()
	l, ok := t.hosts[host]
	if !ok {
		l = rate.NewLimiter(rate.Every(t.every), 1)
		t.hosts[host] = l
	}
	t.mu.Unlock()

	return l.Wait(ctx)
}
