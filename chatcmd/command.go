// Package chatcmd turns free-form chat messages like
// "add rss feed: https://example.com/feed named Example" into feed sources.
package chatcmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"newsdash/orchestrator"
	"newsdash/types"
)

var (
	// ErrNoCommand is returned when a message holds no feed command.
	ErrNoCommand = errors.New("no feed command found")

	// ErrMissingURL is returned when a command names a site but carries no feed URL.
	ErrMissingURL = errors.New("feed URL required")
)

// Patterns are tried in order; group 1 is the URL (or a bare site name), group 2 the optional name.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)add (?:this )?rss feed:?\s*(https?://\S+)(?:\s+(?:named?|called?)\s+["“”']?([^"“”']+)["“”']?)?`),
	regexp.MustCompile(`(?i)(?:subscribe to|add)\s+(.+?)(?:'s)?\s+(?:rss\s+)?(?:feed|blog)`),
	regexp.MustCompile(`(?i)add feed\s+(https?://\S+)\s*(.+)?`),
}

const fallbackName = "New Feed"

// Command is a parsed feed addition.
type Command struct {
	URL      string
	Name     string
	Category string
}

// Parse extracts a feed command from message.
func Parse(message string) (Command, error) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(message)
		if m == nil {
			continue
		}

		feedURL := m[1]
		if !strings.HasPrefix(strings.ToLower(feedURL), "http") {
			return Command{}, fmt.Errorf("%w: I found %q but need the actual RSS feed URL. Try: \"Add RSS feed: https://example.com/feed\" instead", ErrMissingURL, feedURL)
		}

		name := strings.Trim(strings.TrimSpace(m[2]), `"“”'`)
		if name == "" {
			name = nameFromURL(feedURL)
		}
		return Command{URL: feedURL, Name: name, Category: GuessCategory(name, feedURL)}, nil
	}
	return Command{}, ErrNoCommand
}

func nameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return fallbackName
	}
	return strings.Replace(u.Hostname(), "www.", "", 1)
}

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"WordPress", []string{"wordpress", "wp"}},
	{"Design", []string{"css", "design", "ux", "ui"}},
	{"Development", []string{"dev", "tech", "code", "github"}},
}

// GuessCategory picks a category from keywords found in the name and URL.
func GuessCategory(name, feedURL string) string {
	haystack := strings.ToLower(name + " " + feedURL)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(haystack, kw) {
				return c.category
			}
		}
	}
	return types.DefaultCategory
}

// SourceAdder persists new sources.
type SourceAdder interface {
	AddSource(ctx context.Context, src types.Source) (types.Source, error)
}

// SourceFetcher ingests a single source without overlapping a fetch-all run.
type SourceFetcher interface {
	FetchSourceNow(ctx context.Context, src types.Source) (orchestrator.RunResult, error)
}

// Result reports what a handled command did. Queued is set when the first
// fetch was left to the next run.
type Result struct {
	Source   types.Source
	Articles int
	Queued   bool
	Message  string
}

// Handler executes parsed commands against the store and runs the first fetch.
type Handler struct {
	Store   SourceAdder
	Fetcher SourceFetcher
}

// Handle parses message, adds the feed and fetches it once.
func (h *Handler) Handle(ctx context.Context, message string) (Result, error) {
	cmd, err := Parse(message)
	if err != nil {
		return Result{}, err
	}
	return h.Add(ctx, cmd)
}

// Add stores the source for cmd and runs its initial fetch.
func (h *Handler) Add(ctx context.Context, cmd Command) (Result, error) {
	src, err := h.Store.AddSource(ctx, types.Source{Name: cmd.Name, URL: cmd.URL, Category: cmd.Category})
	if err != nil {
		return Result{}, fmt.Errorf("failed to add feed %q: %w", cmd.Name, err)
	}

	res := Result{Source: src, Message: fmt.Sprintf("Feed %q added successfully", src.Name)}
	if h.Fetcher == nil {
		return res, nil
	}
	run, err := h.Fetcher.FetchSourceNow(ctx, src)
	if errors.Is(err, orchestrator.ErrRunInProgress) {
		res.Queued = true
		res.Message = fmt.Sprintf("Feed %q added; it will be fetched on the next run", src.Name)
		return res, nil
	}
	res.Articles = run.Count()
	return res, nil
}
