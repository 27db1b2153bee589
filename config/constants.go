package config

import "time"

// Fetching Constants
const (
	// FetchTimeout bounds every feed and page request
	FetchTimeout = 10 * time.Second

	// MaxRedirects is the redirect budget of a feed request
	MaxRedirects = 5

	// UserAgent identifies the fetcher to feed and article hosts
	UserAgent = "News Dashboard Bot 1.0"

	// MaxPageBytes caps how much of an article page is read
	MaxPageBytes = 5 << 20
)

// Extraction Constants
const (
	// MinRegionLength is the text length a content region must exceed to be chosen
	MinRegionLength = 200

	// MaxContentLength is where extracted text gets truncated
	MaxContentLength = 5000

	// MinArticleLength is the content length an article must exceed to be stored
	MinArticleLength = 100
)

// Summary Constants
const (
	// SummaryMinInput is the content length below which no summary is derived
	SummaryMinInput = 100

	// SummaryMaxSentences is the number of leading sentences kept
	SummaryMaxSentences = 3

	// SummaryMaxLength bounds the sentence-based summary
	SummaryMaxLength = 300

	// SummaryFallbackWords is the word budget of the fallback summary
	SummaryFallbackWords = 150

	// WordsPerMinute drives the reading time estimate
	WordsPerMinute = 200
)

// Scheduling Constants
const (
	// DefaultMaxItems is how many items per feed are considered
	DefaultMaxItems = 10

	// DefaultSourceDelay is the pause after each source
	DefaultSourceDelay = 1 * time.Second

	// DefaultSchedule runs a fetch every four hours
	DefaultSchedule = "0 */4 * * *"

	// DefaultStartupDelay delays the first run after the server starts
	DefaultStartupDelay = 5 * time.Second

	// DefaultRunLockTTL expires a stale Redis run lock
	DefaultRunLockTTL = 30 * time.Minute
)

// Ellipsis marks truncated text
const Ellipsis = "..."
