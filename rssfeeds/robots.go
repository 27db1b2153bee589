package rssfeeds

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// DefaultRobotsTTL is how long a host's robots.txt rules are reused.
const DefaultRobotsTTL = time.Hour

// RobotsChecker answers whether a page may be fetched according to its
// host's robots.txt. Rules are cached per host for a TTL. Unreachable hosts
// and 5xx answers are not cached, so the next run asks again.
type RobotsChecker struct {
	client    *http.Client
	userAgent string
	ttl       time.Duration
	now       func() time.Time

	mu    sync.Mutex
	hosts map[string]robotsEntry
}

type robotsEntry struct {
	data    *robotstxt.RobotsData
	expires time.Time
}

func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		ttl:       DefaultRobotsTTL,
		now:       time.Now,
		hosts:     make(map[string]robotsEntry),
	}
}

// WithTTL sets how long fetched rules are kept.
func (r *RobotsChecker) WithTTL(ttl time.Duration) *RobotsChecker {
	r.ttl = ttl
	return r
}

// Allowed reports whether pageURL may be fetched.
func (r *RobotsChecker) Allowed(ctx context.Context, pageURL string) bool {
	if r == nil {
		return true
	}
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return true
	}

	data := r.rulesFor(ctx, u)
	if data == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, r.userAgent)
}

func (r *RobotsChecker) rulesFor(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	key := u.Scheme + "://" + u.Host

	r.mu.Lock()
	entry, ok := r.hosts[key]
	r.mu.Unlock()
	if ok && r.now().Before(entry.expires) {
		return entry.data
	}

	data, cacheable := r.fetch(ctx, key+"/robots.txt")

	r.mu.Lock()
	if cacheable {
		r.hosts[key] = robotsEntry{data: data, expires: r.now().Add(r.ttl)}
	} else {
		delete(r.hosts, key)
	}
	r.mu.Unlock()
	return data
}

// fetch retrieves and parses robotsURL. The second result is false for
// answers that may be transient: transport errors and 5xx statuses.
func (r *RobotsChecker) fetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, false
	}
	return data, resp.StatusCode < http.StatusInternalServerError
}
