package types

import "time"

// Source is a configured feed endpoint the dashboard polls.
type Source struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Category    string     `json:"category"`
	Active      bool       `json:"active"`
	LastFetched *time.Time `json:"last_fetched,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
}

// DefaultCategory is assigned to sources added without one.
const DefaultCategory = "Other"
