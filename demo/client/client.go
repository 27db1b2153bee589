package client

import (
	"net/http"
	"strings"
	"time"

	"newsdash/config"
)

// Client talks to a running dashboard's HTTP API.
type Client struct {
	baseURL    string
	user       string
	password   string
	httpClient *http.Client
}

// NewClient creates a new API client. Empty auth disables basic-auth headers.
func NewClient(baseURL string, auth config.AuthConfig) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	// A fetch run holds the request open until every source is done.
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		user:       auth.User,
		password:   auth.Password,
		httpClient: &http.Client{Timeout: 10 * time.Minute},
	}
}
