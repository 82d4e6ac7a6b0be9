// Package feeds fetches and sanitizes RSS/Atom feeds for the dashboard's RSS
// widget, so user-supplied feed URLs never have to be fetched from the browser.
package feeds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

const (
	maxItems        = 20
	maxResponseSize = 2 << 20 // 2 MiB
)

var (
	// ErrBadURL indicates the supplied feed URL is missing or unsafe to fetch.
	ErrBadURL = errors.New("invalid feed url")
	// ErrFetchFailed indicates the upstream feed could not be fetched or parsed.
	ErrFetchFailed = errors.New("failed to fetch feed")
)

// Item is a single sanitized feed entry.
type Item struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Description string     `json:"description"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Preview is a fetched feed trimmed to what the RSS widget renders.
type Preview struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Items []Item `json:"items"`
}

// Service fetches feeds through the supplied HTTP client and strips their
// HTML down to a safe subset.
type Service struct {
	client    *http.Client
	sanitizer *bluemonday.Policy
	stripper  *bluemonday.Policy
}

// NewService builds a feed preview service. Pass NewSafeClient in production;
// tests may inject their own client.
func NewService(client *http.Client) *Service {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "br", "a", "ul", "ol", "li", "blockquote", "pre", "code", "strong", "em")
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowURLSchemes("http", "https")
	policy.RequireNoFollowOnLinks(true)

	return &Service{
		client:    client,
		sanitizer: policy,
		stripper:  bluemonday.StrictPolicy(),
	}
}

// NewSafeClient returns an HTTP client that refuses to connect to private,
// loopback, link-local, and metadata addresses, including after DNS
// resolution. Feed URLs come from end users, so plain http.DefaultClient
// would be an SSRF hole.
func NewSafeClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return safeurl.Client(config).Client
}

// Preview fetches the feed at rawURL and returns its sanitized items.
func (s *Service) Preview(ctx context.Context, rawURL string) (*Preview, error) {
	if err := validateFeedURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadURL, err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream returned %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	return s.parse(string(body))
}

func (s *Service) parse(raw string) (*Preview, error) {
	parsed, err := gofeed.NewParser().ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	preview := &Preview{
		Title: s.stripper.Sanitize(parsed.Title),
		Link:  parsed.Link,
	}
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		if len(preview.Items) >= maxItems {
			break
		}
		preview.Items = append(preview.Items, Item{
			Title:       s.stripper.Sanitize(item.Title),
			Link:        item.Link,
			Description: s.sanitizer.Sanitize(item.Description),
			PublishedAt: item.PublishedParsed,
		})
	}
	return preview, nil
}

func validateFeedURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("%w: url is required", ErrBadURL)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadURL, err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: scheme %q is not allowed", ErrBadURL, parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return fmt.Errorf("%w: host is required", ErrBadURL)
	}
	return nil
}
