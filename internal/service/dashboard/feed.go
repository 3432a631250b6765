package dashboard

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/wpbt/beta-tester/internal/config"
	"github.com/wpbt/beta-tester/internal/logger"
	"github.com/wpbt/beta-tester/internal/version"
)

const (
	// feedItems is how many feed entries are considered.
	feedItems = 10
	// maxFeedSize bounds the feed body.
	maxFeedSize = 4 << 20
)

var errBadHTTPStatus = errors.New("unexpected http status")

// Item is one entry of the development news feed.
type Item struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

// rss is the subset of an RSS 2.0 document that is read.
type rss struct {
	Items []Item `xml:"channel>item"`
}

// Feed fetches the development news feed and keeps the result in memory
// until Purge is called.
type Feed struct {
	client *http.Client
	url    string

	mu    sync.Mutex
	items []Item
	// loaded is set once items hold a fetched feed.
	loaded bool
}

// NewFeed creates a feed reader. A nil client uses http.DefaultClient.
func NewFeed(client *http.Client, feedURL string) *Feed {
	if client == nil {
		client = http.DefaultClient
	}

	if feedURL == "" {
		feedURL = config.DefaultFeedURL
	}

	return &Feed{
		client: client,
		url:    feedURL,
	}
}

// Items returns the newest feed entries, fetching them on first use.
func (f *Feed) Items(ctx context.Context) ([]Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loaded {
		return f.items, nil
	}

	items, err := f.fetch(ctx)
	if err != nil {
		return nil, err
	}

	f.items = items
	f.loaded = true

	return items, nil
}

// Purge drops the cached entries.
func (f *Feed) Purge() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = nil
	f.loaded = false
}

// Find returns the first entry whose title mentions milestone.
func (f *Feed) Find(ctx context.Context, milestone string) (*Item, error) {
	items, err := f.Items(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if strings.Contains(items[i].Title, milestone) {
			item := items[i]

			return &item, nil
		}
	}

	return nil, nil //nolint:nilnil // No matching entry is not an error.
}

func (f *Feed) fetch(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}

	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warnf(ctx, "Failed to close feed body: %v", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", errBadHTTPStatus, resp.Status)
	}

	var doc rss

	if err = xml.NewDecoder(io.LimitReader(resp.Body, maxFeedSize)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	items := doc.Items
	if len(items) > feedItems {
		items = items[:feedItems]
	}

	for i := range items {
		items[i].Title = strings.TrimSpace(items[i].Title)
		items[i].Link = strings.TrimSpace(items[i].Link)
	}

	return items, nil
}
