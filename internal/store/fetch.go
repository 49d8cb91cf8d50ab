package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/venkatesh3007/flexui/internal/schema"
)

// Fetcher retrieves screen-config documents from a remote config service.
type Fetcher struct {
	baseURL string
	client  *http.Client
}

// NewFetcher creates a fetcher for a config service base URL. A nil client
// uses http.DefaultClient.
func NewFetcher(baseURL string, client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Fetch downloads the config document for a screen id. Params become query
// parameters so the backend can vary the document per user or experiment.
func (f *Fetcher) Fetch(ctx context.Context, screenID string, params map[string]string) ([]byte, error) {
	u, err := url.Parse(f.baseURL + "/screens/" + url.PathEscape(screenID))
	if err != nil {
		return nil, fmt.Errorf("building config URL for %s: %w", screenID, err)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching config for %s: %w", screenID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching config for %s: unexpected status %d", screenID, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}

// Loader combines a Fetcher with a Store: cache hits are served locally,
// misses fetch from the remote service and backfill the cache.
type Loader struct {
	store   *Store
	fetcher *Fetcher
}

// NewLoader creates a loader. Either collaborator may be nil, in which case
// that side is skipped.
func NewLoader(s *Store, f *Fetcher) *Loader {
	return &Loader{store: s, fetcher: f}
}

// Load returns the config document for a screen id, preferring the cache.
func (l *Loader) Load(ctx context.Context, screenID string, params map[string]string) ([]byte, error) {
	if l.store != nil {
		data, err := l.store.Get(ctx, screenID)
		if err == nil {
			return data, nil
		}
		if err != ErrNotFound {
			return nil, err
		}
	}
	if l.fetcher == nil {
		return nil, ErrNotFound
	}
	data, err := l.fetcher.Fetch(ctx, screenID, params)
	if err != nil {
		return nil, err
	}
	if l.store != nil {
		// Best effort; only well-formed documents backfill the cache, and a
		// failed write never fails the load.
		if cfg, parseErr := schema.ParseConfig(data); parseErr == nil {
			_ = l.store.Put(ctx, screenID, cfg.Version, data)
		}
	}
	return data, nil
}
