// Package osint maintains a local snapshot of public phishing blacklists.
// The engine consults the snapshot synchronously; refreshing happens in
// the background so an analysis never waits on a feed download.
package osint

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

const (
	// OpenPhish publishes confirmed phishing URLs; the public feed lags
	// the commercial one but is refreshed several times a day.
	DefaultFeedURL = "https://raw.githubusercontent.com/openphish/public_feed/refs/heads/main/feed.txt"

	defaultRefreshEvery = 12 * time.Hour
	fetchTimeout        = 15 * time.Second
)

// Snapshot is one immutable parse of the feed. Hosts and full URLs are
// both indexed; lookups are exact matches, never substring scans.
type Snapshot struct {
	hosts     map[string]struct{}
	urls      map[string]struct{}
	FetchedAt time.Time
}

// Len reports how many distinct hosts the snapshot indexes.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.hosts)
}

// Feed downloads the blacklist periodically and serves membership checks
// from the last good snapshot. A failed refresh keeps the previous
// snapshot; an empty response is treated as a failure, not a wipe.
type Feed struct {
	url      string
	client   *http.Client
	every    time.Duration
	snapshot atomic.Pointer[Snapshot]
}

type Option func(*Feed)

func WithURL(u string) Option {
	return func(f *Feed) { f.url = u }
}

func WithRefreshInterval(d time.Duration) Option {
	return func(f *Feed) { f.every = d }
}

func WithHTTPClient(c *http.Client) Option {
	return func(f *Feed) { f.client = c }
}

func New(opts ...Option) *Feed {
	f := &Feed{
		url:    DefaultFeedURL,
		client: &http.Client{Timeout: fetchTimeout},
		every:  defaultRefreshEvery,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Contains reports whether the host or the exact URL appears in the
// current snapshot. Before the first successful refresh it always
// answers false: the blacklist degrades to "no signal", never to an
// error.
func (f *Feed) Contains(host, rawURL string) bool {
	snap := f.snapshot.Load()
	if snap == nil {
		return false
	}
	if _, ok := snap.hosts[strings.ToLower(host)]; ok {
		return true
	}
	_, ok := snap.urls[strings.ToLower(strings.TrimRight(rawURL, "/"))]
	return ok
}

// SnapshotInfo reports the current snapshot's size and fetch time, for
// health reporting. Zero values mean no refresh has succeeded yet.
func (f *Feed) SnapshotInfo() (entries int, fetchedAt time.Time) {
	snap := f.snapshot.Load()
	if snap == nil {
		return 0, time.Time{}
	}
	return len(snap.hosts), snap.FetchedAt
}

// Refresh downloads and swaps in a new snapshot. Callers usually run it
// once at startup and then from Run.
func (f *Feed) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("feed download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed download: status %d", resp.StatusCode)
	}

	snap := &Snapshot{
		hosts:     make(map[string]struct{}),
		urls:      make(map[string]struct{}),
		FetchedAt: time.Now(),
	}
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parsed, perr := url.Parse(line)
		if perr != nil || parsed.Host == "" {
			continue
		}
		snap.hosts[strings.ToLower(parsed.Hostname())] = struct{}{}
		snap.urls[strings.ToLower(strings.TrimRight(line, "/"))] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("feed read: %w", err)
	}

	if len(snap.hosts) == 0 {
		return fmt.Errorf("feed parsed to zero entries, keeping previous snapshot")
	}

	f.snapshot.Store(snap)
	slog.Info("Blacklist snapshot refreshed", "hosts", len(snap.hosts), "urls", len(snap.urls))
	return nil
}

// Run refreshes on the configured interval until the context is
// cancelled. Intended as a background goroutine from main.
func (f *Feed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.Refresh(ctx); err != nil {
				slog.Warn("Blacklist refresh failed, serving stale snapshot", "error", err)
			}
		}
	}
}
