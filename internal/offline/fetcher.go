// ABOUTME: Offline-first fetch policies over a configured origin
// ABOUTME: Network-first for navigations, cache-first for everything else

package offline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultManifest is the fixed list of pages and assets pre-populated into
// the cache at install time.
var DefaultManifest = []string{
	"/",
	"/index.html",
	"/home.html",
	"/profile.html",
	"/gallery.html",
	"/achievements.html",
	"/chats.html",
	"/notifications.html",
	"/style.css",
	"/app.js",
	"/manifest.json",
	"/images/icons/icon-192.svg",
	"/images/icons/icon-512.svg",
	"/images/icons/icon-192.png",
	"/images/icons/icon-512.png",
}

// landingPage is the fallback served when a navigation fails offline.
const landingPage = "/index.html"

// defaultCacheSize bounds the response cache. The manifest plus a generous
// allowance for opportunistically cached fetches.
const defaultCacheSize = 256

// Fetcher serves resources from a configured origin with offline fallback.
type Fetcher struct {
	origin   string
	manifest []string
	client   *http.Client
	cache    *Cache
	logger   *slog.Logger
}

// NewFetcher creates a fetcher for the given origin (e.g.
// "https://anglers.example"). A nil client gets a default with a timeout.
func NewFetcher(origin string, manifest []string, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if manifest == nil {
		manifest = DefaultManifest
	}
	return &Fetcher{
		origin:   origin,
		manifest: manifest,
		client:   client,
		cache:    NewCache(defaultCacheSize),
		logger:   slog.Default().With("component", "offline"),
	}
}

// Precache fetches every manifest entry and caches the successful responses.
// Install must not fail completely because one asset is missing: per-asset
// failures are logged and skipped. Returns the number of entries cached.
func (f *Fetcher) Precache(ctx context.Context) int {
	cached := 0
	for _, path := range f.manifest {
		r, err := f.fetchNetwork(ctx, path)
		if err != nil {
			f.logger.Warn("precache fetch failed", "path", path, "error", err)
			continue
		}
		if r.StatusCode != http.StatusOK {
			f.logger.Warn("precache skipping asset", "path", path, "status", r.StatusCode)
			continue
		}
		f.cache.Put(r)
		cached++
	}
	f.logger.Info("precache complete", "cached", cached, "manifest", len(f.manifest))
	return cached
}

// Navigate serves a page navigation: network-first, refreshing the cache on
// success, falling back to the cached landing page when the network fails.
func (f *Fetcher) Navigate(ctx context.Context, path string) (Resource, error) {
	r, err := f.fetchNetwork(ctx, path)
	if err != nil {
		if cached, ok := f.cache.Get(landingPage); ok {
			f.logger.Debug("navigation offline, serving landing page", "path", path)
			return cached, nil
		}
		return Resource{}, fmt.Errorf("navigating to %q offline with empty cache: %w", path, err)
	}
	if r.StatusCode == http.StatusOK {
		f.cache.Put(r)
	}
	return r, nil
}

// Fetch serves a non-navigation request: cache-first, with network fallback
// and opportunistic cache population of successful responses.
func (f *Fetcher) Fetch(ctx context.Context, path string) (Resource, error) {
	if cached, ok := f.cache.Get(path); ok {
		return cached, nil
	}

	r, err := f.fetchNetwork(ctx, path)
	if err != nil {
		return Resource{}, fmt.Errorf("fetching %q: %w", path, err)
	}
	if r.StatusCode == http.StatusOK {
		f.cache.Put(r)
	}
	return r, nil
}

// ServeHTTP serves resources through the offline policies: page navigations
// go network-first with the landing page fallback, everything else
// cache-first. Cached responses carry an X-From-Cache header.
func (f *Fetcher) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if path == "" {
		path = "/"
	}

	var (
		r   Resource
		err error
	)
	if isNavigation(path) {
		r, err = f.Navigate(req.Context(), path)
	} else {
		r, err = f.Fetch(req.Context(), path)
	}
	if err != nil {
		http.Error(w, "offline and not cached", http.StatusBadGateway)
		return
	}

	if r.ContentType != "" {
		w.Header().Set("Content-Type", r.ContentType)
	}
	if r.FromCache {
		w.Header().Set("X-From-Cache", "1")
	}
	w.WriteHeader(r.StatusCode)
	_, _ = w.Write(r.Body)
}

// isNavigation reports whether a path is a page load rather than an asset.
func isNavigation(path string) bool {
	return path == "/" || strings.HasSuffix(path, ".html") || strings.HasSuffix(path, "/")
}

// fetchNetwork performs one GET against the origin.
func (f *Fetcher) fetchNetwork(ctx context.Context, path string) (Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.origin+path, nil)
	if err != nil {
		return Resource{}, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Resource{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Resource{}, err
	}

	return Resource{
		Path:        path,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}
