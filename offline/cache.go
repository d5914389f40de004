// Package offline serves assets network-first and falls back to a local
// copy when the network is unreachable.
//
// A Cache is populated in two ways: Install fetches a fixed manifest and
// commits it only if every asset was fetched, and every successful GET
// through Fetch (or the Cache used as an http.RoundTripper) replaces the
// stored copy of that request.
package offline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultName        = "static-assets-v1"
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 4
)

// ErrNotCached is returned when the network failed and no copy is stored.
var ErrNotCached = errors.New("offline: not cached")

// Key identifies a request.
type Key struct {
	Method string
	URL    string
}

func KeyOf(req *http.Request) Key {
	m := req.Method
	if m == "" {
		m = http.MethodGet
	}
	return Key{Method: m, URL: req.URL.String()}
}

func (k Key) String() string {
	return k.Method + " " + k.URL
}

// Entry is a complete response.
type Entry struct {
	Key    Key
	Status int
	Header http.Header
	Body   []byte
	Stored time.Time
}

// Response returns a new response reading from a copy of the entry.
func (e *Entry) Response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        e.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

// Store keeps entries of one cache generation.
type Store interface {
	Match(ctx context.Context, k Key) (*Entry, bool, error)
	Put(ctx context.Context, e *Entry) error
	// PutAll stores all entries or, on error, none of them.
	PutAll(ctx context.Context, ee []*Entry) error
}

type Option func(*Cache)

func WithTransport(t http.RoundTripper) Option {
	return func(c *Cache) { c.transport = t }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Cache) { c.timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// WithBaseURL sets the URL manifest paths are resolved against.
func WithBaseURL(u *url.URL) Option {
	return func(c *Cache) { c.base = u }
}

func WithConcurrency(n int) Option {
	return func(c *Cache) { c.concurrency = n }
}

type Cache struct {
	store       Store
	transport   http.RoundTripper
	timeout     time.Duration
	log         *slog.Logger
	base        *url.URL
	concurrency int

	installed atomic.Bool
}

func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:       store,
		transport:   http.DefaultTransport,
		timeout:     DefaultTimeout,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		concurrency: DefaultConcurrency,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Installed reports whether a manifest was completely installed.
func (c *Cache) Installed() bool {
	return c.installed.Load()
}

// Install fetches every asset of the manifest and stores them at once.
// If any fetch fails, nothing is stored and the first error is returned.
func (c *Cache) Install(ctx context.Context, manifest []string) error {
	entries := make([]*Entry, len(manifest))

	g, gctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}
	for i, p := range manifest {
		i, p := i, p
		g.Go(func() error {
			u, err := c.resolve(p)
			if err != nil {
				return err
			}
			req, err := http.NewRequestWithContext(gctx, http.MethodGet, u, nil)
			if err != nil {
				return err
			}
			e, err := c.fetch(req)
			if err != nil {
				return err
			}
			if e.Status < 200 || 299 < e.Status || e.Status == http.StatusPartialContent {
				return fmt.Errorf("offline: %s: unexpected status %d", u, e.Status)
			}
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.log.Error("install failed", "assets", len(manifest), "error", err)
		return err
	}
	if err := c.store.PutAll(ctx, entries); err != nil {
		c.log.Error("install failed to store assets", "error", err)
		return fmt.Errorf("offline: storing assets: %w", err)
	}
	c.installed.Store(true)
	c.log.Info("installed", "assets", len(entries))
	return nil
}

// Fetch requests req over the network. A complete successful GET response
// replaces the stored copy. If the network fails, the stored copy is
// returned instead.
func (c *Cache) Fetch(req *http.Request) (*http.Response, error) {
	if req.Method != "" && req.Method != http.MethodGet {
		return c.transport.RoundTrip(req)
	}
	key := KeyOf(req)

	e, err := c.fetch(req)
	if err == nil {
		if storable(e) {
			if err := c.store.Put(req.Context(), e); err != nil {
				c.log.Warn("failed to store response", "key", key, "error", err)
			}
		}
		return e.Response(req), nil
	}
	netErr := err

	cached, ok, err := c.store.Match(req.Context(), key)
	if err != nil {
		c.log.Warn("failed to read cache", "key", key, "error", err)
	}
	if !ok {
		c.log.Debug("network failed and not cached", "key", key, "error", netErr)
		return nil, fmt.Errorf("%w: %s: %v", ErrNotCached, key, netErr)
	}
	c.log.Debug("serving from cache", "key", key, "error", netErr)
	return cached.Response(req), nil
}

// RoundTrip implements http.RoundTripper.
func (c *Cache) RoundTrip(req *http.Request) (*http.Response, error) {
	return c.Fetch(req)
}

// Client returns an http.Client fetching through the cache.
func (c *Cache) Client() *http.Client {
	return &http.Client{Transport: c}
}

func (c *Cache) fetch(req *http.Request) (*Entry, error) {
	ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
	defer cancel()

	res, err := c.transport.RoundTrip(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if res.ContentLength >= 0 && int64(len(body)) != res.ContentLength {
		return nil, fmt.Errorf("reading body: got %d bytes, expected %d", len(body), res.ContentLength)
	}
	return &Entry{
		Key:    KeyOf(req),
		Status: res.StatusCode,
		Header: res.Header.Clone(),
		Body:   body,
		Stored: time.Now(),
	}, nil
}

func (c *Cache) resolve(p string) (string, error) {
	u, err := url.Parse(p)
	if err != nil {
		return "", err
	}
	if c.base != nil {
		u = c.base.ResolveReference(u)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("offline: %q is not absolute and no base URL is set", p)
	}
	return u.String(), nil
}

func storable(e *Entry) bool {
	return 200 <= e.Status && e.Status <= 299 && e.Status != http.StatusPartialContent
}

// StatusOf returns the status reported to a client for an error of Fetch.
func StatusOf(err error) int {
	if errors.Is(err, ErrNotCached) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
