package main

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/seqsense/orbitviewer/offline"
)

// worker answers the requests of the page from the service worker.
type worker struct {
	cache *offline.Cache
	base  *url.URL
}

func newWorker(store offline.Store, base *url.URL, opts ...offline.Option) *worker {
	return &worker{
		cache: offline.New(store, append([]offline.Option{offline.WithBaseURL(base)}, opts...)...),
		base:  base,
	}
}

// install caches the manifest of the configuration found next to the page.
func (w *worker) install(ctx context.Context) error {
	cfg, err := loadConfig(ctx, w.cache.Client(), w.base, configPath)
	if err != nil {
		return err
	}
	return w.cache.Install(ctx, cfg.Cache.Manifest)
}

// serve returns the complete response to the request.
// Failures are answered with a plain text error response.
func (w *worker) serve(req *http.Request) *offline.Entry {
	res, err := w.cache.Fetch(req)
	if err != nil {
		return errorEntry(req, offline.StatusOf(err), err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return errorEntry(req, http.StatusBadGateway, err)
	}
	return &offline.Entry{
		Key:    offline.KeyOf(req),
		Status: res.StatusCode,
		Header: res.Header,
		Body:   body,
	}
}

func errorEntry(req *http.Request, status int, err error) *offline.Entry {
	return &offline.Entry{
		Key:    offline.KeyOf(req),
		Status: status,
		Header: http.Header{"Content-Type": {"text/plain; charset=utf-8"}},
		Body:   []byte(err.Error()),
	}
}
