package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/seqsense/orbitviewer/config"
)

const configPath = "viewer.yaml"

func fetchGet(ctx context.Context, client *http.Client, base *url.URL, path string) (*http.Response, error) {
	u, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// loadConfig reads the viewer configuration.
// The default configuration is used if the file does not exist.
func loadConfig(ctx context.Context, client *http.Client, base *url.URL, path string) (*config.Config, error) {
	res, err := fetchGet(ctx, client, base, path)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	switch {
	case res.StatusCode == http.StatusNotFound:
		return config.Default(), nil
	case res.StatusCode/100 != 2:
		return nil, fmt.Errorf("failed to fetch %s: %s", path, res.Status)
	}
	return config.Load(res.Body)
}

func loadModel(ctx context.Context, client *http.Client, base *url.URL, path string) (*model, error) {
	res, err := fetchGet(ctx, client, base, path)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("failed to fetch %s: %s", path, res.Status)
	}
	return readModel(res.Body)
}
