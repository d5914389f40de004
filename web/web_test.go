package web

import (
	"net/url"
	"strings"
	"testing"
)

func TestWorker(t *testing.T) {
	script := string(Worker)
	for _, s := range []string{
		"'./" + ExecPath + "'",
		"'./" + WasmPath + "'",
		"get('" + CacheParam + "')",
		"self." + ReadyFunc,
		"'static-assets-v1'",
	} {
		if !strings.Contains(script, s) {
			t.Errorf("Worker script must contain %s", s)
		}
	}
}

func TestWorkerURL(t *testing.T) {
	testCases := map[string]struct {
		name     string
		expected string
	}{
		"Default": {name: "static-assets-v1", expected: "./sw.js?cache=static-assets-v1"},
		"Escaped": {name: "a b&c", expected: "./sw.js?cache=a+b%26c"},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			u := WorkerURL(tt.name)
			if u != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, u)
			}
			parsed, err := url.Parse(u)
			if err != nil {
				t.Fatal(err)
			}
			if n := parsed.Query().Get(CacheParam); n != tt.name {
				t.Errorf("Expected cache name %q, got %q", tt.name, n)
			}
		})
	}
}
