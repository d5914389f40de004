package main

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConsole(t *testing.T) {
	testCases := map[string]struct {
		line     string
		expected string
		err      error
	}{
		"Empty":            {line: "  "},
		"Orbit":            {line: "orbit", expected: "0.000000 0.000000"},
		"OrbitSet":         {line: "orbit 1.5 -0.25", expected: "1.500000 -0.250000"},
		"OrbitWrap":        {line: "orbit -1 3", expected: "5.283185 1.570796"},
		"OrbitArgs":        {line: "orbit 1", err: errArgumentNumber},
		"Momentum":         {line: "momentum", expected: "0.000000 0.000000"},
		"MomentumSet":      {line: "momentum 0.008 0.0025", expected: "0.008000 0.002500"},
		"Color":            {line: "color wheel-front", expected: "aqua"},
		"ColorSet":         {line: "color wheel-back pink", expected: "pink"},
		"ColorUnknownPart": {line: "color handle", err: errUnknownPart},
		"ColorArgs":        {line: "color", err: errArgumentNumber},
		"Invalid":          {line: "zoom 2", err: errInvalidCommand},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			v, _, _ := newTestViewer(t)
			c := &console{v: v}
			res, err := c.Run(tt.line)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Expected error: %v, got: %v", tt.err, err)
			}
			if res != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, res)
			}
		})
	}
}

func TestConsole_ParseError(t *testing.T) {
	v, _, _ := newTestViewer(t)
	c := &console{v: v}
	if _, err := c.Run("orbit a b"); err == nil {
		t.Error("Expected error")
	}
}

func TestConsole_MomentumAnimates(t *testing.T) {
	v, f, r := newTestViewer(t)
	f.refresh(16 * time.Millisecond)
	r.draws = 0

	// Idle page before the command.
	f.refresh(time.Minute)
	az := v.ctrl.State().Azimuth

	c := &console{v: v}
	if _, err := c.Run("momentum 0.001 0"); err != nil {
		t.Fatal(err)
	}
	f.refresh(16 * time.Millisecond)
	if a := v.ctrl.State().Azimuth; a != az {
		t.Errorf("First frame must not move, expected azimuth %v, got %v", az, a)
	}
	if !v.ctrl.Moving() {
		t.Error("Momentum must continue after the first frame")
	}
	for len(f.queue) > 0 {
		f.refresh(16 * time.Millisecond)
	}
	if r.draws < 2 {
		t.Errorf("Momentum set from console must be animated, got %d draws", r.draws)
	}
	if v.ctrl.Moving() {
		t.Error("Momentum must stop")
	}
}

func TestConsole_List(t *testing.T) {
	v, _, _ := newTestViewer(t)
	c := &console{v: v}

	res, err := c.Run("parts")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(res, "\n")
	if len(lines) != 7 || lines[0] != "chassis #ffffff" || lines[2] != "griptape none" {
		t.Errorf("Unexpected parts:\n%s", res)
	}

	res, err = c.Run("colors")
	if err != nil {
		t.Fatal(err)
	}
	lines = strings.Split(res, "\n")
	if len(lines) != 14 || lines[1] != "aqua #0097d6" {
		t.Errorf("Unexpected colors:\n%s", res)
	}
}
