package main

import (
	"errors"
	"fmt"

	"github.com/seqsense/orbitviewer/config"
)

var errUnknownPart = errors.New("unknown part")

type partState struct {
	config.Part
	color   config.Color
	visible bool
}

// partTable holds the current color of each sub-part.
type partTable struct {
	cfg     *config.Config
	parts   []*partState
	byLabel map[uint32]*partState
}

func newPartTable(cfg *config.Config) (*partTable, error) {
	t := &partTable{
		cfg:     cfg,
		byLabel: make(map[uint32]*partState),
	}
	for _, p := range cfg.Parts {
		s := &partState{Part: p}
		if err := t.set(s, p.Color); err != nil {
			return nil, fmt.Errorf("part %q: %w", p.Name, err)
		}
		t.parts = append(t.parts, s)
		t.byLabel[p.Label] = s
	}
	return t, nil
}

func (t *partTable) set(s *partState, color string) error {
	col, visible, err := t.cfg.ResolveColor(color)
	if err != nil {
		return err
	}
	s.Part.Color = color
	s.color, s.visible = col, visible
	return nil
}

func (t *partTable) get(name string) (*partState, error) {
	for _, s := range t.parts {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w %q", errUnknownPart, name)
}

// SetColor changes the color of the part. "none" hides it.
// It returns false if the part already has the color.
func (t *partTable) SetColor(name, color string) (bool, error) {
	s, err := t.get(name)
	if err != nil {
		return false, err
	}
	if s.Part.Color == color {
		return false, nil
	}
	if err := t.set(s, color); err != nil {
		return false, err
	}
	return true, nil
}

func (t *partTable) Color(name string) (string, error) {
	s, err := t.get(name)
	if err != nil {
		return "", err
	}
	return s.Part.Color, nil
}

func (t *partTable) Names() []string {
	names := make([]string, 0, len(t.parts))
	for _, s := range t.parts {
		names = append(names, s.Name)
	}
	return names
}

// MenuParts returns the parts with a color menu.
func (t *partTable) MenuParts() []config.Part {
	var ps []config.Part
	for _, s := range t.parts {
		if s.Menu {
			ps = append(ps, s.Part)
		}
	}
	return ps
}

// ColorBuffer returns RGBA colors of the points.
// Points of hidden parts have zero alpha. Unknown labels get the default color.
func (t *partTable) ColorBuffer(labels []uint32) []float32 {
	def := t.cfg.DefaultColor.Vec3()
	buf := make([]float32, 0, len(labels)*4)
	for _, l := range labels {
		s, ok := t.byLabel[l]
		switch {
		case !ok:
			buf = append(buf, def[0], def[1], def[2], 1)
		case !s.visible:
			buf = append(buf, 0, 0, 0, 0)
		default:
			c := s.color.Vec3()
			buf = append(buf, c[0], c[1], c[2], 1)
		}
	}
	return buf
}
