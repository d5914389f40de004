package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/seqsense/pcgol/mat"
	"gopkg.in/yaml.v3"
)

// ColorNone is the palette entry hiding a part.
const ColorNone = "none"

var ErrUnknownColor = errors.New("unknown color")

// Color is an sRGB color written as "#RRGGBB" or "0xRRGGBB".
type Color [3]uint8

func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// Vec3 returns the color as RGB in [0, 1].
func (c Color) Vec3() mat.Vec3 {
	return mat.Vec3{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255}
}

func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = v
	return nil
}

func (c Color) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

type NamedColor struct {
	Name  string
	Color Color
}

// Palette is an ordered list of named colors.
type Palette []NamedColor

func (p Palette) Lookup(name string) (Color, bool) {
	for _, c := range p {
		if c.Name == name {
			return c.Color, true
		}
	}
	return Color{}, false
}

func (p Palette) Names() []string {
	names := make([]string, 0, len(p))
	for _, c := range p {
		names = append(names, c.Name)
	}
	return names
}

func (p *Palette) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: colors must be a mapping", n.Line)
	}
	out := make(Palette, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var nc NamedColor
		if err := n.Content[i].Decode(&nc.Name); err != nil {
			return err
		}
		if _, ok := out.Lookup(nc.Name); ok {
			return fmt.Errorf("line %d: duplicated color %q", n.Content[i].Line, nc.Name)
		}
		if err := n.Content[i+1].Decode(&nc.Color); err != nil {
			return err
		}
		out = append(out, nc)
	}
	*p = out
	return nil
}

func (p Palette) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range p {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: c.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: c.Color.Hex(), Style: yaml.DoubleQuotedStyle},
		)
	}
	return n, nil
}
