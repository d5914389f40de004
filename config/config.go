// Package config loads the viewer configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/seqsense/pcgol/mat"
	"gopkg.in/yaml.v3"

	"github.com/seqsense/orbitviewer/offline"
	"github.com/seqsense/orbitviewer/orbit"
	"github.com/seqsense/orbitviewer/web"
)

type Config struct {
	Model        string  `yaml:"model"`
	Background   Color   `yaml:"background"`
	DefaultColor Color   `yaml:"default_color"`
	PointSize    float32 `yaml:"point_size"`
	Orbit        Orbit   `yaml:"orbit"`
	Colors       Palette `yaml:"colors"`
	Parts        []Part  `yaml:"parts"`
	Cache        Cache   `yaml:"cache"`
}

type Orbit struct {
	// Radius of the orbit. Zero derives it from the model size.
	Radius        float64 `yaml:"radius"`
	Azimuth       float64 `yaml:"azimuth"`
	Elevation     float64 `yaml:"elevation"`
	AzimuthRate   float64 `yaml:"azimuth_rate"`
	ElevationRate float64 `yaml:"elevation_rate"`
	Damping       struct {
		Azimuth   float64 `yaml:"azimuth"`
		Elevation float64 `yaml:"elevation"`
	} `yaml:"damping"`
	Sensitivity         float64 `yaml:"sensitivity"`
	VelocityTransfer    float64 `yaml:"velocity_transfer"`
	FreshnessMs         float64 `yaml:"freshness_ms"`
	MinSampleIntervalMs float64 `yaml:"min_sample_interval_ms"`
	StopAtPoles         bool    `yaml:"stop_at_poles"`
}

// Part is a sub-part of the model, made of the points with Label.
type Part struct {
	Name  string `yaml:"name"`
	Label uint32 `yaml:"label"`
	// Color is a palette name, "none", or a "#RRGGBB" value.
	Color string `yaml:"color"`
	// Menu enables the color menu of the part.
	Menu bool `yaml:"menu"`
}

type Cache struct {
	Name     string   `yaml:"name"`
	Manifest []string `yaml:"manifest"`
}

func Default() *Config {
	c := &Config{
		Model:        "freeskate.pcd",
		Background:   Color{0x07, 0x36, 0x42},
		DefaultColor: Color{0x88, 0x88, 0x88},
		PointSize:    3,
		Orbit: Orbit{
			Radius:           0.3,
			Elevation:        -0.1 * math.Pi,
			AzimuthRate:      0.008,
			ElevationRate:    0.0025,
			Sensitivity:      orbit.DefaultSensitivity,
			VelocityTransfer: orbit.DefaultVelocityTransfer,
			FreshnessMs:      float64(orbit.DefaultFreshness / time.Millisecond),
		},
		Colors: Palette{
			{ColorNone, Color{0x00, 0x00, 0x00}},
			{"aqua", Color{0x00, 0x97, 0xd6}},
			{"black", Color{0x2e, 0x2e, 0x2b}},
			{"cyan", Color{0x00, 0xd8, 0xeb}},
			{"darkGreen", Color{0x35, 0x7c, 0x39}},
			{"green", Color{0x49, 0xea, 0x5f}},
			{"lavender", Color{0xbd, 0x99, 0xc6}},
			{"mint", Color{0x76, 0xed, 0xb8}},
			{"orange", Color{0xff, 0x95, 0x2e}},
			{"pink", Color{0xff, 0x7c, 0xae}},
			{"red", Color{0xff, 0x55, 0x4b}},
			{"violet", Color{0x9a, 0x4c, 0x98}},
			{"white", Color{0xcf, 0xcd, 0xc3}},
			{"yellow", Color{0xff, 0xeb, 0x03}},
		},
		Parts: []Part{
			{Name: "chassis", Label: 1, Color: "#ffffff"},
			{Name: "deck", Label: 2, Color: "#aaaaaa"},
			{Name: "griptape", Label: 3, Color: ColorNone, Menu: true},
			{Name: "shock-absorber", Label: 4, Color: "#aaaaaa"},
			{Name: "edge-guard", Label: 5, Color: "black", Menu: true},
			{Name: "wheel-front", Label: 6, Color: "aqua", Menu: true},
			{Name: "wheel-back", Label: 7, Color: "aqua", Menu: true},
		},
		Cache: Cache{
			Name: offline.DefaultName,
			Manifest: append(web.Shell(),
				"./main.css",
				"./viewer.yaml",
				"./freeskate.pcd",
				"./manifest.webmanifest",
				"./icon/icon_64x64.png",
				"./icon/icon_192x192.png",
				"./icon/icon_512x512.png",
			),
		},
	}
	c.Orbit.Damping.Azimuth = 0.000008
	c.Orbit.Damping.Elevation = 0.000004
	return c
}

// Parse reads a YAML configuration over the defaults.
func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Load(r io.Reader) (*Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func (c *Config) Validate() error {
	var errs []error
	o := c.Orbit
	if o.Radius < 0 {
		errs = append(errs, errors.New("orbit.radius must be >=0"))
	}
	if o.Damping.Azimuth < 0 || o.Damping.Elevation < 0 {
		errs = append(errs, errors.New("orbit.damping must be >=0"))
	}
	if o.Sensitivity <= 0 || o.VelocityTransfer < 0 {
		errs = append(errs, errors.New("orbit.sensitivity must be >0 and orbit.velocity_transfer >=0"))
	}
	if o.FreshnessMs < 0 || o.MinSampleIntervalMs < 0 {
		errs = append(errs, errors.New("orbit.freshness_ms and orbit.min_sample_interval_ms must be >=0"))
	}
	if c.PointSize <= 0 {
		errs = append(errs, errors.New("point_size must be >0"))
	}

	names := make(map[string]bool)
	labels := make(map[uint32]bool)
	for _, p := range c.Parts {
		if p.Name == "" {
			errs = append(errs, errors.New("part without name"))
			continue
		}
		if names[p.Name] {
			errs = append(errs, fmt.Errorf("duplicated part %q", p.Name))
		}
		if labels[p.Label] {
			errs = append(errs, fmt.Errorf("duplicated label %d (part %q)", p.Label, p.Name))
		}
		names[p.Name], labels[p.Label] = true, true
		if _, _, err := c.ResolveColor(p.Color); err != nil {
			errs = append(errs, fmt.Errorf("part %q: %w", p.Name, err))
		}
	}
	if c.Cache.Name == "" {
		errs = append(errs, errors.New("cache.name must not be empty"))
	}
	return errors.Join(errs...)
}

// ResolveColor returns the color of a palette name or a "#RRGGBB" value.
// visible is false for "none".
func (c *Config) ResolveColor(s string) (col Color, visible bool, err error) {
	if s == ColorNone {
		return Color{}, false, nil
	}
	if col, ok := c.Colors.Lookup(s); ok {
		return col, true, nil
	}
	if col, err := ParseColor(s); err == nil {
		return col, true, nil
	}
	return Color{}, false, fmt.Errorf("%w %q", ErrUnknownColor, s)
}

func (c *Config) Part(name string) (Part, bool) {
	for _, p := range c.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return Part{}, false
}

// OrbitConfig returns the controller configuration orbiting center.
// radius is used when the configured radius is zero.
func (c *Config) OrbitConfig(center mat.Vec3, radius float64) orbit.Config {
	o := c.Orbit
	if o.Radius > 0 {
		radius = o.Radius
	}
	return orbit.Config{
		Radius: radius,
		Center: center,
		Damping: orbit.Damping{
			Azimuth:   o.Damping.Azimuth,
			Elevation: o.Damping.Elevation,
		},
		Sensitivity:       o.Sensitivity,
		VelocityTransfer:  o.VelocityTransfer,
		Freshness:         msDuration(o.FreshnessMs),
		MinSampleInterval: msDuration(o.MinSampleIntervalMs),
		StopAtPoles:       o.StopAtPoles,
		Initial: orbit.State{
			Azimuth:       o.Azimuth,
			Elevation:     o.Elevation,
			AzimuthRate:   o.AzimuthRate,
			ElevationRate: o.ElevationRate,
		},
	}
}

func msDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
