// Package orbit implements a camera orbiting a fixed point, driven by
// single-pointer drag gestures with inertia and linear damping.
package orbit

import (
	"math"
	"time"

	"github.com/seqsense/pcgol/mat"
)

const (
	DefaultSensitivity      = 5.0
	DefaultVelocityTransfer = 2.0
	DefaultFreshness        = 100 * time.Millisecond
)

// State is the orbital position and angular velocity of the camera.
// Rates are in radians per millisecond.
type State struct {
	Azimuth, Elevation         float64
	AzimuthRate, ElevationRate float64
}

// Damping is the deceleration applied to each rate in radians per millisecond squared.
type Damping struct {
	Azimuth, Elevation float64
}

type Config struct {
	Radius  float64
	Center  mat.Vec3
	Damping Damping

	// Sensitivity converts a drag across the whole viewport into radians.
	Sensitivity float64
	// VelocityTransfer scales the release speed into the seeded rate.
	VelocityTransfer float64
	// Freshness is the maximum age of the last move sample at release
	// for its speed to be transferred into momentum.
	Freshness time.Duration
	// MinSampleInterval is the shortest interval between move samples.
	// Samples closer than this are skipped. Zero means any positive interval.
	MinSampleInterval time.Duration
	// StopAtPoles zeroes the elevation rate when elevation hits its limit.
	StopAtPoles bool

	Initial State
}

type sample struct {
	pointerID      int
	x, y           float64
	t              time.Duration
	speedX, speedY float64
}

// Controller owns the orbit state. It is not safe for concurrent use.
type Controller struct {
	cfg   Config
	state State

	width, height float64

	// nil while idle
	drag *sample
}

func New(cfg Config) *Controller {
	if cfg.Sensitivity == 0 {
		cfg.Sensitivity = DefaultSensitivity
	}
	if cfg.VelocityTransfer == 0 {
		cfg.VelocityTransfer = DefaultVelocityTransfer
	}
	if cfg.Freshness == 0 {
		cfg.Freshness = DefaultFreshness
	}
	c := &Controller{cfg: cfg}
	c.SetState(cfg.Initial)
	return c
}

func (c *Controller) SetViewport(width, height int) {
	c.width, c.height = float64(width), float64(height)
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) SetState(s State) {
	s.Azimuth = Wrap(s.Azimuth)
	s.Elevation, _ = clampElevation(s.Elevation)
	c.state = s
}

func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) Dragging() bool {
	return c.drag != nil
}

// PointerDown starts a drag gesture. It returns false if another gesture
// is already active.
func (c *Controller) PointerDown(id int, x, y float64, t time.Duration) bool {
	if c.drag != nil {
		return false
	}
	c.state.AzimuthRate = 0
	c.state.ElevationRate = 0
	c.drag = &sample{
		pointerID: id,
		x:         x,
		y:         y,
		t:         t,
	}
	return true
}

// PointerMove rotates the camera by the pointer displacement since the last
// sample. It returns true if the state was updated.
func (c *Controller) PointerMove(id int, x, y float64, t time.Duration) bool {
	if c.drag == nil || c.drag.pointerID != id {
		return false
	}
	if c.width <= 0 || c.height <= 0 {
		return false
	}
	dt := t - c.drag.t
	if dt <= 0 || dt < c.cfg.MinSampleInterval {
		return false
	}
	dtMs := durationMs(dt)

	dx := (x - c.drag.x) / c.width
	dy := (y - c.drag.y) / c.height
	c.drag.speedX = dx / dtMs
	c.drag.speedY = dy / dtMs

	c.state.Azimuth = Wrap(c.state.Azimuth - dx*c.cfg.Sensitivity)
	c.state.Elevation, _ = clampElevation(c.state.Elevation + dy*c.cfg.Sensitivity)

	c.drag.x, c.drag.y, c.drag.t = x, y, t
	return true
}

// PointerUp ends the gesture, either by release or by loss of pointer capture.
// Momentum is seeded only if the last move sample is fresh.
func (c *Controller) PointerUp(id int, t time.Duration) bool {
	if c.drag == nil || c.drag.pointerID != id {
		return false
	}
	s := c.drag
	c.drag = nil
	if t-s.t < c.cfg.Freshness {
		c.state.AzimuthRate = -s.speedX * c.cfg.VelocityTransfer
		c.state.ElevationRate = s.speedY * c.cfg.VelocityTransfer
	}
	return true
}

// Stop ends an active gesture without seeding momentum and stops the
// current momentum.
func (c *Controller) Stop() {
	c.drag = nil
	c.state.AzimuthRate = 0
	c.state.ElevationRate = 0
}

// Tick integrates the rates over dt and applies damping.
// It returns true while any rate is non-zero.
func (c *Controller) Tick(dt time.Duration) bool {
	if dt < 0 {
		dt = 0
	}
	dtMs := durationMs(dt)

	c.state.Azimuth = Wrap(c.state.Azimuth + c.state.AzimuthRate*dtMs)
	var clamped bool
	c.state.Elevation, clamped = clampElevation(c.state.Elevation + c.state.ElevationRate*dtMs)
	if clamped && c.cfg.StopAtPoles {
		c.state.ElevationRate = 0
	}

	c.state.AzimuthRate = Decay(c.state.AzimuthRate, c.cfg.Damping.Azimuth, dtMs)
	c.state.ElevationRate = Decay(c.state.ElevationRate, c.cfg.Damping.Elevation, dtMs)

	return c.Moving()
}

func (c *Controller) Moving() bool {
	return c.state.AzimuthRate != 0 || c.state.ElevationRate != 0
}

// Wrap returns a modulo 2π in [0, 2π).
func Wrap(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		// a was a tiny negative value
		a = 0
	}
	return a
}

// Decay reduces the magnitude of rate by damping*dt without changing its sign.
// The result is exactly zero once the magnitude is consumed.
func Decay(rate, damping, dt float64) float64 {
	if rate == 0 {
		return 0
	}
	m := math.Abs(rate) - damping*dt
	if m <= 0 {
		return 0
	}
	return math.Copysign(m, rate)
}

func clampElevation(e float64) (float64, bool) {
	switch {
	case e >= math.Pi/2:
		return math.Pi / 2, true
	case e <= -math.Pi/2:
		return -math.Pi / 2, true
	}
	return e, false
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
