package orbit

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

const ms = time.Millisecond

func newTestController(initial State) *Controller {
	c := New(Config{
		Radius: 0.3,
		Damping: Damping{
			Azimuth:   0.000008,
			Elevation: 0.000004,
		},
		Initial: initial,
	})
	c.SetViewport(1000, 500)
	return c
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestWrap(t *testing.T) {
	testCases := map[string]struct {
		in, expected float64
	}{
		"Zero":          {0, 0},
		"InRange":       {1, 1},
		"FullTurn":      {2 * math.Pi, 0},
		"Negative":      {-0.5, 2*math.Pi - 0.5},
		"NegativeTurns": {-4*math.Pi - 0.5, 2*math.Pi - 0.5},
		"ManyTurns":     {7 * math.Pi, math.Pi},
		"TinyNegative":  {-1e-18, 0},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			out := Wrap(tt.in)
			if out < 0 || out >= 2*math.Pi {
				t.Fatalf("Wrapped angle must be in [0, 2pi), got: %v", out)
			}
			if !almostEqual(out, tt.expected) {
				t.Errorf("Expected: %v, got: %v", tt.expected, out)
			}
		})
	}
}

func TestDecay(t *testing.T) {
	testCases := map[string]struct {
		rate, damping, dt float64
		expected          float64
	}{
		"Positive":      {0.01, 0.001, 2, 0.008},
		"Negative":      {-0.01, 0.001, 2, -0.008},
		"ExactlyZero":   {0.002, 0.001, 2, 0},
		"Overshoot":     {0.002, 0.001, 100, 0},
		"OvershootNeg":  {-0.002, 0.001, 100, 0},
		"ZeroDt":        {0.005, 0.001, 0, 0.005},
		"ZeroRate":      {0, 0.001, 16, 0},
		"ZeroDamping":   {-0.005, 0, 16, -0.005},
		"TinyRemaining": {1e-12, 1e-6, 16, 0},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			if out := Decay(tt.rate, tt.damping, tt.dt); !almostEqual(out, tt.expected) {
				t.Errorf("Expected: %v, got: %v", tt.expected, out)
			}
		})
	}

	t.Run("NeverFlipsSign", func(t *testing.T) {
		r := rand.New(rand.NewSource(1))
		for i := 0; i < 10000; i++ {
			rate := (r.Float64() - 0.5) * 0.02
			damping := r.Float64() * 0.0001
			dt := r.Float64() * 100
			out := Decay(rate, damping, dt)
			if math.Abs(out) > math.Abs(rate) {
				t.Fatalf("Magnitude must not grow: rate %v, got %v", rate, out)
			}
			if out != 0 && math.Signbit(out) != math.Signbit(rate) {
				t.Fatalf("Sign must be kept: rate %v, got %v", rate, out)
			}
		}
	})
}

func TestController_PointerDown(t *testing.T) {
	c := newTestController(State{AzimuthRate: 0.008, ElevationRate: 0.0025})

	if !c.PointerDown(1, 100, 100, 0) {
		t.Fatal("First pointer down must start a gesture")
	}
	if s := c.State(); s.AzimuthRate != 0 || s.ElevationRate != 0 {
		t.Errorf("Pointer down must cancel momentum, got: %+v", s)
	}
	if !c.Dragging() {
		t.Error("Controller must be dragging")
	}
	if c.PointerDown(2, 200, 200, 5*ms) {
		t.Error("Pointer down during a gesture must be rejected")
	}

	// Events of the rejected pointer are ignored.
	before := c.State()
	if c.PointerMove(2, 300, 300, 10*ms) {
		t.Error("Move of other pointer must be ignored")
	}
	if c.PointerUp(2, 10*ms) {
		t.Error("Release of other pointer must be ignored")
	}
	if c.State() != before || !c.Dragging() {
		t.Error("Events of other pointer must not change the state")
	}

	if !c.PointerUp(1, 20*ms) {
		t.Fatal("Release of captured pointer must end the gesture")
	}
	if c.Dragging() {
		t.Error("Controller must be idle after release")
	}
	if !c.PointerDown(2, 200, 200, 30*ms) {
		t.Error("New gesture must be accepted after release")
	}
}

func TestController_IdleEvents(t *testing.T) {
	c := newTestController(State{})
	if c.PointerMove(1, 10, 10, 10*ms) {
		t.Error("Move without gesture must be ignored")
	}
	if c.PointerUp(1, 10*ms) {
		t.Error("Release without gesture must be ignored")
	}
}

func TestController_Flick(t *testing.T) {
	c := newTestController(State{Azimuth: 1})

	c.PointerDown(1, 100, 100, 0)
	if !c.PointerMove(1, 110, 100, 16*ms) {
		t.Fatal("Move must be accepted")
	}
	s := c.State()
	if !almostEqual(s.Azimuth, 1-0.01*DefaultSensitivity) {
		t.Errorf("Rightward drag must decrease azimuth, expected: %v, got: %v", 1-0.01*DefaultSensitivity, s.Azimuth)
	}
	if s.Elevation != 0 {
		t.Errorf("Horizontal drag must not change elevation, got: %v", s.Elevation)
	}

	c.PointerUp(1, 16*ms)
	speedX := 0.01 / 16.0
	expectedRate := -speedX * DefaultVelocityTransfer
	s = c.State()
	if !almostEqual(s.AzimuthRate, expectedRate) {
		t.Fatalf("Expected azimuth rate: %v, got: %v", expectedRate, s.AzimuthRate)
	}
	if s.ElevationRate != 0 {
		t.Errorf("Expected zero elevation rate, got: %v", s.ElevationRate)
	}

	prev := math.Abs(s.AzimuthRate)
	var n int
	for c.Tick(16 * ms) {
		n++
		cur := math.Abs(c.State().AzimuthRate)
		if !almostEqual(prev-cur, 0.000008*16) {
			t.Fatalf("Rate must decay by damping*dt, expected: %v, got: %v", 0.000008*16, prev-cur)
		}
		prev = cur
		if n > 1000 {
			t.Fatal("Momentum must stop")
		}
	}
	if s := c.State(); s.AzimuthRate != 0 || s.ElevationRate != 0 {
		t.Errorf("Rates must be exactly zero, got: %+v", s)
	}
	if n != 9 {
		t.Errorf("Expected 9 moving ticks, got: %d", n)
	}
	if c.Tick(16 * ms) {
		t.Error("Tick must report no momentum once rates are zero")
	}
}

func TestController_Release(t *testing.T) {
	testCases := map[string]struct {
		dx, dy      float64
		release     time.Duration
		expectSeed  bool
		azimuthSign float64
		elevSign    float64
	}{
		"FreshRight":  {dx: 20, release: 20 * ms, expectSeed: true, azimuthSign: -1},
		"FreshLeft":   {dx: -20, release: 20 * ms, expectSeed: true, azimuthSign: 1},
		"FreshDown":   {dy: 20, release: 20 * ms, expectSeed: true, elevSign: 1},
		"FreshUp":     {dy: -20, release: 20 * ms, expectSeed: true, elevSign: -1},
		"JustInTime":  {dx: 20, dy: 20, release: 10*ms + DefaultFreshness - time.Microsecond, expectSeed: true, azimuthSign: -1, elevSign: 1},
		"AtThreshold": {dx: 20, dy: 20, release: 10*ms + DefaultFreshness},
		"HeldStill":   {dx: 20, dy: 20, release: time.Second},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			c := newTestController(State{})
			c.PointerDown(1, 500, 250, 0)
			c.PointerMove(1, 500+tt.dx, 250+tt.dy, 10*ms)
			c.PointerUp(1, tt.release)

			s := c.State()
			if !tt.expectSeed {
				if s.AzimuthRate != 0 || s.ElevationRate != 0 {
					t.Errorf("Stale release must not seed momentum, got: %+v", s)
				}
				return
			}
			expectedAz := -tt.dx / 1000 / 10 * DefaultVelocityTransfer
			expectedEl := tt.dy / 500 / 10 * DefaultVelocityTransfer
			if !almostEqual(s.AzimuthRate, expectedAz) || !almostEqual(s.ElevationRate, expectedEl) {
				t.Errorf("Expected rates (%v, %v), got (%v, %v)", expectedAz, expectedEl, s.AzimuthRate, s.ElevationRate)
			}
			if math.Copysign(1, s.AzimuthRate)*tt.azimuthSign < 0 && tt.azimuthSign != 0 {
				t.Errorf("Wrong azimuth rate sign: %v", s.AzimuthRate)
			}
			if math.Copysign(1, s.ElevationRate)*tt.elevSign < 0 && tt.elevSign != 0 {
				t.Errorf("Wrong elevation rate sign: %v", s.ElevationRate)
			}
		})
	}
}

func TestController_ReleaseWithoutMove(t *testing.T) {
	c := newTestController(State{AzimuthRate: 0.01})
	c.PointerDown(1, 100, 100, 0)
	c.PointerUp(1, 5*ms)
	if s := c.State(); s.AzimuthRate != 0 || s.ElevationRate != 0 {
		t.Errorf("Tap must leave the camera at rest, got: %+v", s)
	}
}

func TestController_ZeroIntervalSample(t *testing.T) {
	c := newTestController(State{Azimuth: 1})
	c.PointerDown(1, 100, 100, 10*ms)
	if c.PointerMove(1, 150, 150, 10*ms) {
		t.Error("Sample with zero interval must be skipped")
	}
	s := c.State()
	if s.Azimuth != 1 || s.Elevation != 0 {
		t.Errorf("Skipped sample must not change the state, got: %+v", s)
	}
	if math.IsNaN(s.AzimuthRate) || math.IsNaN(s.ElevationRate) {
		t.Fatal("Rates must not be NaN")
	}

	// The skipped displacement is carried into the next sample.
	if !c.PointerMove(1, 150, 100, 20*ms) {
		t.Fatal("Sample with positive interval must be accepted")
	}
	if expected := 1 - 50.0/1000*DefaultSensitivity; !almostEqual(c.State().Azimuth, expected) {
		t.Errorf("Expected azimuth: %v, got: %v", expected, c.State().Azimuth)
	}

	c.PointerUp(1, 20*ms)
	if s := c.State(); math.IsNaN(s.AzimuthRate) || math.IsInf(s.AzimuthRate, 0) {
		t.Errorf("Rates must be finite, got: %+v", s)
	}
}

func TestController_MinSampleInterval(t *testing.T) {
	c := New(Config{MinSampleInterval: 4 * ms})
	c.SetViewport(100, 100)
	c.PointerDown(1, 0, 0, 0)
	if c.PointerMove(1, 10, 0, 2*ms) {
		t.Error("Sample closer than the minimum interval must be skipped")
	}
	if !c.PointerMove(1, 10, 0, 4*ms) {
		t.Error("Sample at the minimum interval must be accepted")
	}
}

func TestController_ElevationRange(t *testing.T) {
	c := newTestController(State{})
	r := rand.New(rand.NewSource(2))

	c.PointerDown(1, 500, 250, 0)
	x, y := 500.0, 250.0
	ts := time.Duration(0)
	for i := 0; i < 5000; i++ {
		x += (r.Float64() - 0.5) * 400
		y += (r.Float64() - 0.5) * 400
		ts += time.Duration(1+r.Intn(30)) * ms
		c.PointerMove(1, x, y, ts)
		if e := c.State().Elevation; e < -math.Pi/2 || math.Pi/2 < e {
			t.Fatalf("Elevation out of range: %v", e)
		}
	}
	c.PointerUp(1, ts)

	for i := 0; i < 1000 && c.Tick(time.Duration(r.Intn(50))*ms); i++ {
		if e := c.State().Elevation; e < -math.Pi/2 || math.Pi/2 < e {
			t.Fatalf("Elevation out of range after tick: %v", e)
		}
	}
}

func TestController_WrapConsistency(t *testing.T) {
	for _, turns := range []float64{-3, -1, 0, 1, 5} {
		a := newTestController(State{Azimuth: 0.3, AzimuthRate: 0.01})
		b := newTestController(State{Azimuth: 0.3 + turns*2*math.Pi, AzimuthRate: 0.01})
		for i := 0; i < 100; i++ {
			a.Tick(16 * ms)
			b.Tick(16 * ms)
		}
		if !almostEqual(a.State().Azimuth, b.State().Azimuth) {
			t.Errorf("Turns %v: expected azimuth %v, got %v", turns, a.State().Azimuth, b.State().Azimuth)
		}
	}
}

func TestController_Poles(t *testing.T) {
	testCases := map[string]struct {
		stopAtPoles  bool
		expectedRate bool
	}{
		"KeepPushing": {false, true},
		"StopAtPoles": {true, false},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			c := New(Config{
				Damping:     Damping{Elevation: 0.000001},
				StopAtPoles: tt.stopAtPoles,
				Initial:     State{Elevation: 1.5, ElevationRate: 0.01},
			})
			c.Tick(16 * ms)
			s := c.State()
			if s.Elevation != math.Pi/2 {
				t.Errorf("Elevation must be clamped, got: %v", s.Elevation)
			}
			if (s.ElevationRate != 0) != tt.expectedRate {
				t.Errorf("Unexpected elevation rate: %v", s.ElevationRate)
			}
		})
	}
}

func TestController_NegativeDt(t *testing.T) {
	c := newTestController(State{Azimuth: 1, AzimuthRate: 0.001})
	c.Tick(-16 * ms)
	if s := c.State(); s.Azimuth != 1 || s.AzimuthRate != 0.001 {
		t.Errorf("Negative interval must be treated as zero, got: %+v", s)
	}
}

func TestController_Stop(t *testing.T) {
	t.Run("Dragging", func(t *testing.T) {
		c := newTestController(State{})
		c.PointerDown(1, 0, 0, 0)
		c.PointerMove(1, 100, 0, 10*ms)
		c.Stop()
		if c.Dragging() {
			t.Error("Stop must end the gesture")
		}
		if c.Moving() {
			t.Error("Stop must not seed momentum")
		}
		if c.PointerUp(1, 20*ms) {
			t.Error("Release after stop must be ignored")
		}
	})
	t.Run("Momentum", func(t *testing.T) {
		c := newTestController(State{AzimuthRate: 0.005, ElevationRate: -0.001})
		c.Stop()
		if c.Moving() {
			t.Errorf("Stop must zero the rates, got: %+v", c.State())
		}
		before := c.State()
		if c.Tick(time.Minute) {
			t.Error("Tick after stop must not request another frame")
		}
		if c.State() != before {
			t.Errorf("Expected state %+v after stop, got %+v", before, c.State())
		}
	})
}
