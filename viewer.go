package main

import (
	"time"

	"github.com/seqsense/orbitviewer/config"
	"github.com/seqsense/orbitviewer/frame"
	"github.com/seqsense/orbitviewer/orbit"
)

type renderer interface {
	SetColors(rgba []float32)
	Draw(pose orbit.Pose)
}

// viewer connects pointer input, the orbit controller, and the render scheduler.
// All methods must be called from the main loop.
type viewer struct {
	cfg    *config.Config
	model  *model
	labels []uint32
	ctrl   *orbit.Controller
	sched  *frame.Scheduler
	parts  *partTable
	r      renderer

	colorsDirty bool
}

func newViewer(cfg *config.Config, m *model, frames frame.FrameRequester, r renderer) (*viewer, error) {
	parts, err := newPartTable(cfg)
	if err != nil {
		return nil, err
	}
	v := &viewer{
		cfg:         cfg,
		model:       m,
		labels:      m.Labels(),
		ctrl:        orbit.New(cfg.OrbitConfig(m.bounds.Center(), m.OrbitRadius())),
		parts:       parts,
		r:           r,
		colorsDirty: true,
	}
	v.sched = frame.NewScheduler(frames, v.ctrl, v.draw)
	return v, nil
}

func (v *viewer) draw() {
	if v.colorsDirty {
		v.r.SetColors(v.parts.ColorBuffer(v.labels))
		v.colorsDirty = false
	}
	v.r.Draw(v.ctrl.Pose())
}

func (v *viewer) render() {
	v.sched.RequestRender()
}

func (v *viewer) resize(width, height int) {
	v.ctrl.SetViewport(width, height)
	v.render()
}

// pointerDown returns true if the pointer started a drag and should be captured.
func (v *viewer) pointerDown(id int, x, y float64, t time.Duration) bool {
	return v.ctrl.PointerDown(id, x, y, t)
}

func (v *viewer) pointerMove(id int, x, y float64, t time.Duration) {
	if v.ctrl.PointerMove(id, x, y, t) {
		v.render()
	}
}

// pointerUp returns true if the drag of the pointer ended.
func (v *viewer) pointerUp(id int, t time.Duration) bool {
	if !v.ctrl.PointerUp(id, t) {
		return false
	}
	v.render()
	return true
}

// stop ends the gesture and the momentum, e.g. when the page is hidden
// or the rendering context is lost.
func (v *viewer) stop() {
	v.ctrl.Stop()
}

func (v *viewer) setColor(part, color string) error {
	changed, err := v.parts.SetColor(part, color)
	if err != nil {
		return err
	}
	if changed {
		v.colorsDirty = true
		v.render()
	}
	return nil
}

func (v *viewer) setState(s orbit.State) {
	v.ctrl.SetState(s)
	v.render()
}
