// Package frame coalesces render requests into display refresh frames.
package frame

import (
	"time"
)

// FrameRequester calls fn once on the next display refresh with the
// refresh timestamp, like requestAnimationFrame.
type FrameRequester interface {
	RequestFrame(fn func(ts time.Duration))
}

// Animator advances the animation state by dt and reports whether it
// needs another frame.
type Animator interface {
	Tick(dt time.Duration) bool
}

// Scheduler draws at most once per refresh and keeps requesting frames
// while the animator is moving. It must be used from a single goroutine.
type Scheduler struct {
	frames FrameRequester
	anim   Animator
	draw   func()

	pending bool
	started bool
	last    time.Duration
	nFrames int
}

func NewScheduler(frames FrameRequester, anim Animator, draw func()) *Scheduler {
	return &Scheduler{
		frames: frames,
		anim:   anim,
		draw:   draw,
	}
}

// RequestRender schedules a frame unless one is already pending.
func (s *Scheduler) RequestRender() {
	if s.pending {
		return
	}
	s.pending = true
	s.frames.RequestFrame(s.frame)
}

func (s *Scheduler) Pending() bool {
	return s.pending
}

// Frames returns the number of executed frames.
func (s *Scheduler) Frames() int {
	return s.nFrames
}

func (s *Scheduler) frame(ts time.Duration) {
	var dt time.Duration
	if s.started && ts > s.last {
		dt = ts - s.last
	}
	if !s.started || ts > s.last {
		s.last = ts
	}
	s.started = true
	s.nFrames++

	moving := s.anim.Tick(dt)
	s.draw()

	if moving {
		s.frames.RequestFrame(s.frame)
		return
	}
	// The next frame after idle starts a new animation with zero elapsed time.
	s.pending = false
	s.started = false
}
