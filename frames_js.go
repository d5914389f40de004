package main

import (
	"syscall/js"
	"time"
)

// animationFrames requests frames with requestAnimationFrame and
// forwards the timestamps to the main loop.
type animationFrames struct {
	cb js.Func
	fn func(time.Duration)
	C  chan time.Duration
}

func newAnimationFrames() *animationFrames {
	a := &animationFrames{
		C: make(chan time.Duration),
	}
	a.cb = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		a.C <- msToDuration(args[0].Float())
		return nil
	})
	return a
}

func (a *animationFrames) RequestFrame(fn func(time.Duration)) {
	a.fn = fn
	js.Global().Call("requestAnimationFrame", a.cb)
}

// run executes the requested frame. It must be called from the main loop.
func (a *animationFrames) run(ts time.Duration) {
	fn := a.fn
	a.fn = nil
	if fn != nil {
		fn(ts)
	}
}
