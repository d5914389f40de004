package main

import (
	"syscall/js"
	"time"
)

type pointerEventType int

const (
	pointerDown pointerEventType = iota
	pointerMove
	pointerLost
)

type pointerEvent struct {
	typ  pointerEventType
	id   int
	x, y float64
	t    time.Duration
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func performanceNow() time.Duration {
	return msToDuration(js.Global().Get("performance").Call("now").Float())
}

// bindPointer forwards pointer events of the canvas to ch.
// Release and cancel are observed through lostpointercapture.
func bindPointer(canvas js.Value, ch chan<- pointerEvent) {
	on := func(name string, typ pointerEventType) {
		canvas.Call("addEventListener", name,
			js.FuncOf(func(this js.Value, args []js.Value) interface{} {
				e := args[0]
				ch <- pointerEvent{
					typ: typ,
					id:  e.Get("pointerId").Int(),
					x:   e.Get("clientX").Float(),
					y:   e.Get("clientY").Float(),
					t:   performanceNow(),
				}
				return nil
			}),
		)
	}
	on("pointerdown", pointerDown)
	on("pointermove", pointerMove)
	on("lostpointercapture", pointerLost)
}

func handlePointer(v *viewer, canvas js.Value, e pointerEvent) {
	switch e.typ {
	case pointerDown:
		if v.pointerDown(e.id, e.x, e.y, e.t) {
			canvas.Call("setPointerCapture", e.id)
			setCursor(canvas, cursorGrabbing)
		}
	case pointerMove:
		v.pointerMove(e.id, e.x, e.y, e.t)
	case pointerLost:
		if v.pointerUp(e.id, e.t) {
			setCursor(canvas, cursorGrab)
		}
	}
}
