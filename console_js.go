package main

import (
	"errors"
	"syscall/js"
)

var errContextLostEvent = errors.New("received context lost event")

type consoleRequest struct {
	line string
	res  chan<- consoleResult
}

type consoleResult struct {
	out string
	err error
}

func errorToJS(err error) js.Value {
	return js.Global().Get("Error").New(err.Error())
}

// newPromise returns a Promise settled by fn running on a new goroutine.
func newPromise(fn func() (interface{}, error)) js.Value {
	var executor js.Func
	executor = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		executor.Release()
		resolve, reject := args[0], args[1]
		go func() {
			v, err := fn()
			if err != nil {
				reject.Invoke(errorToJS(err))
				return
			}
			resolve.Invoke(v)
		}()
		return nil
	})
	return js.Global().Get("Promise").New(executor)
}

// bindConsole exposes window.viewerConsole(line) returning a Promise.
func bindConsole(ch chan<- consoleRequest) {
	js.Global().Set("viewerConsole",
		js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			if len(args) != 1 {
				return js.Global().Get("Promise").Call("reject", errorToJS(errArgumentNumber))
			}
			line := args[0].String()
			return newPromise(func() (interface{}, error) {
				res := make(chan consoleResult, 1)
				ch <- consoleRequest{line: line, res: res}
				r := <-res
				return r.out, r.err
			})
		}),
	)
}
