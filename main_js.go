package main

import (
	"context"
	"fmt"
	"net/url"
	"syscall/js"
	"time"

	webgl "github.com/seqsense/webgl-go"

	"github.com/seqsense/orbitviewer/config"
	"github.com/seqsense/orbitviewer/offline"
)

const installTimeout = 2 * time.Minute

func main() {
	window := js.Global()
	doc := window.Get("document")
	if doc.IsUndefined() {
		runWorker()
		return
	}
	canvas := doc.Call("getElementById", "viewerCanvas")

	logDiv := doc.Call("getElementById", "log")
	logPrint := func(msg interface{}) {
		println(fmt.Sprint(msg))
		if logDiv.IsNull() {
			return
		}
		html := logDiv.Get("innerHTML").String()
		logDiv.Set("innerHTML", fmt.Sprintf("%s%v<br/>", html, msg))
	}

	base, err := url.Parse(window.Get("location").Get("href").String())
	if err != nil {
		logPrint(err)
		return
	}
	newCache := func(name string) *offline.Cache {
		return offline.New(offline.NewCacheStorage(name), offline.WithBaseURL(base))
	}
	cache := newCache(offline.DefaultName)

	ctx := context.Background()
	cfg, err := loadConfig(ctx, cache.Client(), base, configPath)
	if err != nil {
		logPrint(err)
		cfg = config.Default()
	}
	if cfg.Cache.Name != offline.DefaultName {
		cache = newCache(cfg.Cache.Name)
	}
	if !registerWorker(cfg.Cache.Name, logPrint) {
		// Without service workers, only the requests of the viewer are cached.
		go func() {
			ctx, cancel := context.WithTimeout(ctx, installTimeout)
			defer cancel()
			if err := cache.Install(ctx, cfg.Cache.Manifest); err != nil {
				logPrint(fmt.Errorf("offline install: %w", err))
				return
			}
			println("offline assets installed")
		}()
	}

	logPrint("loading model")
	m, err := loadModel(ctx, cache.Client(), base, cfg.Model)
	if err != nil {
		logPrint(err)
		return
	}

	gl, err := webgl.New(canvas)
	if err != nil {
		logPrint(err)
		return
	}
	println(gpuInfo(gl))

	r, err := newGLRenderer(gl, canvas, m, cfg)
	if err != nil {
		logPrint(err)
		return
	}
	frames := newAnimationFrames()
	v, err := newViewer(cfg, m, frames, r)
	if err != nil {
		logPrint(err)
		return
	}
	cons := &console{v: v}

	chPointer := make(chan pointerEvent)
	bindPointer(canvas, chPointer)
	setCursor(canvas, cursorGrab)

	chColor := make(chan colorChoice)
	bindMenus(doc, v, chColor, logPrint)

	chConsole := make(chan consoleRequest)
	bindConsole(chConsole)

	chResize := make(chan struct{})
	window.Call("addEventListener", "resize",
		js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			chResize <- struct{}{}
			return nil
		}),
	)
	chContextLost := make(chan struct{})
	canvas.Call("addEventListener", "webglcontextlost",
		js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			args[0].Call("preventDefault")
			chContextLost <- struct{}{}
			return nil
		}),
	)

	chHidden := make(chan struct{})
	doc.Call("addEventListener", "visibilitychange",
		js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			if doc.Get("hidden").Bool() {
				chHidden <- struct{}{}
			}
			return nil
		}),
	)

	resize := func() {
		width := window.Get("innerWidth").Int()
		height := window.Get("innerHeight").Int()
		r.Resize(width, height)
		v.resize(width, height)
	}
	resize()
	logPrint("model loaded")

	for {
		select {
		case ts := <-frames.C:
			frames.run(ts)
		case e := <-chPointer:
			handlePointer(v, canvas, e)
		case c := <-chColor:
			if err := v.setColor(c.part, c.color); err != nil {
				logPrint(err)
			}
		case req := <-chConsole:
			out, err := cons.Run(req.line)
			req.res <- consoleResult{out: out, err: err}
		case <-chResize:
			resize()
		case <-chContextLost:
			logPrint(errContextLostEvent)
			v.stop()
		case <-chHidden:
			v.stop()
			setCursor(canvas, cursorGrab)
		}
	}
}
