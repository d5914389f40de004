package main

import (
	"context"
	"net/http"
	"net/url"
	"syscall/js"

	"github.com/seqsense/orbitviewer/offline"
	"github.com/seqsense/orbitviewer/web"
)

// runWorker passes the install and fetch handlers to the service worker
// script and serves its events forever.
func runWorker() {
	self := js.Global()
	loc, err := url.Parse(self.Get("location").Get("href").String())
	if err != nil {
		println(err.Error())
		return
	}
	name := loc.Query().Get(web.CacheParam)
	if name == "" {
		name = offline.DefaultName
	}
	w := newWorker(offline.NewCacheStorage(name), loc.ResolveReference(&url.URL{Path: "./"}))

	install := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return newPromise(func() (interface{}, error) {
			ctx, cancel := context.WithTimeout(context.Background(), installTimeout)
			defer cancel()
			if err := w.install(ctx); err != nil {
				println("offline install: " + err.Error())
				return nil, err
			}
			return nil, nil
		})
	})
	fetch := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) != 1 {
			return js.Global().Get("Promise").Call("reject", errorToJS(errArgumentNumber))
		}
		jsReq := args[0]
		return newPromise(func() (interface{}, error) {
			req, err := requestFromJS(jsReq)
			if err != nil {
				return nil, err
			}
			return w.serve(req).JSResponse(), nil
		})
	})
	self.Call(web.ReadyFunc, map[string]interface{}{
		"install": install,
		"fetch":   fetch,
	})
	select {}
}

func requestFromJS(v js.Value) (*http.Request, error) {
	req, err := http.NewRequest(v.Get("method").String(), v.Get("url").String(), nil)
	if err != nil {
		return nil, err
	}
	each := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		req.Header.Add(args[1].String(), args[0].String())
		return nil
	})
	v.Get("headers").Call("forEach", each)
	each.Release()
	return req, nil
}

// registerWorker registers the service worker serving the page from the
// named cache. It returns false if service workers are not available.
func registerWorker(name string, logPrint func(interface{})) bool {
	sw := js.Global().Get("navigator").Get("serviceWorker")
	if sw.IsUndefined() {
		return false
	}
	var onOK, onErr js.Func
	onOK = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		onOK.Release()
		onErr.Release()
		return nil
	})
	onErr = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		onOK.Release()
		onErr.Release()
		if len(args) > 0 {
			logPrint("service worker: " + args[0].Call("toString").String())
		}
		return nil
	})
	sw.Call("register", web.WorkerURL(name)).Call("then", onOK, onErr)
	return true
}
