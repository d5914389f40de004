package offline

import (
	"context"
	"errors"
	"net/http"
	"syscall/js"
	"time"
)

// CacheStorage is a Store backed by the browser Cache Storage API.
type CacheStorage struct {
	name string
}

func NewCacheStorage(name string) *CacheStorage {
	return &CacheStorage{name: name}
}

func (s *CacheStorage) open(ctx context.Context) (js.Value, error) {
	caches := js.Global().Get("caches")
	if caches.IsUndefined() {
		return js.Value{}, errors.New("offline: Cache Storage is not available")
	}
	return await(ctx, caches.Call("open", s.name))
}

func (s *CacheStorage) Match(ctx context.Context, k Key) (*Entry, bool, error) {
	if k.Method != http.MethodGet {
		return nil, false, nil
	}
	c, err := s.open(ctx)
	if err != nil {
		return nil, false, err
	}
	res, err := await(ctx, c.Call("match", k.URL))
	if err != nil {
		return nil, false, err
	}
	if res.IsUndefined() || res.IsNull() {
		return nil, false, nil
	}

	header := make(http.Header)
	each := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		header.Add(args[1].String(), args[0].String())
		return nil
	})
	res.Get("headers").Call("forEach", each)
	each.Release()
	buf, err := await(ctx, res.Call("arrayBuffer"))
	if err != nil {
		return nil, false, err
	}
	array := js.Global().Get("Uint8Array").New(buf)
	body := make([]byte, array.Get("byteLength").Int())
	js.CopyBytesToGo(body, array)

	return &Entry{
		Key:    k,
		Status: res.Get("status").Int(),
		Header: header,
		Body:   body,
		Stored: time.Now(),
	}, true, nil
}

func (s *CacheStorage) Put(ctx context.Context, e *Entry) error {
	return s.PutAll(ctx, []*Entry{e})
}

// PutAll builds every response before storing any of them.
// Cache Storage has no transactions, so a failing put may leave earlier
// entries of the batch stored.
func (s *CacheStorage) PutAll(ctx context.Context, ee []*Entry) error {
	c, err := s.open(ctx)
	if err != nil {
		return err
	}
	var puts []interface{}
	resps := make([]js.Value, len(ee))
	for i, e := range ee {
		if e == nil {
			return errNilEntry
		}
		resps[i] = e.JSResponse()
	}
	for i, e := range ee {
		puts = append(puts, c.Call("put", e.Key.URL, resps[i]))
	}
	_, err = await(ctx, js.Global().Get("Promise").Call("all", puts))
	return err
}

// JSResponse returns the entry as a JavaScript Response.
func (e *Entry) JSResponse() js.Value {
	body := js.Null()
	switch e.Status {
	case http.StatusSwitchingProtocols, http.StatusNoContent, http.StatusResetContent, http.StatusNotModified:
	default:
		array := js.Global().Get("Uint8Array").New(len(e.Body))
		js.CopyBytesToJS(array, e.Body)
		body = array
	}

	headers := js.Global().Get("Headers").New()
	for k, vv := range e.Header {
		for _, v := range vv {
			headers.Call("append", k, v)
		}
	}
	return js.Global().Get("Response").New(body, map[string]interface{}{
		"status":  e.Status,
		"headers": headers,
	})
}

func await(ctx context.Context, p js.Value) (js.Value, error) {
	type result struct {
		v   js.Value
		err error
	}
	ch := make(chan result, 1)
	onOK := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		var v js.Value
		if len(args) > 0 {
			v = args[0]
		}
		ch <- result{v: v}
		return nil
	})
	onErr := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		msg := "promise rejected"
		if len(args) > 0 && args[0].Type() == js.TypeObject {
			msg = args[0].Call("toString").String()
		}
		ch <- result{err: errors.New(msg)}
		return nil
	})
	p.Call("then", onOK, onErr)

	select {
	case r := <-ch:
		onOK.Release()
		onErr.Release()
		return r.v, r.err
	case <-ctx.Done():
		// The callbacks may still be called after the context is done.
		return js.Value{}, ctx.Err()
	}
}
