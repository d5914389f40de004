package main

import (
	webgl "github.com/seqsense/webgl-go"
)

func gpuInfo(gl *webgl.WebGL) (info string) {
	defer func() {
		if r := recover(); r != nil {
			info = "GPU: unknown"
		}
	}()

	ri, ok := gl.GetExtension("WEBGL_debug_renderer_info")
	if !ok {
		return "GPU: hidden by the browser privacy setting"
	}
	return "GPU: " +
		gl.GetParameter(ri.Get("UNMASKED_VENDOR_WEBGL").Int()).String() + " " +
		gl.GetParameter(ri.Get("UNMASKED_RENDERER_WEBGL").Int()).String()
}
