package main

const vsSource = `#version 300 es
	layout (location = 0) in vec4 aVertexPosition;
	layout (location = 1) in vec4 aVertexColor;
	uniform mat4 uModelViewMatrix;
	uniform mat4 uProjectionMatrix;
	uniform float uPointSizeBase;
	vec4 viewPosition;
	out lowp vec4 vColor;

	void main(void) {
		if (aVertexColor[3] == 0.0) {
			gl_Position = vec4(-1, -1, 0, 0);
			gl_PointSize = 0.0;
			return;
		}
		viewPosition = uModelViewMatrix * aVertexPosition;
		gl_Position = uProjectionMatrix * viewPosition;
		gl_PointSize = clamp(uPointSizeBase / length(viewPosition), 1.0, uPointSizeBase);

		vColor = aVertexColor;
	}
`

const fsSource = `#version 300 es
	in lowp vec4 vColor;
	out lowp vec4 outColor;

	void main(void) {
		if (vColor[3] == 0.0) {
			discard;
		}
		outColor = vColor;
	}
`
