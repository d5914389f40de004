package orbit

import (
	"math"

	"github.com/seqsense/pcgol/mat"
)

// Pose is a camera placement derived from the orbit state.
type Pose struct {
	Eye, Center, Up mat.Vec3
	// View transforms world coordinates into camera coordinates.
	View mat.Mat4
}

// Pose returns the camera looking at the orbit center from the current
// azimuth and elevation.
func (c *Controller) Pose() Pose {
	return PoseAt(c.state.Azimuth, c.state.Elevation, c.cfg.Radius, c.cfg.Center)
}

func PoseAt(azimuth, elevation, radius float64, center mat.Vec3) Pose {
	sa, ca := math.Sincos(azimuth)
	se, ce := math.Sincos(elevation)

	// offset from the center; y is up
	o := [3]float64{sa * ce * radius, se * radius, ca * ce * radius}
	cen := [3]float64{float64(center[0]), float64(center[1]), float64(center[2])}
	eye := [3]float64{cen[0] + o[0], cen[1] + o[1], cen[2] + o[2]}

	// Direction of increasing elevation. Unlike a fixed world up it stays
	// perpendicular to the line of sight at the poles.
	up := [3]float64{-sa * se, ce, -ca * se}

	f := normalize([3]float64{-o[0], -o[1], -o[2]})
	if radius == 0 {
		f = [3]float64{-sa * ce, -se, -ca * ce}
	}
	s := normalize(cross(f, up))
	u := cross(s, f)

	return Pose{
		Eye:    vec3(eye),
		Center: center,
		Up:     vec3(u),
		View: mat.Mat4{
			float32(s[0]), float32(u[0]), float32(-f[0]), 0,
			float32(s[1]), float32(u[1]), float32(-f[1]), 0,
			float32(s[2]), float32(u[2]), float32(-f[2]), 0,
			float32(-dot(s, eye)), float32(-dot(u, eye)), float32(dot(f, eye)), 1,
		},
	}
}

func vec3(v [3]float64) mat.Vec3 {
	return mat.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(dot(v, v))
	if n == 0 {
		return v
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}
