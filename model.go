package main

import (
	"errors"
	"io"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
)

var errEmptyModel = errors.New("model has no points")

type rect struct {
	min, max mat.Vec3
}

func (r rect) Center() mat.Vec3 {
	return r.min.Add(r.max).Mul(0.5)
}

// Size returns the length of the diagonal.
func (r rect) Size() float32 {
	return r.max.Sub(r.min).Norm()
}

func (r *rect) IsValid() bool {
	return !(r.min[0] > r.max[0] ||
		r.min[1] > r.max[1] ||
		r.min[2] > r.max[2])
}

// model is a point cloud with x, y, z and label fields.
type model struct {
	pp     *pc.PointCloud
	bounds rect
}

func readModel(r io.Reader) (*model, error) {
	pp, err := pc.Unmarshal(r)
	if err != nil {
		return nil, err
	}
	return newModel(pp)
}

func newModel(pp *pc.PointCloud) (*model, error) {
	if pp.Points == 0 {
		return nil, errEmptyModel
	}
	pp, err := normalizeFields(pp)
	if err != nil {
		return nil, err
	}
	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	min, max, err := pc.MinMaxVec3(it)
	if err != nil {
		return nil, err
	}
	return &model{
		pp:     pp,
		bounds: rect{min: min, max: max},
	}, nil
}

// normalizeFields converts the cloud to x, y, z, label layout.
// Points without label field get label 0.
func normalizeFields(pp *pc.PointCloud) (*pc.PointCloud, error) {
	if len(pp.Fields) == 4 && pp.Fields[0] == "x" && pp.Fields[1] == "y" && pp.Fields[2] == "z" && pp.Fields[3] == "label" {
		return pp, nil
	}
	i, err := pp.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	iL, _ := pp.Uint32Iterator("label")

	out := &pc.PointCloud{
		PointCloudHeader: pc.PointCloudHeader{
			Version:   pp.Version,
			Fields:    []string{"x", "y", "z", "label"},
			Size:      []int{4, 4, 4, 4},
			Type:      []string{"F", "F", "F", "U"},
			Count:     []int{1, 1, 1, 1},
			Viewpoint: pp.Viewpoint,
			Width:     pp.Points,
			Height:    1,
		},
		Points: pp.Points,
	}
	out.Data = make([]byte, pp.Points*out.Stride())

	j, err := out.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	jL, err := out.Uint32Iterator("label")
	if err != nil {
		return nil, err
	}
	for i.IsValid() && j.IsValid() {
		j.SetVec3(i.Vec3())
		j.Incr()
		i.Incr()
		if iL != nil {
			jL.SetUint32(iL.Uint32())
			jL.Incr()
			iL.Incr()
		}
	}
	return out, nil
}

// Labels returns the label of each point.
func (m *model) Labels() []uint32 {
	it, err := m.pp.Uint32Iterator("label")
	if err != nil {
		return make([]uint32, m.pp.Points)
	}
	labels := make([]uint32, 0, m.pp.Points)
	for ; it.IsValid(); it.Incr() {
		labels = append(labels, it.Uint32())
	}
	return labels
}

// OrbitRadius returns the default camera distance, which sees the whole model.
func (m *model) OrbitRadius() float64 {
	return float64(m.bounds.Size())
}

// Clip returns near and far clip distances.
func (m *model) Clip() (near, far float32) {
	s := m.bounds.Size()
	if s == 0 {
		return 0.01, 100
	}
	return s / 100, s * 100
}
