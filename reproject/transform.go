package reproject

import (
	"fmt"

	"github.com/ctessum/geom/proj"
)

// Transformer maps a coordinate pair from one projection into another.
type Transformer func(x, y float64) (float64, float64, error)

// geographic converts between a projection's planar coordinates and
// longitude/latitude in degrees.
type geographic interface {
	Forward(lon, lat float64) (x, y float64, err error)
	Inverse(x, y float64) (lon, lat float64, err error)
}

type identity struct{}

func (identity) Forward(lon, lat float64) (float64, float64, error) { return lon, lat, nil }
func (identity) Inverse(x, y float64) (float64, float64, error)     { return x, y, nil }

// proj4 routes projections without a native implementation through
// github.com/ctessum/geom/proj.
type proj4 struct {
	fwd, inv proj.Transformer
}

func (p *proj4) Forward(lon, lat float64) (float64, float64, error) { return p.fwd(lon, lat) }
func (p *proj4) Inverse(x, y float64) (float64, float64, error)     { return p.inv(x, y) }

func newGeographic(p Projection) (geographic, error) {
	switch {
	case p.isGeographic():
		return identity{}, nil
	case p.isPolarStereographic():
		return newPolarStereographic(p), nil
	}
	sr, err := proj.Parse(p.Proj4())
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", p.Proj4(), err)
	}
	geo, err := proj.Parse(Projection{Family: "longlat"}.Proj4())
	if err != nil {
		return nil, err
	}
	fwd, err := geo.NewTransform(sr)
	if err != nil {
		return nil, fmt.Errorf("building forward %s transform: %w", p.Family, err)
	}
	inv, err := sr.NewTransform(geo)
	if err != nil {
		return nil, fmt.Errorf("building inverse %s transform: %w", p.Family, err)
	}
	return &proj4{fwd: fwd, inv: inv}, nil
}

// NewTransform returns a Transformer taking coordinates expressed in src
// into dst, chained through geographic coordinates on the WGS84 ellipsoid.
func NewTransform(src, dst Projection) (Transformer, error) {
	if src.IsZero() || dst.IsZero() {
		return nil, ErrProjectionNotConfigured
	}
	if src == dst {
		return func(x, y float64) (float64, float64, error) { return x, y, nil }, nil
	}
	from, err := newGeographic(src)
	if err != nil {
		return nil, err
	}
	to, err := newGeographic(dst)
	if err != nil {
		return nil, err
	}
	return func(x, y float64) (float64, float64, error) {
		lon, lat, err := from.Inverse(x, y)
		if err != nil {
			return 0, 0, fmt.Errorf("inverse %s: %w", src.Family, err)
		}
		xo, yo, err := to.Forward(lon, lat)
		if err != nil {
			return 0, 0, fmt.Errorf("forward %s: %w", dst.Family, err)
		}
		return xo, yo, nil
	}, nil
}
