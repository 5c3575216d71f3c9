// Package reproject transforms planar coordinates between the cartographic
// projections carried by raster archives.
package reproject

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// WGS84 ellipsoid used by every raster archive projection.
const (
	SemiMajorAxis     = 6378137.0
	InverseFlattening = 298.257223563
)

// ErrProjectionNotConfigured is returned when a transform is requested for
// a descriptor that names no projection family.
var ErrProjectionNotConfigured = errors.New("projection not configured")

// Projection describes a cartographic projection by its proj family name and
// three standard parameters, all in degrees.
type Projection struct {
	Family string  // proj family, e.g. "stere", "longlat", "lcc"
	Lat0   float64 // latitude of origin
	Lon0   float64 // central meridian
	LatTs  float64 // latitude of true scale
}

// IsZero reports whether p names no projection.
func (p Projection) IsZero() bool { return p.Family == "" }

// Proj4 renders p as a proj4 definition on the WGS84 ellipsoid.
func (p Projection) Proj4() string {
	if p.Family == "longlat" || p.Family == "latlong" {
		return "+proj=longlat +a=6378137 +rf=298.257223563 +towgs84=0,0,0 +no_defs"
	}
	return fmt.Sprintf("+proj=%s +lat_0=%s +lat_ts=%s +lon_0=%s"+
		" +k=1 +x_0=0 +y_0=0 +no_defs +a=6378137 +rf=298.257223563"+
		" +towgs84=0,0,0 +to_meter=1",
		p.Family, ftoa(p.Lat0), ftoa(p.LatTs), ftoa(p.Lon0))
}

func (p Projection) String() string {
	if p.IsZero() {
		return "<none>"
	}
	return p.Proj4()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// isPolarStereographic reports whether p is a polar aspect stereographic
// projection handled natively.
func (p Projection) isPolarStereographic() bool {
	return p.Family == "stere" &&
		math.Abs(math.Abs(p.Lat0)-90) < 1.e-10
}

func (p Projection) isGeographic() bool {
	return p.Family == "longlat" || p.Family == "latlong"
}
