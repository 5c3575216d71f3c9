package reproject

import (
	"math"
)

// polarStereographic implements the ellipsoidal polar aspect of the
// stereographic projection (Snyder, Map Projections: A Working Manual,
// eqs. 21-33 to 21-40).
type polarStereographic struct {
	south bool
	lon0  float64 // radians
	a, e  float64
	scale float64 // ρ = scale * t
}

func newPolarStereographic(p Projection) *polarStereographic {
	f := 1 / InverseFlattening
	ps := &polarStereographic{
		south: p.Lat0 < 0,
		lon0:  p.Lon0 * math.Pi / 180,
		a:     SemiMajorAxis,
		e:     math.Sqrt(f * (2 - f)),
	}
	latTs := math.Abs(p.LatTs) * math.Pi / 180
	if math.Abs(latTs-math.Pi/2) < 1.e-12 {
		e := ps.e
		ps.scale = 2 * ps.a / math.Sqrt(math.Pow(1+e, 1+e)*math.Pow(1-e, 1-e))
	} else {
		ps.scale = ps.a * ps.m(latTs) / ps.t(latTs)
	}
	return ps
}

func (ps *polarStereographic) m(phi float64) float64 {
	sp := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-ps.e*ps.e*sp*sp)
}

func (ps *polarStereographic) t(phi float64) float64 {
	es := ps.e * math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-es)/(1+es), ps.e/2)
}

// Forward maps geographic degrees to projected metres.
func (ps *polarStereographic) Forward(lon, lat float64) (x, y float64, err error) {
	phi := lat * math.Pi / 180
	dlam := lon*math.Pi/180 - ps.lon0
	if ps.south {
		phi = -phi
	}
	rho := ps.scale * ps.t(phi)
	x = rho * math.Sin(dlam)
	if ps.south {
		y = rho * math.Cos(dlam)
	} else {
		y = -rho * math.Cos(dlam)
	}
	return
}

// Inverse maps projected metres to geographic degrees.
func (ps *polarStereographic) Inverse(x, y float64) (lon, lat float64, err error) {
	rho := math.Hypot(x, y)
	t := rho / ps.scale
	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 20; i++ {
		es := ps.e * math.Sin(phi)
		next := math.Pi/2 - 2*math.Atan(t*math.Pow((1-es)/(1+es), ps.e/2))
		if math.Abs(next-phi) < 1.e-14 {
			phi = next
			break
		}
		phi = next
	}
	var lam float64
	if ps.south {
		phi = -phi
		lam = ps.lon0 + math.Atan2(x, y)
	} else {
		lam = ps.lon0 + math.Atan2(x, -y)
	}
	lon = normalizeLongitude(lam * 180 / math.Pi)
	lat = phi * 180 / math.Pi
	return
}

func normalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
