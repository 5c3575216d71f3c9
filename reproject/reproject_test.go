package reproject

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	greenland  = Projection{Family: "stere", Lat0: 90, Lon0: -39, LatTs: 71}
	antarctica = Projection{Family: "stere", Lat0: -90, Lon0: 0, LatTs: -71}
	lonLat = Projection{Family: "longlat"}
)

func TestProj4(t *testing.T) {
	assert.Equal(t, "+proj=stere +lat_0=90 +lat_ts=71 +lon_0=-39"+
		" +k=1 +x_0=0 +y_0=0 +no_defs +a=6378137 +rf=298.257223563"+
		" +towgs84=0,0,0 +to_meter=1", greenland.Proj4())
	assert.True(t, Projection{}.IsZero())
	assert.Equal(t, "<none>", Projection{}.String())
}

func TestNewTransform_NotConfigured(t *testing.T) {
	_, err := NewTransform(Projection{}, greenland)
	assert.ErrorIs(t, err, ErrProjectionNotConfigured)
	_, err = NewTransform(greenland, Projection{})
	assert.ErrorIs(t, err, ErrProjectionNotConfigured)
}

func TestNewTransform_Identity(t *testing.T) {
	tr, err := NewTransform(greenland, greenland)
	require.NoError(t, err)
	x, y, err := tr(-123.5, 456.25)
	require.NoError(t, err)
	assert.Equal(t, -123.5, x)
	assert.Equal(t, 456.25, y)
}

func TestPolarStereographic_TrueScale(t *testing.T) {
	// On the central meridian at the latitude of true scale ρ = a m(φc)
	p := Projection{Family: "stere", Lat0: 90, Lon0: -45, LatTs: 70}
	tr, err := NewTransform(lonLat, p)
	require.NoError(t, err)
	x, y, err := tr(-45, 70)
	require.NoError(t, err)

	f := 1 / InverseFlattening
	e2 := f * (2 - f)
	s := math.Sin(70 * math.Pi / 180)
	rho := SemiMajorAxis * math.Cos(70*math.Pi/180) / math.Sqrt(1-e2*s*s)
	assert.InDelta(t, 0.0, x, 1.e-6)
	assert.InDelta(t, -rho, y, 1.e-6)

	// The pole maps to the origin
	x, y, err = tr(10, 90)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, x, 1.e-6)
	assert.InDelta(t, 0.0, y, 1.e-6)
}

func TestPolarStereographic_RoundTrip(t *testing.T) {
	for _, p := range []Projection{greenland, antarctica,
		{Family: "stere", Lat0: 90, Lon0: 0, LatTs: 90}} {
		fwd, err := NewTransform(lonLat, p)
		require.NoError(t, err)
		inv, err := NewTransform(p, lonLat)
		require.NoError(t, err)

		lat := 72.5
		if p.Lat0 < 0 {
			lat = -lat
		}
		x, y, err := fwd(-50.25, lat)
		require.NoError(t, err)
		lon, latOut, err := inv(x, y)
		require.NoError(t, err)
		assert.InDeltaf(t, -50.25, lon, 1.e-9, "%s", p)
		assert.InDeltaf(t, lat, latOut, 1.e-9, "%s", p)
	}
}

func TestPolarStereographic_SouthOrientation(t *testing.T) {
	tr, err := NewTransform(lonLat, antarctica)
	require.NoError(t, err)
	// Greenwich points to +y, 90E to +x in the south polar aspect
	x, y, err := tr(0, -80)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, x, 1.e-6)
	assert.Greater(t, y, 0.0)
	x, y, err = tr(90, -80)
	require.NoError(t, err)
	assert.Greater(t, x, 0.0)
	assert.InDelta(t, 0.0, y, 1.e-6)
}

func TestStereToStere(t *testing.T) {
	other := Projection{Family: "stere", Lat0: 90, Lon0: -45, LatTs: 70}
	there, err := NewTransform(greenland, other)
	require.NoError(t, err)
	back, err := NewTransform(other, greenland)
	require.NoError(t, err)

	x, y, err := there(-200000, -2000000)
	require.NoError(t, err)
	x, y, err = back(x, y)
	require.NoError(t, err)
	assert.InDelta(t, -200000.0, x, 1.e-5)
	assert.InDelta(t, -2000000.0, y, 1.e-5)
}

func TestProj4Fallback_Mercator(t *testing.T) {
	merc := Projection{Family: "merc", Lat0: 0, Lon0: 0, LatTs: 0}
	fwd, err := NewTransform(lonLat, merc)
	require.NoError(t, err)
	x, y, err := fwd(10, 0)
	require.NoError(t, err)
	assert.InDelta(t, SemiMajorAxis*10*math.Pi/180, x, 1.e-3)
	assert.InDelta(t, 0.0, y, 1.e-3)

	inv, err := NewTransform(merc, lonLat)
	require.NoError(t, err)
	lon, lat, err := inv(x, 1.e6)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, lon, 1.e-6)
	x2, y2, err := fwd(lon, lat)
	require.NoError(t, err)
	assert.InDelta(t, x, x2, 1.e-3)
	assert.InDelta(t, 1.e6, y2, 1.e-3)
}
