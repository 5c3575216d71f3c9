package gridded

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"gonum.org/v1/gonum/mat"
)

// Raster archive layout: one NetCDF classic variable holding the grid and
// global attributes for its metadata.
const (
	dataVariable = "map_data"

	attrWest       = "map_western_edge"
	attrEast       = "map_eastern_edge"
	attrSouth      = "map_southern_edge"
	attrNorth      = "map_northern_edge"
	attrProjection = "projection"
	attrLat0       = "standard_lat"
	attrLon0       = "standard_lon"
	attrLatTs      = "lat_true_scale"
	attrName       = "map_name"
)

// ReadRasterFile opens and decodes a raster archive.
func ReadRasterFile(path string) (Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return Raster{}, err
	}
	defer f.Close()
	return ReadRaster(f)
}

// ReadRaster decodes a raster archive.
func ReadRaster(rw cdf.ReaderWriterAt) (r Raster, err error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return r, fmt.Errorf("opening netcdf: %w", err)
	}
	dims := f.Header.Lengths(dataVariable)
	if len(dims) != 2 {
		return r, fmt.Errorf("%s: expected 2 dimensions, found %d", dataVariable, len(dims))
	}
	ny, nx := dims[0], dims[1]
	if ny == 0 || nx == 0 {
		return r, fmt.Errorf("%s: empty grid (%d,%d)", dataVariable, ny, nx)
	}

	rd := f.Reader(dataVariable, nil, nil)
	buf := rd.Zero(-1)
	if _, err = rd.Read(buf); err != nil {
		return r, fmt.Errorf("reading %s: %w", dataVariable, err)
	}
	data, err := toFloat64(buf)
	if err != nil {
		return r, fmt.Errorf("%s: %w", dataVariable, err)
	}
	if len(data) != nx*ny {
		return r, fmt.Errorf("%s: dims are %d but array length is %d", dataVariable, nx*ny, len(data))
	}
	r.Data = mat.NewDense(ny, nx, data)

	for _, a := range []struct {
		key string
		dst *float64
	}{
		{attrWest, &r.West}, {attrEast, &r.East},
		{attrSouth, &r.South}, {attrNorth, &r.North},
	} {
		if *a.dst, err = floatAttribute(f.Header, a.key); err != nil {
			return r, err
		}
	}
	r.Name, _ = f.Header.GetAttribute("", attrName).(string)
	if family, ok := f.Header.GetAttribute("", attrProjection).(string); ok {
		r.Projection.Family = family
		if r.Projection.Lat0, err = floatAttribute(f.Header, attrLat0); err != nil {
			return r, err
		}
		if r.Projection.Lon0, err = floatAttribute(f.Header, attrLon0); err != nil {
			return r, err
		}
		if r.Projection.LatTs, err = floatAttribute(f.Header, attrLatTs); err != nil {
			return r, err
		}
	}
	return r, nil
}

func floatAttribute(h *cdf.Header, key string) (float64, error) {
	v := h.GetAttribute("", key)
	if v == nil {
		return 0, fmt.Errorf("missing attribute %s", key)
	}
	vals, err := toFloat64(v)
	if err != nil || len(vals) == 0 {
		return 0, fmt.Errorf("attribute %s: unsupported value %v", key, v)
	}
	return vals[0], nil
}

func toFloat64(v interface{}) ([]float64, error) {
	switch t := v.(type) {
	case []float64:
		return t, nil
	case []float32:
		out := make([]float64, len(t))
		for i, x := range t {
			out[i] = float64(x)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(t))
		for i, x := range t {
			out[i] = float64(x)
		}
		return out, nil
	case []int16:
		out := make([]float64, len(t))
		for i, x := range t {
			out[i] = float64(x)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type %T", v)
}

// WriteRaster encodes r as a raster archive.
func WriteRaster(w cdf.ReaderWriterAt, r Raster) error {
	ny, nx := r.Data.Dims()
	h := cdf.NewHeader([]string{"y", "x"}, []int{ny, nx})
	h.AddVariable(dataVariable, []string{"y", "x"}, []float64{0})
	h.AddAttribute("", attrWest, []float64{r.West})
	h.AddAttribute("", attrEast, []float64{r.East})
	h.AddAttribute("", attrSouth, []float64{r.South})
	h.AddAttribute("", attrNorth, []float64{r.North})
	if !r.Projection.IsZero() {
		h.AddAttribute("", attrProjection, r.Projection.Family)
		h.AddAttribute("", attrLat0, []float64{r.Projection.Lat0})
		h.AddAttribute("", attrLon0, []float64{r.Projection.Lon0})
		h.AddAttribute("", attrLatTs, []float64{r.Projection.LatTs})
	}
	if r.Name != "" {
		h.AddAttribute("", attrName, r.Name)
	}
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("creating netcdf: %w", err)
	}
	data := mat.DenseCopyOf(r.Data).RawMatrix().Data
	end := f.Header.Lengths(dataVariable)
	if _, err = f.Writer(dataVariable, make([]int, len(end)), end).Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", dataVariable, err)
	}
	return nil
}

// WriteRasterFile writes r to a new file at path.
func WriteRasterFile(path string, r Raster) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = WriteRaster(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
