// Package meshgen extracts the outline of a gridded field and writes it as
// a gmsh geometry description with optional extrusion and mesh size fields.
package meshgen

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/notargets/varglas/gridded"
)

// Logger receives progress messages. Drivers may replace it.
var Logger = log.New(os.Stderr, "meshgen: ", log.LstdFlags)

var (
	// ErrInvalidState is returned for an operation called out of order.
	ErrInvalidState = errors.New("invalid generator state")

	// ErrNoContour is returned when the field never crosses the iso value.
	ErrNoContour = errors.New("no contour at iso value")
)

type State uint8

const (
	Empty State = iota
	ContourExtracted
	IntersectionsResolved
	GeoWritten
	Extruded
	FieldsAdded
	Finalized
)

func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case ContourExtracted:
		return "ContourExtracted"
	case IntersectionsResolved:
		return "IntersectionsResolved"
	case GeoWritten:
		return "GeoWritten"
	case Extruded:
		return "Extruded"
	case FieldsAdded:
		return "FieldsAdded"
	case Finalized:
		return "Finalized"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Generator writes one geometry file per contour. The sink belongs to the
// generator and is closed by Finalize when it implements io.Closer.
type Generator struct {
	group *gridded.Group
	sink  io.Writer
	state State

	poly     []geom.Point
	resolved bool
	surface  int
	loop     string

	nextField int
	minList   []int
	err       error
}

func NewGenerator(g *gridded.Group, sink io.Writer) *Generator {
	return &Generator{group: g, sink: sink, nextField: 1}
}

func (gen *Generator) State() State { return gen.state }

// Polyline returns a copy of the current boundary polyline. It implicitly
// closes back to its first vertex.
func (gen *Generator) Polyline() []geom.Point {
	return append([]geom.Point(nil), gen.poly...)
}

func (gen *Generator) expect(op string, allowed ...State) error {
	for _, s := range allowed {
		if gen.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s in state %s", ErrInvalidState, op, gen.state)
}

func (gen *Generator) printf(format string, args ...interface{}) {
	if gen.err != nil {
		return
	}
	_, gen.err = fmt.Fprintf(gen.sink, format, args...)
}

// flush reports and clears the first write error since the last call.
func (gen *Generator) flush(op string) error {
	err := gen.err
	gen.err = nil
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// ExtractContour traces the iso contour of the named field, keeps the
// component with the most vertices, takes every stride-th vertex and drops
// the last one.
func (gen *Generator) ExtractContour(name string, iso float64, stride int) error {
	if err := gen.expect("ExtractContour", Empty); err != nil {
		return err
	}
	if stride < 1 {
		return fmt.Errorf("stride must be positive, got %d", stride)
	}
	if err := gen.group.Finalize(); err != nil {
		return err
	}
	f, err := gen.group.Field(name)
	if err != nil {
		return err
	}
	cs := newIsoline(gen.group.X(), gen.group.Y(), f.Data, iso).components()
	c := longest(cs)
	if len(c) == 0 {
		return fmt.Errorf("%w %g in %q", ErrNoContour, iso, name)
	}
	var poly []geom.Point
	for i := 0; i < len(c); i += stride {
		poly = append(poly, c[i])
	}
	gen.poly = poly[:len(poly)-1]
	gen.state = ContourExtracted
	Logger.Printf("contour %g of %q: %d components, kept %d of %d vertices",
		iso, name, len(cs), len(gen.poly), len(c))
	return nil
}

// RemoveSelfIntersections drops the vertices of crossing segment pairs
// within window positions of each other in a single pass. Crossings created
// or missed by that pass are left in place.
func (gen *Generator) RemoveSelfIntersections(window int) error {
	if err := gen.expect("RemoveSelfIntersections", ContourExtracted, IntersectionsResolved); err != nil {
		return err
	}
	n := len(gen.poly)
	gen.poly = dropCrossings(gen.poly, window)
	gen.resolved = true
	gen.state = IntersectionsResolved
	Logger.Printf("removed %d vertices at self intersections", n-len(gen.poly))
	if hasCrossing(gen.poly, window) {
		Logger.Printf("crossings remain within a window of %d", window)
	}
	return nil
}

// WriteBoundary writes the points, lines, line loop and plane surface of
// the polyline with characteristic length lc.
func (gen *Generator) WriteBoundary(lc float64, extendFromBoundary bool) error {
	if err := gen.expect("WriteBoundary", ContourExtracted, IntersectionsResolved); err != nil {
		return err
	}
	pts := len(gen.poly)
	if pts < 3 {
		return fmt.Errorf("boundary needs at least 3 points, have %d", pts)
	}
	gen.printf("// Mesh spacing\nlc = %s;\n\n", ftoa(lc))
	gen.printf("// Points\n")
	for i, p := range gen.poly {
		gen.printf("Point(%d) = {%s,%s,0,lc};\n", i, ftoa(p.X), ftoa(p.Y))
	}
	gen.printf("\n// Lines\n")
	for i := 0; i < pts-1; i++ {
		gen.printf("Line(%d) = {%d,%d};\n", i, i, i+1)
	}
	gen.printf("Line(%d) = {%d,%d};\n\n", pts-1, pts-1, 0)

	ids := make([]string, pts)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	gen.loop = "{" + strings.Join(ids, ",") + "}"
	gen.printf("// Line loop\nLine Loop(%d) = %s;\n\n", pts+1, gen.loop)

	gen.surface = pts + 2
	gen.printf("// Surface\nPlane Surface(%d) = {%d};\n\n", gen.surface, pts+1)
	if !extendFromBoundary {
		gen.printf("Mesh.CharacteristicLengthExtendFromBoundary = 0;\n\n")
	}
	if err := gen.flush("writing boundary"); err != nil {
		return err
	}
	gen.state = GeoWritten
	return nil
}

// Extrude turns the surface into a volume of the given height.
func (gen *Generator) Extrude(height float64, layers int) error {
	if err := gen.expect("Extrude", GeoWritten); err != nil {
		return err
	}
	gen.printf("Extrude {0,0,%s}{Surface{%d};Layers{%d};}\n\n", ftoa(height), gen.surface, layers)
	if err := gen.flush("extruding"); err != nil {
		return err
	}
	gen.state = Extruded
	return nil
}

func (gen *Generator) newField(op string) (int, error) {
	if err := gen.expect(op, GeoWritten, Extruded, FieldsAdded); err != nil {
		return 0, err
	}
	id := gen.nextField
	gen.nextField++
	return id, nil
}

func (gen *Generator) addField(op string, id int, background bool) (int, error) {
	if err := gen.flush(op); err != nil {
		return 0, err
	}
	if background {
		gen.minList = append(gen.minList, id)
	}
	gen.state = FieldsAdded
	return id, nil
}

// AddBox sets the mesh size inside a box to vin and outside it to lc.
func (gen *Generator) AddBox(vin, xmin, xmax, ymin, ymax, zmin, zmax float64) (int, error) {
	id, err := gen.newField("AddBox")
	if err != nil {
		return 0, err
	}
	gen.printf("Field[%d]      =  Box;\n", id)
	gen.printf("Field[%d].VIn  =  %s;\n", id, ftoa(vin))
	gen.printf("Field[%d].VOut =  lc;\n", id)
	gen.printf("Field[%d].XMax =  %s;\n", id, ftoa(xmax))
	gen.printf("Field[%d].XMin =  %s;\n", id, ftoa(xmin))
	gen.printf("Field[%d].YMax =  %s;\n", id, ftoa(ymax))
	gen.printf("Field[%d].YMin =  %s;\n", id, ftoa(ymin))
	gen.printf("Field[%d].ZMax =  %s;\n", id, ftoa(zmax))
	gen.printf("Field[%d].ZMin =  %s;\n\n", id, ftoa(zmin))
	return gen.addField("adding box", id, true)
}

// AddEdgeAttractor measures distance to the boundary. It only serves as
// the input of a threshold field.
func (gen *Generator) AddEdgeAttractor() (int, error) {
	id, err := gen.newField("AddEdgeAttractor")
	if err != nil {
		return 0, err
	}
	gen.printf("Field[%d]              = Attractor;\n", id)
	gen.printf("Field[%d].NodesList    = %s;\n", id, gen.loop)
	gen.printf("Field[%d].NNodesByEdge = 100;\n\n", id)
	return gen.addField("adding attractor", id, false)
}

// AddThreshold grades the mesh size from lcMin to lcMax between distMin
// and distMax of field ifield.
func (gen *Generator) AddThreshold(ifield int, lcMin, lcMax, distMin, distMax float64) (int, error) {
	if err := gen.expect("AddThreshold", GeoWritten, Extruded, FieldsAdded); err != nil {
		return 0, err
	}
	if ifield < 1 || ifield >= gen.nextField {
		return 0, fmt.Errorf("threshold input field %d not defined", ifield)
	}
	id, err := gen.newField("AddThreshold")
	if err != nil {
		return 0, err
	}
	gen.printf("Field[%d]         = Threshold;\n", id)
	gen.printf("Field[%d].IField  = %d;\n", id, ifield)
	gen.printf("Field[%d].LcMin   = %s;\n", id, ftoa(lcMin))
	gen.printf("Field[%d].LcMax   = %s;\n", id, ftoa(lcMax))
	gen.printf("Field[%d].DistMin = %s;\n", id, ftoa(distMin))
	gen.printf("Field[%d].DistMax = %s;\n\n", id, ftoa(distMax))
	return gen.addField("adding threshold", id, true)
}

// Finalize makes the minimum of the box and threshold fields the background
// mesh size and closes the sink. Without such fields lc stays uniform.
func (gen *Generator) Finalize() error {
	if err := gen.expect("Finalize", GeoWritten, Extruded, FieldsAdded); err != nil {
		return err
	}
	if len(gen.minList) > 0 {
		id := gen.nextField
		gen.nextField++
		ids := make([]string, len(gen.minList))
		for i, f := range gen.minList {
			ids[i] = strconv.Itoa(f)
		}
		gen.printf("Field[%d]            = Min;\n", id)
		gen.printf("Field[%d].FieldsList = {%s};\n", id, strings.Join(ids, ", "))
		gen.printf("Background Field    = %d;\n\n", id)
	}
	err := gen.flush("finalizing")
	if c, ok := gen.sink.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}
	gen.state = Finalized
	Logger.Printf("finished geometry with %d points and %d fields", len(gen.poly), gen.nextField-1)
	return nil
}

// Restart replaces the sink and returns to the state right after contour
// extraction, keeping the polyline. An unfinished previous sink is closed.
func (gen *Generator) Restart(sink io.Writer) error {
	if gen.state == Empty {
		return fmt.Errorf("%w: Restart before ExtractContour", ErrInvalidState)
	}
	if c, ok := gen.sink.(io.Closer); ok && gen.state != Finalized {
		if err := c.Close(); err != nil {
			return fmt.Errorf("closing previous sink: %w", err)
		}
	}
	gen.sink = sink
	gen.err = nil
	gen.surface, gen.loop = 0, ""
	gen.nextField, gen.minList = 1, nil
	gen.state = ContourExtracted
	if gen.resolved {
		gen.state = IntersectionsResolved
	}
	Logger.Printf("restarted geometry output")
	return nil
}
