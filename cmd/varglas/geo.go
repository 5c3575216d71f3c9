package main

import (
	"fmt"
	"os"

	"github.com/notargets/varglas/gridded"
	"github.com/notargets/varglas/meshgen"
	"github.com/spf13/cobra"
)

// GeoConfig describes one contour to geometry run.
type GeoConfig struct {
	File   string
	Field  string
	Flip   bool
	Iso    float64
	Stride int
	Window int
	Lc     float64
	Height float64
	Layers int
	Out    string
}

var geoCfg GeoConfig

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Trace a contour of a raster field and write it as a gmsh .geo file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runGeo(dataDir, geoCfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", geoCfg.Out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(geoCmd)
	f := geoCmd.Flags()
	f.StringVar(&geoCfg.File, "file", "", "raster archive holding the field")
	f.StringVar(&geoCfg.Field, "field", "", "field name, defaults to the file base name")
	f.BoolVar(&geoCfg.Flip, "flip", false, "reverse the raster row order")
	f.Float64Var(&geoCfg.Iso, "iso", 0, "contour value")
	f.IntVar(&geoCfg.Stride, "stride", 1, "keep every stride-th contour vertex")
	f.IntVar(&geoCfg.Window, "window", 10, "self intersection search window, 0 to skip")
	f.Float64Var(&geoCfg.Lc, "lc", 1000, "characteristic mesh length")
	f.Float64Var(&geoCfg.Height, "height", 1, "extrusion height")
	f.IntVar(&geoCfg.Layers, "layers", 0, "extrusion layers, 0 for a 2D geometry")
	f.StringVar(&geoCfg.Out, "out", "mesh.geo", "output .geo file")
	_ = geoCmd.MarkFlagRequired("file")
}

func runGeo(dir string, cfg GeoConfig) error {
	g, err := gridded.Load(dir, []string{cfg.File}, gridded.Options{Flip: cfg.Flip})
	if err != nil {
		return err
	}
	name := baseName(cfg.File, cfg.Field)
	out, err := os.Create(cfg.Out)
	if err != nil {
		return err
	}
	gen := meshgen.NewGenerator(g, out)
	if err = writeGeo(gen, name, cfg); err != nil {
		out.Close()
		return err
	}
	return nil
}

func writeGeo(gen *meshgen.Generator, name string, cfg GeoConfig) error {
	if err := gen.ExtractContour(name, cfg.Iso, cfg.Stride); err != nil {
		return err
	}
	if cfg.Window > 0 {
		if err := gen.RemoveSelfIntersections(cfg.Window); err != nil {
			return err
		}
	}
	if err := gen.WriteBoundary(cfg.Lc, true); err != nil {
		return err
	}
	if cfg.Layers > 0 {
		if err := gen.Extrude(cfg.Height, cfg.Layers); err != nil {
			return err
		}
	}
	return gen.Finalize()
}
