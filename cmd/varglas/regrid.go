package main

import (
	"fmt"
	"io"

	"github.com/notargets/varglas/adapter"
	"github.com/notargets/varglas/gridded"
	"github.com/notargets/varglas/mesh"
	"github.com/spf13/cobra"
)

// RegridConfig describes a projection onto a mesh and back onto the grid.
type RegridConfig struct {
	File     string
	Field    string
	Flip     bool
	Mesh     string
	Nearest  bool
	Sentinel float64
	Out      string
}

var regridCfg RegridConfig

var regridCmd = &cobra.Command{
	Use:   "regrid",
	Short: "Project a raster field onto a mesh and resample it onto the raster grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runRegrid(cmd.OutOrStdout(), dataDir, regridCfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", regridCfg.Out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regridCmd)
	f := regridCmd.Flags()
	f.StringVar(&regridCfg.File, "file", "", "raster archive holding the field")
	f.StringVar(&regridCfg.Field, "field", "", "field name, defaults to the file base name")
	f.BoolVar(&regridCfg.Flip, "flip", false, "reverse the raster row order")
	f.StringVar(&regridCfg.Mesh, "mesh", "", "gmsh or gambit mesh, defaults to a rectangle on the grid")
	f.BoolVar(&regridCfg.Nearest, "nearest", false, "project the nearest sample instead of the spline")
	f.Float64Var(&regridCfg.Sentinel, "sentinel", gridded.DefaultSentinel, "value written off the mesh")
	f.StringVar(&regridCfg.Out, "out", "regrid.nc", "output raster archive")
	_ = regridCmd.MarkFlagRequired("file")
}

func baseName(file, field string) string {
	if field != "" {
		return field
	}
	return gridded.FieldName(file)
}

// bind wraps g in an adapter on the mesh file, or on a rectangle over the
// grid when path is empty.
func bind(g *gridded.Group, path string) (*adapter.Adapter, error) {
	if path == "" {
		return adapter.NewRectangle(g, false)
	}
	m, err := mesh.ReadMeshFile(path)
	if err != nil {
		return nil, err
	}
	cg, err := mesh.NewFunctionSpace(m, mesh.CG, 1)
	if err != nil {
		return nil, err
	}
	return adapter.New(g, cg, nil)
}

func runRegrid(w io.Writer, dir string, cfg RegridConfig) error {
	g, err := gridded.Load(dir, []string{cfg.File}, gridded.Options{Flip: cfg.Flip})
	if err != nil {
		return err
	}
	name := baseName(cfg.File, cfg.Field)
	a, err := bind(g, cfg.Mesh)
	if err != nil {
		return err
	}
	opts := adapter.DefaultProjectOptions()
	opts.Nearest = cfg.Nearest
	f, err := a.Project(name, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "projected %s onto %s, integral %g\n", name, f.Space, f.Integral())
	return gridded.WriteGridFile(cfg.Out, g, name, f, cfg.Sentinel)
}
