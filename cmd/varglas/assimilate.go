package main

import (
	"fmt"

	"github.com/notargets/varglas/adapter"
	"github.com/notargets/varglas/assimilate"
	"github.com/notargets/varglas/gridded"
	"github.com/spf13/cobra"
)

// AssimilateConfig merges a secondary raster into a primary one.
type AssimilateConfig struct {
	Primary, Secondary string
	Flip               bool
	Mesh               string
	Radius             int
	Floor              float64
	Sentinel           float64
	Out                string
}

var assimCfg AssimilateConfig

var assimilateCmd = &cobra.Command{
	Use:   "assimilate",
	Short: "Merge a secondary raster into a primary one and write the result on the primary grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runAssimilate(dataDir, assimCfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", assimCfg.Out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assimilateCmd)
	def := assimilate.DefaultOptions()
	f := assimilateCmd.Flags()
	f.StringVar(&assimCfg.Primary, "primary", "", "primary raster archive")
	f.StringVar(&assimCfg.Secondary, "secondary", "", "secondary raster archive")
	f.BoolVar(&assimCfg.Flip, "flip", false, "reverse the raster row order of both archives")
	f.StringVar(&assimCfg.Mesh, "mesh", "", "gmsh or gambit mesh, defaults to a rectangle on the primary grid")
	f.IntVar(&assimCfg.Radius, "radius", def.BorderRadius, "border radius in secondary cells")
	f.Float64Var(&assimCfg.Floor, "floor", def.Floor, "largest secondary value counted as missing")
	f.Float64Var(&assimCfg.Sentinel, "sentinel", gridded.DefaultSentinel, "value written off the mesh")
	f.StringVar(&assimCfg.Out, "out", "assimilated.nc", "output raster archive")
	_ = assimilateCmd.MarkFlagRequired("primary")
	_ = assimilateCmd.MarkFlagRequired("secondary")
}

func runAssimilate(dir string, cfg AssimilateConfig) error {
	opts := gridded.Options{Flip: cfg.Flip}
	pg, err := gridded.Load(dir, []string{cfg.Primary}, opts)
	if err != nil {
		return err
	}
	sg, err := gridded.Load(dir, []string{cfg.Secondary}, opts)
	if err != nil {
		return err
	}
	// mesh coordinates are in the primary projection
	sg.ChangeProjection(pg)

	pa, err := bind(pg, cfg.Mesh)
	if err != nil {
		return err
	}
	sa, err := adapter.New(sg, pa.CG(), nil)
	if err != nil {
		return err
	}
	pname, sname := baseName(cfg.Primary, ""), baseName(cfg.Secondary, "")
	u, err := assimilate.Assimilate(pa, pname, sa, sname,
		assimilate.Options{BorderRadius: cfg.Radius, Floor: cfg.Floor})
	if err != nil {
		return err
	}
	return gridded.WriteGridFile(cfg.Out, pg, pname, u, cfg.Sentinel)
}
