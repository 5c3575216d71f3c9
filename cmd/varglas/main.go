// Command varglas inspects raster archives, extracts gmsh geometries from
// them and projects their fields onto finite element meshes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "varglas",
	Short: "Gridded data input and projection for ice sheet meshes",
	Long: `varglas loads gridded raster archives, trims their NaN margins,
reprojects and interpolates their fields, and either writes a gmsh
geometry traced from a contour or resamples a mesh projection back onto
the raster grid.`,
	SilenceUsage: true,
}

var (
	dataDir string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", ".", "directory holding the raster archives")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
