package main

import (
	"fmt"
	"io"
	"math"

	"github.com/notargets/varglas/gridded"
	"github.com/spf13/cobra"
)

var infoFlip bool

var infoCmd = &cobra.Command{
	Use:   "info <file>...",
	Short: "Print the grid, projection and value range of raster archives",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd.OutOrStdout(), dataDir, args, gridded.Options{Flip: infoFlip})
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoFlip, "flip", false, "reverse the row order of every raster")
}

func runInfo(w io.Writer, dir string, files []string, opts gridded.Options) error {
	g, err := gridded.Load(dir, files, opts)
	if err != nil {
		return err
	}
	if err = g.Finalize(); err != nil {
		return err
	}
	fmt.Fprintln(w, g)
	for _, name := range g.Names() {
		f, err := g.Field(name)
		if err != nil {
			return err
		}
		lo, hi, nan := math.Inf(1), math.Inf(-1), 0
		for _, v := range f.Data.RawMatrix().Data {
			if math.IsNaN(v) {
				nan++
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		fmt.Fprintf(w, "%-20s min %-14g max %-14g NaN %d\n", name, lo, hi, nan)
	}
	return nil
}
