// Package artifact writes the text files a job produces.
package artifact

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"iges2bezier/internal/tessellate"
	"iges2bezier/internal/trimpath"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteSurface writes patches as vertex records followed by one
// "p 3 3" face record of 16 one-based indices per patch.
func WriteSurface(w io.Writer, patches []tessellate.Patch) error {
	bw := bufio.NewWriter(w)
	for _, p := range patches {
		for _, row := range p.Grid {
			for _, v := range row {
				fmt.Fprintf(bw, "v %s %s %s %s\n", num(v.X), num(v.Y), num(v.Z), num(v.W))
				fmt.Fprintf(bw, "vt %s %s\n", num(v.U), num(v.V))
			}
		}
	}
	idx := 1
	for range patches {
		bw.WriteString("p 3 3\n")
		for i := 0; i < 16; i++ {
			fmt.Fprintf(bw, "%d/%d\n", idx, idx)
			idx++
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("artifact: write surface: %w", err)
	}
	return nil
}

// WriteCurves writes all trim paths on one line.
func WriteCurves(w io.Writer, paths []trimpath.Path) error {
	if _, err := io.WriteString(w, trimpath.Join(paths)+"\n"); err != nil {
		return fmt.Errorf("artifact: write curves: %w", err)
	}
	return nil
}
