package main

import (
	"fmt"
	"os"
	"sort"

	"iges2bezier/internal/iges"
	"iges2bezier/internal/jobs"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: inspectiges file.igs...")
		os.Exit(2)
	}

	for _, arg := range os.Args[1:] {
		g, err := iges.Parse(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error %s: %v\n", arg, err)
			continue
		}
		fmt.Printf("\n=== %s (entities=%d) ===\n", arg, g.Len())
		printGlobal(g.Global)
		printHistogram(g)

		fmt.Println("--- ENTITIES ---")
		for i := 0; i < g.Len(); i++ {
			e, err := g.At(i)
			h := e.Header()
			status := ""
			if err != nil {
				status = "  DECODE ERROR"
			}
			fmt.Printf("  DE %-6d %-4d form %-2d %-28s%s%s\n", h.Seq, h.Type, h.Form, iges.TypeName(h.Type), summary(e), status)
		}

		if errs := g.Errors(); len(errs) > 0 {
			fmt.Printf("--- DECODE ERRORS (%d) ---\n", len(errs))
			for _, err := range errs {
				fmt.Printf("  %v\n", err)
			}
		}

		js, buildErrs := jobs.Build(g)
		fmt.Printf("--- JOBS (%d) ---\n", len(js))
		for _, j := range js {
			curves := 0
			for _, l := range j.Loops {
				curves += len(l.Curves)
			}
			placed := ""
			if !j.Placement.IsIdentity() {
				placed = "  transformed"
			}
			fmt.Printf("  #%d DE %d (%s) surface DE %d degree %dx%d, %d loops, %d curves, uv [%g..%g]x[%g..%g]%s\n",
				j.Index, j.Seq, iges.TypeName(j.Type), j.SurfaceSeq,
				j.Surface.DegreeU, j.Surface.DegreeV, len(j.Loops), curves,
				j.Box.U0, j.Box.U1, j.Box.V0, j.Box.V1, placed)
		}
		for _, err := range buildErrs {
			fmt.Printf("  skipped: %v\n", err)
		}
	}
}

func printGlobal(gl iges.Global) {
	fmt.Println("--- GLOBAL ---")
	fmt.Printf("  product:  %s\n", gl.SenderProductID)
	fmt.Printf("  file:     %s\n", gl.FileName)
	fmt.Printf("  system:   %s (%s)\n", gl.SystemID, gl.Preprocessor)
	fmt.Printf("  units:    %s (flag %d, scale %g)\n", gl.UnitName, gl.UnitFlag, gl.Scale)
	fmt.Printf("  date:     %s\n", gl.Date)
	fmt.Printf("  author:   %s / %s\n", gl.Author, gl.Organization)
	fmt.Printf("  version:  %d, resolution %g, max coord %g\n", gl.Version, gl.Resolution, gl.MaxCoord)
	fmt.Printf("  delims:   %q %q\n", gl.ParamDelim, gl.RecordDelim)
}

func printHistogram(g *iges.Graph) {
	counts := map[int]int{}
	for i := 0; i < g.Len(); i++ {
		e, _ := g.At(i)
		counts[e.Header().Type]++
	}
	types := make([]int, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Ints(types)

	fmt.Println("--- TYPES ---")
	for _, t := range types {
		fmt.Printf("  %4d %-28s %d\n", t, iges.TypeName(t), counts[t])
	}
}

func summary(e iges.Entity) string {
	switch v := e.(type) {
	case *iges.Line:
		return fmt.Sprintf("%v -> %v", v.Start, v.End)
	case *iges.CompositeCurve:
		return fmt.Sprintf("members %v", v.Members)
	case *iges.RationalBSplineCurve:
		return fmt.Sprintf("degree %d, %d points, polynomial=%t closed=%t", v.M, v.K+1, v.Polynomial, v.Closed)
	case *iges.RationalBSplineSurface:
		return fmt.Sprintf("degree %dx%d, %dx%d points, polynomial=%t", v.M1, v.M2, v.K1+1, v.K2+1, v.Polynomial)
	case *iges.TransformationMatrix:
		return fmt.Sprintf("R %v T %v", v.R, v.T)
	case *iges.Boundary:
		return fmt.Sprintf("surface DE %d, %d curves", v.Surface, len(v.Curves))
	case *iges.ParametricCurve:
		return fmt.Sprintf("surface DE %d, param DE %d, model DE %d", v.Surface, v.ParamCurve, v.ModelCurve)
	case *iges.BoundedSurface:
		return fmt.Sprintf("surface DE %d, boundaries %v", v.Surface, v.Boundaries)
	case *iges.TrimmedSurface:
		if !v.HasOuter {
			return fmt.Sprintf("surface DE %d, domain outer, inner %v", v.Surface, v.Inner)
		}
		return fmt.Sprintf("surface DE %d, outer DE %d, inner %v", v.Surface, v.Outer, v.Inner)
	case *iges.Generic:
		return fmt.Sprintf("%d params", len(v.Params))
	}
	return ""
}
