package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ChicagoDave/citymesh/pkg/catalog"
	"github.com/ChicagoDave/citymesh/pkg/gltf"
	"github.com/ChicagoDave/citymesh/pkg/obj"
	"github.com/ChicagoDave/citymesh/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(e)
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			printResult(w)
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(res validation.Result) {
	fmt.Printf("  [%s] %s\n", res.Level, res.Message)
	if res.Path != "" {
		if res.ActualValue != nil {
			fmt.Printf("    -> %s = %v\n", res.Path, res.ActualValue)
		} else {
			fmt.Printf("    -> %s\n", res.Path)
		}
	}
	if res.Expected != "" {
		fmt.Printf("    expected: %s\n", res.Expected)
	}
	if res.ConflictWith != "" {
		fmt.Printf("    conflicts with: %s\n", res.ConflictWith)
	}
	for _, s := range res.Suggestions {
		fmt.Printf("    * %s\n", s)
	}
}

func printOBJResult(res obj.Result) {
	logger.Printf("%s: %d vertices, %d faces (%d parcels, %d roads, %d skipped)",
		res.OBJPath, res.Vertices, res.Faces, res.Stats.Parcels, res.Stats.Roads, res.Stats.SkippedRoads)
	if res.MTLPath != "" {
		logger.Printf("%s: materials", res.MTLPath)
	}
}

func printGLTFResult(res gltf.Result) {
	logger.Printf("%s: %s, %d materials, %s triangles, %s",
		res.Path, res.Mode, res.Materials, humanize.Comma(int64(res.Triangles)), humanize.Bytes(uint64(res.Bytes)))
	if res.BinPath != "" {
		logger.Printf("%s: buffer", res.BinPath)
	}
}

func printHistory(w io.Writer, entries []catalog.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No exports recorded.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%4d  %s  %s  %-4s  %9s tris  %8s  %s  (%s)\n",
			e.ID, e.CreatedAt.Local().Format(time.DateTime), shortID(e.LayoutID), e.Format,
			humanize.Comma(int64(e.Triangles)), humanize.Bytes(uint64(e.Bytes)), e.Path, humanize.Time(e.CreatedAt))
	}
}

func printLayouts(w io.Writer, layouts []catalog.Layout) {
	if len(layouts) == 0 {
		fmt.Fprintln(w, "No layouts recorded.")
		return
	}
	for _, l := range layouts {
		fmt.Fprintf(w, "%s  %dx%d  %d buildings  %d facilities  %d roads  first seen %s\n",
			l.ID, l.Size, l.Size, l.Buildings, l.Facilities, l.Roads, humanize.Time(l.FirstSeen))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
