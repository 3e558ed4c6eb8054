package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ChicagoDave/citymesh/pkg/analytics"
	"github.com/ChicagoDave/citymesh/pkg/catalog"
	"github.com/ChicagoDave/citymesh/pkg/city"
	"github.com/ChicagoDave/citymesh/pkg/config"
	"github.com/ChicagoDave/citymesh/pkg/gltf"
	"github.com/ChicagoDave/citymesh/pkg/material"
	"github.com/ChicagoDave/citymesh/pkg/obj"
	"github.com/ChicagoDave/citymesh/pkg/output"
	"github.com/ChicagoDave/citymesh/pkg/scene"
	"github.com/ChicagoDave/citymesh/pkg/schema"
	"github.com/ChicagoDave/citymesh/pkg/validation"
)

type exportOptions struct {
	configPath string
	outputDir  string
	formats    string
	prefix     string
	noSummary  bool
	check      bool
	catalog    string
}

// resolve builds the export config: file values first, then any flag the
// user set explicitly.
func (o exportOptions) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputDir = o.outputDir
	}
	if flags.Changed("prefix") {
		cfg.Prefix = o.prefix
	}
	if flags.Changed("formats") {
		formats, err := config.ParseFormats(o.formats)
		if err != nil {
			return cfg, err
		}
		cfg.Formats = formats
	}
	if flags.Changed("no-summary") {
		cfg.Summary = !o.noSummary
	}
	if flags.Changed("check") {
		cfg.Check = o.check
	}
	if flags.Changed("catalog") {
		cfg.Catalog = o.catalog
	}
	cfg.Normalize()
	return cfg, nil
}

// loadAndValidate loads the layout and runs layout validation.
func loadAndValidate(path string) (*city.Layout, *validation.Report, error) {
	l, err := city.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading layout: %w", err)
	}
	return l, validation.ValidateLayout(l), nil
}

func runValidate(path string, asJSON bool) error {
	l, report, err := loadAndValidate(path)
	if err != nil {
		return err
	}
	if report.Valid {
		preview, err := renderPreview(l, material.Default())
		if err != nil {
			return err
		}
		report.Merge(preview)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Printf("Layout %s\n\n", l.ID())
		printValidationReport(report)
	}

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

// renderPreview walks l without building geometry and reports what each
// material would receive, in first-use order.
func renderPreview(l *city.Layout, reg *material.Registry) (*validation.Report, error) {
	tally := scene.NewTally()
	st, err := scene.Walk(l, reg, tally)
	if err != nil {
		return nil, err
	}

	r := validation.NewReport()
	for _, name := range tally.Order {
		r.AddInfo(validation.Result{
			Level:       validation.LevelRender,
			Message:     fmt.Sprintf("%s: %d boxes, %d triangles", name, tally.Boxes[name], tally.Triangles(name)),
			Path:        name,
			ActualValue: tally.Boxes[name],
		})
	}
	r.AddInfo(validation.Result{
		Level:   validation.LevelRender,
		Message: fmt.Sprintf("%d parcels, %d roads (%d skipped), %d triangles", st.Parcels, st.Roads, st.SkippedRoads, st.Triangles()),
	})
	return r, nil
}

// runPack rewrites a valid layout. The layout ID survives the rewrite.
func runPack(src, dest string) error {
	l, report, err := loadAndValidate(src)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("layout has validation errors: %w", report.Err())
	}
	if err := city.Save(dest, l); err != nil {
		return err
	}
	logger.Printf("Layout %s packed to %s (%s)", l.ID(), dest, humanize.Bytes(uint64(fileSize(dest))))
	return nil
}

func runSummary(path string) error {
	l, err := city.Load(path)
	if err != nil {
		return fmt.Errorf("loading layout: %w", err)
	}
	data, err := analytics.Marshal(analytics.Summarize(l))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// runExport writes every configured format and the summary. Each output
// is attempted even when an earlier one failed.
func runExport(ctx context.Context, path string, cfg config.Config) error {
	l, report, err := loadAndValidate(path)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("layout has validation errors: %w", report.Err())
	}
	for _, w := range report.Warnings {
		logger.Printf("warning: %s: %s", w.Path, w.Message)
	}

	if err := output.EnsureDir(cfg.OutputDir); err != nil {
		return err
	}
	logger.Printf("Layout %s (%dx%d, %d buildings, %d roads)", l.ID(), l.Size, l.Size, len(l.Buildings), len(l.Roads))

	var (
		cat      *catalog.Catalog
		layoutID string
	)
	if cfg.Catalog != "" {
		if cat, err = catalog.Open(cfg.Catalog); err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()
		if layoutID, err = cat.RecordLayout(ctx, l); err != nil {
			return err
		}
	}

	reg := material.Default()
	var errs []error
	for _, f := range cfg.Formats {
		entry, err := exportFormat(l, reg, cfg, f)
		if err != nil {
			logger.Printf("%s export failed: %v", f, err)
			errs = append(errs, fmt.Errorf("%s: %w", f, err))
			continue
		}
		if cat != nil {
			entry.LayoutID = layoutID
			if _, err := cat.RecordExport(ctx, entry); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if cfg.Summary {
		data, err := exportSummary(l, cfg)
		if err != nil {
			logger.Printf("summary failed: %v", err)
			errs = append(errs, fmt.Errorf("summary: %w", err))
		} else if cat != nil {
			if err := cat.RecordSummary(ctx, layoutID, data); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// exportFormat writes one format and returns its catalog entry, without
// the layout ID.
func exportFormat(l *city.Layout, reg *material.Registry, cfg config.Config, f config.Format) (catalog.Entry, error) {
	path := cfg.Path(f)
	entry := catalog.Entry{Format: string(f), Path: path}

	switch f {
	case config.FormatOBJ:
		res, err := obj.Export(l, reg, path)
		if res.Faces > 0 || err == nil {
			printOBJResult(res)
		}
		if err != nil {
			return entry, err
		}
		entry.Triangles = res.Stats.Triangles()
		entry.Bytes = fileSize(res.OBJPath) + fileSize(res.MTLPath)
		return entry, nil

	case config.FormatGLTF, config.FormatGLB:
		mode := gltf.Separated
		if f == config.FormatGLB {
			mode = gltf.Unified
		}
		res, err := gltf.Export(l, reg, path, mode)
		if err != nil {
			return entry, err
		}
		printGLTFResult(res)
		if cfg.Check {
			if err := checkGLTF(path); err != nil {
				return entry, err
			}
		}
		entry.Triangles = res.Triangles
		entry.Bytes = fileSize(res.Path) + fileSize(res.BinPath)
		return entry, nil
	}
	return entry, fmt.Errorf("unsupported format %q", f)
}

// fileSize returns the size of path, or 0 when it is empty or missing.
func fileSize(path string) int64 {
	if path == "" {
		return 0
	}
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

// checkGLTF validates the JSON of a written document against the schema,
// byte for byte as it was stored.
func checkGLTF(path string) error {
	data, err := gltf.ReadJSON(path)
	if err != nil {
		return err
	}
	if err := schema.ValidateGLTF(data); err != nil {
		return fmt.Errorf("schema check of %s: %w", path, err)
	}
	logger.Printf("%s: schema check passed", path)
	return nil
}

// exportSummary writes the summary report and returns its encoding.
func exportSummary(l *city.Layout, cfg config.Config) ([]byte, error) {
	data, err := analytics.Marshal(analytics.Summarize(l))
	if err != nil {
		return nil, err
	}
	path := cfg.SummaryPath()
	if err := output.WriteFile(path, data); err != nil {
		return nil, err
	}
	logger.Printf("Summary written to %s", path)

	if cfg.Check {
		if err := schema.ValidateSummary(data); err != nil {
			return nil, fmt.Errorf("schema check of %s: %w", path, err)
		}
	}
	return data, nil
}

type historyOptions struct {
	layoutID string
	layouts  bool
	asJSON   bool
}

// historyView is the JSON form of an export listing. Summary is set when a
// single layout was requested and the catalog holds its report.
type historyView struct {
	Exports []catalog.Entry `json:"exports"`
	Summary json.RawMessage `json:"summary,omitempty"`
}

func runHistory(ctx context.Context, w io.Writer, path string, opts historyOptions) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	cat, err := catalog.Open(path)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer cat.Close()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if opts.layouts {
		layouts, err := cat.Layouts(ctx)
		if err != nil {
			return err
		}
		if opts.asJSON {
			return enc.Encode(layouts)
		}
		printLayouts(w, layouts)
		return nil
	}

	entries, err := cat.Exports(ctx, opts.layoutID)
	if err != nil {
		return err
	}
	var summary []byte
	if opts.layoutID != "" {
		data, ok, err := cat.Summary(ctx, opts.layoutID)
		if err != nil {
			return err
		}
		if ok {
			summary = data
		}
	}

	if opts.asJSON {
		if entries == nil {
			entries = []catalog.Entry{}
		}
		return enc.Encode(historyView{Exports: entries, Summary: summary})
	}
	printHistory(w, entries)
	if summary != nil {
		fmt.Fprintf(w, "\nSummary:\n%s", summary)
	}
	return nil
}
