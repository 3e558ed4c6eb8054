package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var logger = log.New(os.Stderr, "[citymesh] ", log.LstdFlags)

func main() {
	rootCmd := &cobra.Command{
		Use:           "citymesh",
		Short:         "Export city layouts as OBJ, glTF and GLB assets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(packCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Print(err)
		os.Exit(1)
	}
}

func exportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export [layout-file]",
		Short: "Write 3D assets and a summary report for a layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), args[0], cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML export configuration file")
	f.StringVarP(&opts.outputDir, "output", "o", ".", "output directory")
	f.StringVarP(&opts.formats, "formats", "f", "obj", "comma-separated formats: obj, gltf, glb")
	f.StringVar(&opts.prefix, "prefix", "city", "output file name prefix")
	f.BoolVar(&opts.noSummary, "no-summary", false, "skip the summary report")
	f.BoolVar(&opts.check, "check", false, "validate written documents against their schemas")
	f.StringVar(&opts.catalog, "catalog", "", "SQLite catalog recording each export")
	return cmd
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [layout-file]",
		Short: "Print the summary report of a layout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSummary(args[0])
		},
	}
}

func validateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [layout-file]",
		Short: "Check a layout without exporting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func historyCmd() *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history [catalog-file]",
		Short: "List exports recorded in a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.layoutID, "layout", "", "only list exports of this layout ID and show its stored summary")
	f.BoolVar(&opts.layouts, "layouts", false, "list recorded layouts instead of exports")
	f.BoolVar(&opts.asJSON, "json", false, "print as JSON")
	return cmd
}

func packCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack [layout-file] [dest]",
		Short: "Rewrite a layout as YAML, zstd-compressed when dest ends in .zst",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPack(args[0], args[1])
		},
	}
}
