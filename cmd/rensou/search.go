package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/rensou/internal/cli"
	"github.com/at-ishikawa/rensou/internal/export"
)

func newSearchCommand() *cobra.Command {
	var (
		explorerOptions explorerFlags
		svgPath         string
		pngPath         string
		exportEnabled   bool
		format          exportFormat
		outputPath      string
	)

	command := &cobra.Command{
		Use:   "search WORD",
		Short: "Search the concepts associated with a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			e, err := newExplorer(cfg, explorerOptions)
			if err != nil {
				return err
			}
			walkOptions, err := newWalkOptions(cfg)
			if err != nil {
				return err
			}

			walk := cli.NewWalkSession(cli.NewInteractiveCLI(cmd.InOrStdin(), cmd.OutOrStdout()), e, walkOptions)
			ctx := cmd.Context()
			if err := walk.Search(ctx, args[0]); err != nil {
				return fmt.Errorf("walk.Search() > %w", err)
			}

			mapOptions := cli.MapOptions{
				TemplatePath: cfg.Templates.ConceptMapTemplate,
				Fonts:        walkOptions.Fonts,
			}
			for _, path := range []string{svgPath, pngPath} {
				if path == "" {
					continue
				}
				if err := cli.WriteMap(path, e.Diagram(), mapOptions); err != nil {
					return fmt.Errorf("cli.WriteMap() > %w", err)
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "概念マップを保存しました: %s\n", path); err != nil {
					return fmt.Errorf("fmt.Fprintf() > %w", err)
				}
			}

			if !exportEnabled {
				return nil
			}
			if !cmd.Flags().Changed("format") {
				if inferred, err := export.FormatFromPath(outputPath); outputPath != "" && err == nil {
					format = exportFormat(inferred)
				} else if err := format.Set(cfg.Outputs.ExportFormat); err != nil {
					return err
				}
			}
			if err := walk.Export(ctx, export.Format(format), outputPath); err != nil {
				return fmt.Errorf("walk.Export() > %w", err)
			}
			return nil
		},
	}

	flags := command.Flags()
	explorerOptions.register(flags)
	flags.StringVar(&svgPath, "svg", "", "Save the concept map as SVG to this file")
	flags.StringVar(&pngPath, "png", "", "Save the concept map as PNG to this file")
	flags.BoolVar(&exportEnabled, "export", false, "Export the concept dictionary after the search")
	flags.Var(&format, "format", fmt.Sprintf("Export format. Possible values are %v. Defaults to the --output extension, then outputs.export_format", export.Formats))
	flags.StringVar(&outputPath, "output", "", "Export file path. Defaults to the output directory")
	return command
}
