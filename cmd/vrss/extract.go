// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vrss/internal/extract"
	"github.com/pdiddy/vrss/internal/store"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract preceding-vehicle signals from a scenario file",
	Long: `Extract reads scenario records from a file (or stdin when no file or "-"
is given) and writes one signal per record whose subject vehicle has an
agent strictly ahead of it and within the lateral corridor.

Output formats: text (space-separated fields), json, yaml, and logfmt.
Use --save to record the run in the SQLite run database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{"lateral-width": "extract.lateral_width"}); err != nil {
		return err
	}

	formatName, _ := cmd.Flags().GetString("format")
	format, err := extract.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	if err := extract.Validate(cfg.Extract); err != nil {
		return err
	}

	records, source, err := readScenarios(cmd, args)
	if err != nil {
		return err
	}

	signals := extract.Extract(records, cfg.Extract)
	summary := extract.Summarize(records, signals)
	log.WithField("records", summary.Records).
		WithField("matched", summary.Matched).
		WithField("skipped", summary.Skipped()).
		Info("extraction complete")

	if err := writeOutput(cmd, func(w io.Writer) error {
		return extract.Write(w, signals, format)
	}); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		return saveRun(context.Background(), store.Run{
			Source:       source,
			Records:      summary.Records,
			Matched:      summary.Matched,
			LateralWidth: cfg.Extract.LateralWidth,
		}, signals)
	}
	return nil
}

func init() {
	extractCmd.Flags().String("input-format", "json", "input format: json or yaml (inferred from .yaml/.yml/.json file extensions)")
	extractCmd.Flags().String("format", "text", "output format: text, json, yaml, or logfmt")
	extractCmd.Flags().Float64("lateral-width", 2, "exclusive lateral corridor width around the subject vehicle")
	extractCmd.Flags().Bool("save", false, "record the run in the run database")

	rootCmd.AddCommand(extractCmd)
}
