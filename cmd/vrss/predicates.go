// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vrss/internal/extract"
	"github.com/pdiddy/vrss/internal/rss"
	"github.com/pdiddy/vrss/pkg/types"
)

var predicatesCmd = &cobra.Command{
	Use:   "predicates [file]",
	Short: "Evaluate RSS safety predicates on extracted signals",
	Long: `Predicates extracts rear/front vehicle signals like extract does and then
evaluates the eight responsibility-sensitive safety predicates for each:

  p0  d_posMin                 p4  -a_minBr - a_b
  p1  y_f - y_b                p5  a_f + a_maxBr
  p2  y_f - y_b - d_posMin     p6  x_f - x_b + d_lat
  p3  a_maxAcc - a_b           p7  x_b - x_f + d_lat

A predicate holds when its value is positive. Text output prints the eight
values per line; json and yaml output name each predicate and its truth.
Use --normalize to divide each value by its reference magnitude
(250, 100, 350, 30, 30, 30, 10, 10), scaling typical values into [-1, 1].`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPredicates,
}

func runPredicates(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"lateral-width": "extract.lateral_width",
		"rho":           "rss.rho",
		"a-max-acc":     "rss.a_max_acc",
		"a-max-br":      "rss.a_max_br",
		"a-min-br":      "rss.a_min_br",
		"d-lat":         "rss.d_lat",
	}); err != nil {
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
	if err := rss.Validate(cfg.RSS); err != nil {
		return err
	}

	records, _, err := readScenarios(cmd, args)
	if err != nil {
		return err
	}

	signals := extract.Extract(records, cfg.Extract)
	preds := rss.EvaluateAll(signals, cfg.RSS)
	if normalize, _ := cmd.Flags().GetBool("normalize"); normalize {
		for i, p := range preds {
			preds[i] = p.Normalized()
		}
	}
	log.WithField("signals", len(signals)).Debug("predicates evaluated")

	return writeOutput(cmd, func(w io.Writer) error {
		return rss.Write(w, signals, preds, format)
	})
}

func init() {
	def := types.DefaultRSSConfig()

	predicatesCmd.Flags().String("input-format", "json", "input format: json or yaml (inferred from .yaml/.yml/.json file extensions)")
	predicatesCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	predicatesCmd.Flags().Float64("lateral-width", 2, "exclusive lateral corridor width around the subject vehicle")
	predicatesCmd.Flags().Float64("rho", def.Rho, "maximum response time of the rear vehicle")
	predicatesCmd.Flags().Float64("a-max-acc", def.AMaxAcc, "maximum allowed acceleration")
	predicatesCmd.Flags().Float64("a-max-br", def.AMaxBr, "maximum allowed braking deceleration")
	predicatesCmd.Flags().Float64("a-min-br", def.AMinBr, "minimum braking required in a critical situation")
	predicatesCmd.Flags().Float64("d-lat", def.DLat, "lateral distance under which vehicles share a lane")
	predicatesCmd.Flags().Bool("normalize", false, "divide each predicate value by its reference magnitude")

	rootCmd.AddCommand(predicatesCmd)
}
