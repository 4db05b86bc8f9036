// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vrss/internal/extract"
	"github.com/pdiddy/vrss/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect extraction runs saved in the run database",
	Long: `Runs reads the SQLite run database written by "extract --save". Use
subcommands to list runs, print the signals of one run, export runs, or
delete a run.`,
}

// --- list subcommand ---

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

func runRunsList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}

	return writeOutput(cmd, func(w io.Writer) error {
		return formatRunsOutput(w, runs, jsonOutput)
	})
}

func formatRunsOutput(w io.Writer, runs []store.Run, jsonOutput bool) error {
	if jsonOutput {
		if runs == nil {
			runs = []store.Run{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}

	fmt.Fprintf(w, "%-6s  %-30s  %-8s  %-8s  %-6s  %s\n",
		"ID", "Source", "Records", "Matched", "Width", "Created")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range runs {
		source := r.Source
		if len(source) > 30 {
			source = "..." + source[len(source)-27:]
		}
		fmt.Fprintf(w, "%-6d  %-30s  %-8d  %-8d  %-6g  %s\n",
			r.ID, source, r.Records, r.Matched, r.LateralWidth,
			r.CreatedAt.Local().Format(time.DateTime))
	}

	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

// --- show subcommand ---

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the signals of a saved run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}

	formatName, _ := cmd.Flags().GetString("format")
	format, err := extract.ParseFormat(formatName)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	if _, err := s.GetRun(ctx, id); err != nil {
		return err
	}
	signals, err := s.Signals(ctx, id)
	if err != nil {
		return err
	}

	return writeOutput(cmd, func(w io.Writer) error {
		return extract.Write(w, signals, format)
	})
}

// --- export subcommand ---

var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved runs with their signals to YAML or JSON",
	Args:  cobra.NoArgs,
	RunE:  runRunsExport,
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	runID, _ := cmd.Flags().GetInt64("run")

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	switch strings.ToLower(format) {
	case "yaml", "yml", "":
		if out == "" {
			out = "vrss-export.yaml"
		}
		err = s.ExportYAML(ctx, out, runID)
	case "json":
		if out == "" {
			out = "vrss-export.json"
		}
		err = s.ExportJSON(ctx, out, runID)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
	return nil
}

// --- delete subcommand ---

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a saved run and its signals",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteRun(context.Background(), id); err != nil {
		return err
	}
	log.WithField("run", id).Info("deleted run")
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %d\n", id)
	return nil
}

// --- shared helpers ---

func parseRunID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid run id %q", s)
	}
	return id, nil
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	runsListCmd.Flags().Bool("json", false, "output runs as JSON")

	runsShowCmd.Flags().String("format", "text", "output format: text, json, yaml, or logfmt")

	runsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	runsExportCmd.Flags().String("out", "", "output file (default vrss-export.yaml or vrss-export.json)")
	runsExportCmd.Flags().Int64("run", 0, "export only this run (0 = all)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsDeleteCmd)

	rootCmd.AddCommand(runsCmd)
}
