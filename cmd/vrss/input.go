// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vrss/internal/scenario"
	"github.com/pdiddy/vrss/internal/store"
	"github.com/pdiddy/vrss/pkg/types"
)

// stdinSource is the run source recorded when input comes from stdin.
const stdinSource = "-"

// writeOutput runs fn against a buffered stdout and flushes it.
func writeOutput(cmd *cobra.Command, fn func(w io.Writer) error) error {
	w := bufio.NewWriter(cmd.OutOrStdout())
	if err := fn(w); err != nil {
		w.Flush()
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// readScenarios decodes records from the file named in args, or stdin when
// args is empty or "-". The --input-format flag applies unless the file
// extension names a format.
func readScenarios(cmd *cobra.Command, args []string) ([]types.ScenarioElement, string, error) {
	formatName, _ := cmd.Flags().GetString("input-format")
	format, err := scenario.ParseFormat(formatName)
	if err != nil {
		return nil, "", err
	}

	var (
		r      io.Reader = cmd.InOrStdin()
		source           = stdinSource
	)
	if len(args) > 0 && args[0] != stdinSource {
		source = args[0]
		f, err := os.Open(source)
		if err != nil {
			return nil, "", fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
		if !cmd.Flags().Changed("input-format") {
			format = scenario.FormatForPath(source, format)
		}
	}

	records, err := scenario.Decode(r, format)
	if err != nil {
		if source != stdinSource {
			return nil, "", fmt.Errorf("%s: %w", source, err)
		}
		return nil, "", err
	}

	log.WithFields(logrus.Fields{"source": source, "records": len(records)}).Debug("decoded scenarios")
	return records, source, nil
}

// bindFlags binds command flags to viper keys. Binding happens when the
// command runs so that commands sharing a key do not override each other.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// openStore opens the run database configured by --db or store.db.
func openStore() (*store.Store, error) {
	return store.NewStore(loadConfig().Store)
}

// saveRun persists an extraction run to the configured run database.
func saveRun(ctx context.Context, run store.Run, signals []types.Signal) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.SaveRun(ctx, run, signals)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"db": s.Path(), "run": id, "signals": len(signals)}).Info("saved run")
	return nil
}
