// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vrss/pkg/types"
)

// ExportEntry holds a run with its signals for export.
type ExportEntry struct {
	Run     `yaml:",inline"`
	Signals []types.SignalRecord `json:"signals" yaml:"signals"`
}

const exportLimit = 100000

// ExportYAML writes runs to path as YAML. A non-zero runID limits the
// export to that run.
func (s *Store) ExportYAML(ctx context.Context, path string, runID int64) error {
	entries, err := s.exportEntries(ctx, runID)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes runs to path as JSON. A non-zero runID limits the
// export to that run.
func (s *Store) ExportJSON(ctx context.Context, path string, runID int64) error {
	entries, err := s.exportEntries(ctx, runID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, runID int64) ([]ExportEntry, error) {
	var runs []Run
	if runID != 0 {
		r, err := s.GetRun(ctx, runID)
		if err != nil {
			return nil, err
		}
		runs = []Run{r}
	} else {
		all, err := s.ListRuns(ctx, exportLimit)
		if err != nil {
			return nil, fmt.Errorf("querying for export: %w", err)
		}
		runs = all
	}

	entries := make([]ExportEntry, len(runs))
	for i, r := range runs {
		signals, err := s.Signals(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		records := make([]types.SignalRecord, len(signals))
		for j, sig := range signals {
			records[j] = sig.ToRecord()
		}
		entries[i] = ExportEntry{Run: r, Signals: records}
	}
	return entries, nil
}
