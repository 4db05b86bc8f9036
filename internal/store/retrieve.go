// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/vrss/pkg/types"
)

const defaultListLimit = 20

// ListRuns returns the most recent runs, newest first. A non-positive
// limit uses the default of 20.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, created_at, records, matched, lateral_width
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a single run by ID.
func (s *Store) GetRun(ctx context.Context, id int64) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, created_at, records, matched, lateral_width
		 FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %d not found", id)
	}
	return r, err
}

// Signals returns the signals of a run in their original order.
func (s *Store) Signals(ctx context.Context, runID int64) ([]types.Signal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record, pov, x_b, y_b, v_b, a_b, x_f, y_f, v_f, a_f
		 FROM signals WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying signals: %w", err)
	}
	defer rows.Close()

	var signals []types.Signal
	for rows.Next() {
		var (
			sig  types.Signal
			text [8]string
		)
		if err := rows.Scan(&sig.Record, &sig.Pov,
			&text[0], &text[1], &text[2], &text[3],
			&text[4], &text[5], &text[6], &text[7],
		); err != nil {
			return nil, fmt.Errorf("scanning signal: %w", err)
		}

		var nums [8]types.Number
		for i, t := range text {
			n, err := types.ParseNumber(t)
			if err != nil {
				return nil, fmt.Errorf("run %d record %d %s: %w", runID, sig.Record, types.SignalFields[i], err)
			}
			nums[i] = n
		}
		sig.Subject = types.Kinematics{X: nums[0], Y: nums[1], VelX: nums[2], AccelX: nums[3]}
		sig.Preceding = types.Kinematics{X: nums[4], Y: nums[5], VelX: nums[6], AccelX: nums[7]}
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r       Run
		created string
	)
	if err := row.Scan(&r.ID, &r.Source, &created, &r.Records, &r.Matched, &r.LateralWidth); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("scanning run: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return r, fmt.Errorf("run %d: invalid created_at %q: %w", r.ID, created, err)
	}
	r.CreatedAt = t
	return r, nil
}
