package trace

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by ReadRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run summarises one recorded run.
type Run struct {
	ID        string `json:"id"`
	Program   string `json:"program"`
	FirstTick int64  `json:"first_tick"`
	Ticks     int64  `json:"ticks"`
	Finished  bool   `json:"finished"`
}

// Tick is one journaled tick with its delivered messages.
type Tick struct {
	Seq       int64    `json:"seq"`
	Systems   []string `json:"systems"`
	Delivered int      `json:"delivered"`
	Produced  int      `json:"produced"`
	Messages  []string `json:"messages"`
}

// ListRuns returns all runs in the order they were started.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, program, first_tick, ticks, finished
		FROM runs
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Program, &run.FirstTick, &run.Ticks, &run.Finished); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns a run and its ticks ordered by seq, each with its
// messages in delivery order.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, []Tick, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, program, first_tick, ticks, finished
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Program, &run.FirstTick, &run.Ticks, &run.Finished)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, nil, fmt.Errorf("read run %s: %w", id, err)
	}

	ticks, err := s.readTicks(ctx, id)
	if err != nil {
		return Run{}, nil, err
	}

	if err := s.attachMessages(ctx, id, ticks); err != nil {
		return Run{}, nil, err
	}

	return run, ticks, nil
}

func (s *Store) readTicks(ctx context.Context, runID string) ([]Tick, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, systems, delivered, produced
		FROM ticks
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read ticks: %w", err)
	}
	defer rows.Close()

	var ticks []Tick
	for rows.Next() {
		var (
			tick    Tick
			systems string
		)
		if err := rows.Scan(&tick.Seq, &systems, &tick.Delivered, &tick.Produced); err != nil {
			return nil, fmt.Errorf("read ticks: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(systems), &tick.Systems); err != nil {
			return nil, fmt.Errorf("read ticks: tick %d systems: %w", tick.Seq, err)
		}
		tick.Messages = []string{}
		ticks = append(ticks, tick)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read ticks: %w", err)
	}
	return ticks, nil
}

func (s *Store) attachMessages(ctx context.Context, runID string, ticks []Tick) error {
	index := make(map[int64]int, len(ticks))
	for i, tick := range ticks {
		index[tick.Seq] = i
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, text
		FROM messages
		WHERE run_id = ?
		ORDER BY seq ASC, position ASC
	`, runID)
	if err != nil {
		return fmt.Errorf("read messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seq  int64
			text string
		)
		if err := rows.Scan(&seq, &text); err != nil {
			return fmt.Errorf("read messages: scan: %w", err)
		}
		i, ok := index[seq]
		if !ok {
			return fmt.Errorf("read messages: orphaned message at tick %d", seq)
		}
		ticks[i].Messages = append(ticks[i].Messages, text)
	}
	return rows.Err()
}
