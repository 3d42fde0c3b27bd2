package store

import (
	"context"
	"fmt"
	"time"
)

// Summary aggregates a run's results by outcome.
type Summary struct {
	RunID  string
	Counts map[Outcome]int
}

// ReadRun returns the run record for the given ID.
func (s *Store) ReadRun(ctx context.Context, runID string) (*Run, error) {
	var run Run
	var startedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, corpus_dir, started_at FROM runs WHERE id = ?
	`, runID).Scan(&run.ID, &run.CorpusDir, &startedAt)
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("read run: parse started_at: %w", err)
	}
	return &run, nil
}

// Summarize counts a run's results per outcome.
func (s *Store) Summarize(ctx context.Context, runID string) (*Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*) FROM results
		WHERE run_id = ?
		GROUP BY outcome
		ORDER BY outcome
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("summarize run: %w", err)
	}
	defer rows.Close()

	summary := &Summary{RunID: runID, Counts: make(map[Outcome]int)}
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("summarize run: %w", err)
		}
		summary.Counts[Outcome(outcome)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summarize run: %w", err)
	}
	return summary, nil
}

// ReadResults returns a run's results filtered to one outcome, in
// insertion order.
func (s *Store) ReadResults(ctx context.Context, runID string, outcome Outcome) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, path, source, target, outcome, output, detail
		FROM results
		WHERE run_id = ? AND outcome = ?
		ORDER BY rowid
	`, runID, string(outcome))
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var res Result
		var out string
		if err := rows.Scan(&res.RunID, &res.Path, &res.Source, &res.Target, &out, &res.Output, &res.Detail); err != nil {
			return nil, fmt.Errorf("read results: %w", err)
		}
		res.Outcome = Outcome(out)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return results, nil
}
