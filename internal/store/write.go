package store

import (
	"context"
	"fmt"
	"time"
)

// Outcome classifies one (fixture, target) conversion in a check run.
type Outcome string

const (
	OutcomeMatch      Outcome = "match"       // rendered text equals an expected alternative
	OutcomeMismatch   Outcome = "mismatch"    // rendered text differs from every expected alternative
	OutcomeSkip       Outcome = "skip"        // skip rule matched: intentionally unsupported
	OutcomeError      Outcome = "error"       // conversion failed
	OutcomeParseError Outcome = "parse_error" // the generic snippet did not parse
)

// Outcomes lists every outcome a result row can carry.
var Outcomes = []Outcome{
	OutcomeMatch,
	OutcomeMismatch,
	OutcomeSkip,
	OutcomeError,
	OutcomeParseError,
}

// Run identifies one invocation of the check command.
type Run struct {
	ID        string
	CorpusDir string
	StartedAt time.Time
}

// Result is the outcome of converting one fixture snippet for one target.
type Result struct {
	RunID   string
	Path    string
	Source  string
	Target  string
	Outcome Outcome
	Output  string
	Detail  string
}

// WriteRun inserts a run record. Duplicate run IDs are silently ignored so
// a retried command stays idempotent.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, corpus_dir, started_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.CorpusDir,
		run.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteResult inserts a result record for a run.
func (s *Store) WriteResult(ctx context.Context, res Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (run_id, path, source, target, outcome, output, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		res.RunID,
		res.Path,
		res.Source,
		res.Target,
		string(res.Outcome),
		res.Output,
		res.Detail,
	)
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
