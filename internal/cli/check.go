package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/deontologician/multireql/internal/corpus"
	"github.com/deontologician/multireql/internal/gen"
	"github.com/deontologician/multireql/internal/pyparse"
	"github.com/deontologician/multireql/internal/reql"
	"github.com/deontologician/multireql/internal/store"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Targets []string // target filter, empty means all
	DBPath  string   // optional sqlite path for persisting results
}

// CheckSummary is the aggregate result of a corpus run.
type CheckSummary struct {
	RunID    string         `json:"run_id"`
	Files    int            `json:"files"`
	Tests    int            `json:"tests"`
	Counts   map[string]int `json:"counts"`
	Failures []CheckFailure `json:"failures,omitempty"`
}

// CheckFailure describes one fixture that did not convert cleanly.
type CheckFailure struct {
	Path    string `json:"path"`
	Source  string `json:"source"`
	Target  string `json:"target,omitempty"`
	Outcome string `json:"outcome"`
	Detail  string `json:"detail"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <corpus-dir>",
		Short: "Convert a fixture corpus and compare expected output",
		Long: `Walk a corpus directory of YAML fixture files, convert every generic
snippet for each target language, and compare the output against the
expected renderings recorded in the fixtures.

A fixture that fails to parse or convert is recorded and counted; it
never aborts the rest of the run.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Targets, "target", nil, "only check these targets (rb, js, java)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "sqlite database to persist results")

	return cmd
}

func runCheck(opts *CheckOptions, corpusDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	targets, err := checkTargets(opts.Targets)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}

	entries, err := corpus.Walk(corpusDir)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading corpus", err)
	}
	if len(entries) == 0 {
		msg := fmt.Sprintf("no fixture files found in %s", corpusDir)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	run := store.Run{
		ID:        uuid.NewString(),
		CorpusDir: corpusDir,
		StartedAt: time.Now().UTC(),
	}
	summary := &CheckSummary{RunID: run.ID, Files: len(entries), Counts: make(map[string]int)}

	var results []store.Result
	for _, entry := range entries {
		formatter.VerboseLog("Checking %s (%d tests)", entry.Path, len(entry.File.Tests))
		roots := entry.File.RootNames(reql.DefaultRoot)
		for _, test := range entry.File.Tests {
			summary.Tests++
			results = append(results, checkTest(entry.Path, test, roots, targets, run.ID, summary)...)
		}
	}

	if opts.DBPath != "" {
		if err := persistRun(cmd, opts.DBPath, run, results); err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "persisting results", err)
		}
		formatter.VerboseLog("Persisted %d result(s) to %s", len(results), opts.DBPath)
	}

	return outputCheckSummary(formatter, summary)
}

// checkTest converts one fixture for every requested target and records
// the outcomes on the summary.
func checkTest(path string, test corpus.Test, roots []string, targets []gen.Target, runID string, summary *CheckSummary) []store.Result {
	if test.Generic.Empty() {
		return nil
	}
	source := test.Generic.First()

	record := func(target gen.Target, outcome store.Outcome, output, detail string) store.Result {
		summary.Counts[string(outcome)]++
		if outcome == store.OutcomeMismatch || outcome == store.OutcomeError || outcome == store.OutcomeParseError {
			summary.Failures = append(summary.Failures, CheckFailure{
				Path:    path,
				Source:  source,
				Target:  string(target),
				Outcome: string(outcome),
				Detail:  detail,
			})
		}
		return store.Result{
			RunID:   runID,
			Path:    path,
			Source:  source,
			Target:  string(target),
			Outcome: outcome,
			Output:  output,
			Detail:  detail,
		}
	}

	node, err := pyparse.Parse(source)
	if err != nil {
		return []store.Result{record("", store.OutcomeParseError, "", err.Error())}
	}

	flags := reql.AnalyzeWith(node, roots, false)
	cfg := gen.DefaultConfig()
	cfg.RootNames = roots

	var results []store.Result
	for _, target := range targets {
		expected := test.ForDialect(string(target))
		out, err := gen.Convert(target, node, flags, cfg)
		switch {
		case gen.IsUnsupported(err):
			results = append(results, record(target, store.OutcomeSkip, "", err.Error()))
		case err != nil:
			results = append(results, record(target, store.OutcomeError, "", err.Error()))
		case expected.Empty():
			// Converted cleanly but the fixture records no expectation.
			results = append(results, record(target, store.OutcomeSkip, out, "no expected rendering"))
		case expected.Matches(out):
			results = append(results, record(target, store.OutcomeMatch, out, ""))
		default:
			detail := fmt.Sprintf("want %q, got %q", expected.First(), out)
			results = append(results, record(target, store.OutcomeMismatch, out, detail))
		}
	}
	return results
}

// checkTargets resolves the --target filter against the known targets.
func checkTargets(names []string) ([]gen.Target, error) {
	if len(names) == 0 {
		return gen.Targets, nil
	}
	var targets []gen.Target
	for _, name := range names {
		found := false
		for _, t := range gen.Targets {
			if string(t) == name {
				targets = append(targets, t)
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown target %q: must be one of rb, js, java", name)
		}
	}
	return targets, nil
}

func persistRun(cmd *cobra.Command, path string, run store.Run, results []store.Result) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if err := st.WriteRun(ctx, run); err != nil {
		return err
	}
	for _, res := range results {
		if err := st.WriteResult(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

func outputCheckSummary(formatter *OutputFormatter, summary *CheckSummary) error {
	failed := summary.Counts[string(store.OutcomeMismatch)] +
		summary.Counts[string(store.OutcomeError)] +
		summary.Counts[string(store.OutcomeParseError)]

	if formatter.Format == "json" {
		if err := formatter.Success(summary); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(formatter.Writer, "Checked %d test(s) in %d file(s)\n",
			summary.Tests, summary.Files)
		fmt.Fprintf(formatter.Writer, "  match: %d  mismatch: %d  skip: %d  error: %d  parse_error: %d\n",
			summary.Counts[string(store.OutcomeMatch)],
			summary.Counts[string(store.OutcomeMismatch)],
			summary.Counts[string(store.OutcomeSkip)],
			summary.Counts[string(store.OutcomeError)],
			summary.Counts[string(store.OutcomeParseError)])
		for _, f := range summary.Failures {
			fmt.Fprintf(formatter.Writer, "  %s [%s] %s: %s\n", f.Path, f.Target, f.Outcome, f.Detail)
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d fixture(s) failed", failed))
	}
	return nil
}
