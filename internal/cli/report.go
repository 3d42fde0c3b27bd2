package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deontologician/multireql/internal/store"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	DBPath  string // sqlite path written by a previous check --db run
	Outcome string // optional outcome filter for listed results
}

// RunReport is the stored view of one corpus run.
type RunReport struct {
	RunID     string         `json:"run_id"`
	CorpusDir string         `json:"corpus_dir"`
	StartedAt string         `json:"started_at"`
	Counts    map[string]int `json:"counts"`
	Results   []CheckFailure `json:"results,omitempty"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report <run-id>",
		Short: "Summarize a persisted check run",
		Long: `Read a run previously persisted with check --db and print its outcome
counts. Results with a failing outcome are listed; --outcome narrows the
listing to a single outcome instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "sqlite database written by check --db")
	cmd.Flags().StringVar(&opts.Outcome, "outcome", "", "list results with this outcome (match, mismatch, skip, error, parse_error)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReport(opts *ReportOptions, runID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	outcomes, err := reportOutcomes(opts.Outcome)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		msg := fmt.Sprintf("no run %s in %s", runID, opts.DBPath)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return WrapExitError(ExitCommandError, msg, err)
	}

	summary, err := st.Summarize(ctx, runID)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "summarizing run", err)
	}

	report := &RunReport{
		RunID:     run.ID,
		CorpusDir: run.CorpusDir,
		StartedAt: run.StartedAt.Format(time.RFC3339),
		Counts:    make(map[string]int, len(summary.Counts)),
	}
	for outcome, count := range summary.Counts {
		report.Counts[string(outcome)] = count
	}

	for _, outcome := range outcomes {
		results, err := st.ReadResults(ctx, runID, outcome)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "reading results", err)
		}
		for _, res := range results {
			report.Results = append(report.Results, CheckFailure{
				Path:    res.Path,
				Source:  res.Source,
				Target:  res.Target,
				Outcome: string(res.Outcome),
				Detail:  res.Detail,
			})
		}
	}

	return outputRunReport(formatter, report)
}

// reportOutcomes resolves the --outcome filter. Without a filter the
// listing covers the failing outcomes.
func reportOutcomes(name string) ([]store.Outcome, error) {
	if name == "" {
		return []store.Outcome{store.OutcomeMismatch, store.OutcomeError, store.OutcomeParseError}, nil
	}
	for _, o := range store.Outcomes {
		if string(o) == name {
			return []store.Outcome{o}, nil
		}
	}
	return nil, fmt.Errorf("unknown outcome %q: must be one of match, mismatch, skip, error, parse_error", name)
}

func outputRunReport(formatter *OutputFormatter, report *RunReport) error {
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	fmt.Fprintf(formatter.Writer, "Run %s over %s at %s\n",
		report.RunID, report.CorpusDir, report.StartedAt)
	fmt.Fprintf(formatter.Writer, "  match: %d  mismatch: %d  skip: %d  error: %d  parse_error: %d\n",
		report.Counts[string(store.OutcomeMatch)],
		report.Counts[string(store.OutcomeMismatch)],
		report.Counts[string(store.OutcomeSkip)],
		report.Counts[string(store.OutcomeError)],
		report.Counts[string(store.OutcomeParseError)])
	for _, r := range report.Results {
		fmt.Fprintf(formatter.Writer, "  %s [%s] %s: %s\n", r.Path, r.Target, r.Outcome, r.Detail)
	}
	return nil
}
