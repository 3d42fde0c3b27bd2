package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deontologician/multireql/internal/gen"
	"github.com/deontologician/multireql/internal/pyparse"
	"github.com/deontologician/multireql/internal/reql"
)

// Generic CLI error codes. Conversion errors carry their own codes.
const (
	ErrCodeGeneric = "COMMAND_ERROR"
	ErrCodeParse   = "PARSE_ERROR"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	Roots []string // extra query-root variable names
	All   bool     // render every target
}

// ConvertResult holds rendered output for one target.
type ConvertResult struct {
	Target string `json:"target"`
	Output string `json:"output"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <target> [snippet]",
		Short: "Convert one snippet to a target language",
		Long: `Convert a generic test snippet to the given target language (rb, js or java).

The snippet is taken from the argument, or from stdin when omitted.
With --all the target argument is skipped and every language is rendered.`,
		Args:          cobra.RangeArgs(0, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args, cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Roots, "root", nil, "extra query-root variable names")
	cmd.Flags().BoolVar(&opts.All, "all", false, "render every target language")

	return cmd
}

func runConvert(opts *ConvertOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	targets, snippetArgs, err := convertTargets(opts, args)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}

	snippet, err := convertInput(snippetArgs, cmd.InOrStdin())
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading snippet", err)
	}

	node, err := pyparse.Parse(snippet)
	if err != nil {
		_ = formatter.Error(ErrCodeParse, err.Error(), nil)
		return WrapExitError(ExitFailure, "parsing snippet", err)
	}

	roots := append([]string{reql.DefaultRoot}, opts.Roots...)
	flags := reql.AnalyzeWith(node, roots, false)
	cfg := gen.DefaultConfig()
	cfg.RootNames = roots

	results := make([]ConvertResult, 0, len(targets))
	for _, target := range targets {
		formatter.VerboseLog("Converting for %s", target)
		out, err := gen.Convert(target, node, flags, cfg)
		if err != nil {
			return outputConvertError(formatter, target, err)
		}
		results = append(results, ConvertResult{Target: string(target), Output: out})
	}

	return outputConvertSuccess(formatter, results)
}

// convertTargets resolves the target list and the remaining snippet args.
func convertTargets(opts *ConvertOptions, args []string) ([]gen.Target, []string, error) {
	if opts.All {
		return gen.Targets, args, nil
	}
	if len(args) == 0 {
		return nil, nil, errors.New("target argument required (rb, js or java) unless --all is set")
	}
	target := gen.Target(args[0])
	for _, t := range gen.Targets {
		if t == target {
			return []gen.Target{target}, args[1:], nil
		}
	}
	return nil, nil, fmt.Errorf("unknown target %q: must be one of rb, js, java", args[0])
}

// convertInput returns the snippet from the argument or from stdin.
func convertInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func outputConvertSuccess(formatter *OutputFormatter, results []ConvertResult) error {
	if formatter.Format == "json" {
		return formatter.Success(results)
	}

	if len(results) == 1 {
		fmt.Fprintln(formatter.Writer, results[0].Output)
		return nil
	}
	for _, res := range results {
		fmt.Fprintf(formatter.Writer, "%s: %s\n", res.Target, res.Output)
	}
	return nil
}

func outputConvertError(formatter *OutputFormatter, target gen.Target, err error) error {
	var convErr *gen.ConvertError
	if errors.As(err, &convErr) {
		_ = formatter.Error(string(convErr.Code), convErr.Error(), convErr.Node)
	} else {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	}
	return WrapExitError(ExitFailure, fmt.Sprintf("converting for %s", target), err)
}
