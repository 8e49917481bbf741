package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsripraj/stock-alchemy/internal/formula"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	NoProbe bool // skip the store probe
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <formula>",
		Short: "Check that a formula is a well-formed inequality",
		Long: `Validate a formula against the concept universe.

Checks the comparison operator, concept tokens, characters, both sides'
arithmetic and that the inequality depends on the data. Unless --no-probe
is set, the compiled query is also run once against the store.

Exit codes:
  0 - Formula is valid
  1 - Formula is invalid
  2 - Command error (bad config, store unavailable, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.NoProbe, "no-probe", false, "validate without querying the store")

	return cmd
}

func runValidate(opts *ValidateOptions, text string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	var res formula.Result
	if opts.NoProbe {
		cfg, err := loadConfig(opts.RootOptions, formatter)
		if err != nil {
			return err
		}
		res = formula.Validate(text, cfg.ConceptUniverse(opts.now()))
	} else {
		ws, err := openWorkspace(opts.RootOptions, formatter)
		if err != nil {
			return err
		}
		defer ws.Close()
		res = ws.engine.Validate(context.Background(), text)
	}

	if !res.Valid {
		return outputVerdictFailure(formatter, res)
	}

	if formatter.Format == "json" {
		return formatter.Success(res)
	}
	fmt.Fprintln(formatter.Writer, "✓ Valid formula")
	formatter.VerboseLog("expr: %s", res.Expr)
	return nil
}

// outputVerdictFailure reports a rejected formula. Rejections are exit
// code 1, like failed tests.
func outputVerdictFailure(formatter *OutputFormatter, res formula.Result) error {
	code := formula.CodeOf(res.Err)
	if formatter.Format == "json" {
		if err := formatter.Failure(code, res.Reason, res); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Invalid formula")
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", code, res.Reason)
		if res.Expr != "" {
			formatter.VerboseLog("expr: %s", res.Expr)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", code, res.Reason))
}
