package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsripraj/stock-alchemy/internal/engine"
	"github.com/jsripraj/stock-alchemy/internal/store"
)

// SaveResult is the JSON payload of the save command.
type SaveResult struct {
	ID   string `json:"id"`
	Expr string `json:"expr"`
}

// ShowResult is the JSON payload of the show command.
type ShowResult struct {
	ID      string `json:"id"`
	Formula string `json:"formula"`
}

// ResultsResult is the JSON payload of the results and find commands.
type ResultsResult struct {
	ID   string            `json:"id"`
	Rows []store.ResultRow `json:"rows"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <formula>",
		Short: "Validate a formula and store it",
		Long: `Validate a formula, including the store probe, and store it. Saving
a formula that is already stored returns the existing id.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSave(opts *RootOptions, text string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ws, err := openWorkspace(opts, formatter)
	if err != nil {
		return err
	}
	defer ws.Close()

	id, res, err := ws.engine.Submit(context.Background(), text)
	if engine.IsInvalidFormulaError(err) {
		return outputVerdictFailure(formatter, res)
	}
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, "failed to save formula", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(SaveResult{ID: id, Expr: res.Expr})
	}
	fmt.Fprintln(formatter.Writer, id)
	return nil
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show <id>",
		Short:         "Print a stored formula",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runShow(opts *RootOptions, id string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cfg, err := loadConfig(opts, formatter)
	if err != nil {
		return err
	}
	s, err := openStore(opts, cfg, formatter)
	if err != nil {
		return err
	}
	defer s.Close()

	text, err := s.ReadFormula(context.Background(), id)
	if errors.Is(err, store.ErrFormulaNotFound) {
		return formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("formula %s not found", id), nil)
	}
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, "failed to read formula", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ShowResult{ID: id, Formula: text})
	}
	fmt.Fprintln(formatter.Writer, text)
	return nil
}

// ResultsOptions holds flags for the results and find commands.
type ResultsOptions struct {
	*RootOptions
	Limit int // row limit, 0 for none
}

// NewResultsCommand creates the results command.
func NewResultsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResultsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "results <id>",
		Short: "List the companies that satisfy a stored formula",
		Long: `Run a stored formula against the facts store and list every company
that satisfies it, ordered by ticker, with both sides' values.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResults(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "maximum rows (0 for no limit)")

	return cmd
}

func runResults(opts *ResultsOptions, id string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	if opts.Limit < 0 {
		return formatter.fail(ExitCommandError, ErrCodeInvalidInput, fmt.Sprintf("negative limit %d", opts.Limit), nil)
	}

	ws, err := openWorkspace(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer ws.Close()

	rows, err := ws.engine.Results(context.Background(), id, opts.Limit)
	if err != nil {
		return outputRuntimeError(formatter, err)
	}
	return outputRows(formatter, id, rows)
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResultsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "find <formula>",
		Short: "Save a formula and list the companies that satisfy it",
		Long: `Validate and store a formula, then run it. Equivalent to save
followed by results.

Examples:
  alchemy find "[2023 Revenue] > 2 * [2022 Revenue]"
  alchemy find "[Market Cap] < 15 * [2023 Net Income]" --limit 10 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "maximum rows (0 for no limit)")

	return cmd
}

func runFind(opts *ResultsOptions, text string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	if opts.Limit < 0 {
		return formatter.fail(ExitCommandError, ErrCodeInvalidInput, fmt.Sprintf("negative limit %d", opts.Limit), nil)
	}

	ws, err := openWorkspace(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := context.Background()
	id, res, err := ws.engine.Submit(ctx, text)
	if engine.IsInvalidFormulaError(err) {
		return outputVerdictFailure(formatter, res)
	}
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, "failed to save formula", err)
	}
	formatter.VerboseLog("Saved formula %s", id)

	rows, err := ws.engine.Results(ctx, id, opts.Limit)
	if err != nil {
		return outputRuntimeError(formatter, err)
	}
	return outputRows(formatter, id, rows)
}

// outputRuntimeError maps engine errors to CLI responses. A formula that
// no longer compiles is a formula failure; everything else is a command
// error.
func outputRuntimeError(formatter *OutputFormatter, err error) error {
	var re *engine.RuntimeError
	if !errors.As(err, &re) {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, err.Error(), err)
	}

	switch re.Code {
	case engine.ErrCodeFormulaNotFound:
		return formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("formula %s not found", re.FormulaID), nil)
	case engine.ErrCodeInvalidFormula:
		_ = formatter.Error(string(re.Code), re.Message, re.Details)
		return WrapExitError(ExitFailure, string(re.Code), err)
	default:
		return formatter.fail(ExitCommandError, ErrCodeStore, re.Message, err)
	}
}

func outputRows(formatter *OutputFormatter, id string, rows []store.ResultRow) error {
	if formatter.Format == "json" {
		return formatter.Success(ResultsResult{ID: id, Rows: rows})
	}
	if len(rows) == 0 {
		fmt.Fprintln(formatter.Writer, "No companies satisfy the formula.")
		return nil
	}
	return writeRows(formatter.Writer, rows)
}

func writeRows(w io.Writer, rows []store.ResultRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tCOMPANY\tLEFT\tRIGHT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Ticker, r.Company,
			strconv.FormatFloat(r.LeftSide, 'f', -1, 64),
			strconv.FormatFloat(r.RightSide, 'f', -1, 64))
	}
	return tw.Flush()
}
