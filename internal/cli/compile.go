package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsripraj/stock-alchemy/internal/compiler"
	"github.com/jsripraj/stock-alchemy/internal/formula"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Limit int // row limit, 0 for none
	Year  int // most recent fiscal year, 0 for the config value
}

// CompileResult is the JSON payload of the compile command.
type CompileResult struct {
	SQL            string `json:"sql"`
	Expr           string `json:"expr"`
	MostRecentYear int    `json:"most_recent_year"`
	Limit          int    `json:"limit,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <formula>",
		Short: "Compile a formula to SQL",
		Long: `Compile a formula to the SQL query that selects the companies
satisfying it. The formula is validated first without touching the store.

Examples:
  alchemy compile "[2023 Revenue] > [2023 Net Income]"
  alchemy compile "[Market Cap] < 10 * [2023 Net Income]" --year 2023 --limit 20`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "maximum rows (0 for no limit)")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "most recent fiscal year (default from config)")

	return cmd
}

func runCompile(opts *CompileOptions, text string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if opts.Limit < 0 {
		return formatter.fail(ExitCommandError, ErrCodeInvalidInput, fmt.Sprintf("negative limit %d", opts.Limit), nil)
	}

	cfg, err := loadConfig(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	if opts.Year != 0 {
		cfg.Universe.MostRecentYear = opts.Year
	}

	now := opts.now()
	u := cfg.ConceptUniverse(now)
	res := formula.Validate(text, u)
	if !res.Valid {
		return outputVerdictFailure(formatter, res)
	}

	year := cfg.MostRecentYear(now)
	query, err := compiler.New(u, year).Compile(text, opts.Limit)
	if err != nil {
		return formatter.fail(ExitFailure, ErrCodeCompile, err.Error(), err)
	}
	formatter.VerboseLog("Compiled with most recent year %d", year)

	if formatter.Format == "json" {
		return formatter.Success(CompileResult{
			SQL:            query,
			Expr:           res.Expr,
			MostRecentYear: year,
			Limit:          opts.Limit,
		})
	}
	fmt.Fprintln(formatter.Writer, query)
	return nil
}
