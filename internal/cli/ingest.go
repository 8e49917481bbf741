package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jsripraj/stock-alchemy/internal/ingest"
)

// NewIngestCommand creates the ingest command and its subcommands.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load SEC company data into the facts store",
		Long: `Load SEC EDGAR data into the facts store.

Load tickers first: facts and prices are only stored for known companies.

Examples:
  alchemy ingest tickers company_tickers.json
  alchemy ingest archive companyfacts.zip
  alchemy ingest facts 320193 CIK0000320193.json
  alchemy ingest prices closes.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newIngestFileCommand(rootOpts, "tickers <file>",
		"Load companies from company_tickers.json",
		func(ctx context.Context, in *ingest.Ingester, r io.Reader) (ingest.Summary, error) {
			return in.LoadTickers(ctx, r)
		}))
	cmd.AddCommand(newIngestFileCommand(rootOpts, "prices <file>",
		"Load closing prices from a ticker,date,close CSV",
		func(ctx context.Context, in *ingest.Ingester, r io.Reader) (ingest.Summary, error) {
			return in.LoadPrices(ctx, r)
		}))
	cmd.AddCommand(newIngestFactsCommand(rootOpts))
	cmd.AddCommand(newIngestArchiveCommand(rootOpts))

	return cmd
}

type loadFunc func(ctx context.Context, in *ingest.Ingester, r io.Reader) (ingest.Summary, error)

func newIngestFileCommand(rootOpts *RootOptions, use, short string, load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngestFile(rootOpts, args[0], load, cmd)
		},
	}
}

func newIngestFactsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "facts <cik> <file>",
		Short: "Load one company's companyfacts JSON",
		Long: `Load one companyfacts document. The CIK may be given with or without
leading zeros; the company must already be loaded with ingest tickers.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			n, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || n <= 0 {
				return formatter.fail(ExitCommandError, ErrCodeInvalidInput, fmt.Sprintf("invalid CIK %q", args[0]), nil)
			}
			cik := ingest.PadCIK(n)
			return runIngestFile(rootOpts, args[1],
				func(ctx context.Context, in *ingest.Ingester, r io.Reader) (ingest.Summary, error) {
					return in.LoadFacts(ctx, cik, r)
				}, cmd)
		},
	}
}

func newIngestArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <zip>",
		Short: "Load every known company from companyfacts.zip",
		Long: `Load the bulk companyfacts.zip archive. Members named CIK##########.json
are loaded; companies without a ticker row are skipped and counted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngestArchive(rootOpts, args[0], cmd)
		},
	}
}

func runIngestFile(opts *RootOptions, path string, load loadFunc, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	f, err := os.Open(path)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("cannot open %s", path), err)
	}
	defer f.Close()

	in, closeStore, err := newIngester(opts, formatter)
	if err != nil {
		return err
	}
	defer closeStore()

	summary, err := load(context.Background(), in, f)
	if err != nil {
		return outputIngestError(formatter, path, err)
	}
	return outputSummary(formatter, summary)
}

func runIngestArchive(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if _, err := os.Stat(path); err != nil {
		return formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("cannot open %s", path), err)
	}

	in, closeStore, err := newIngester(opts, formatter)
	if err != nil {
		return err
	}
	defer closeStore()

	summary, err := in.LoadArchive(context.Background(), path)
	if err != nil {
		return outputIngestError(formatter, path, err)
	}
	return outputSummary(formatter, summary)
}

func newIngester(opts *RootOptions, formatter *OutputFormatter) (*ingest.Ingester, func(), error) {
	cfg, err := loadConfig(opts, formatter)
	if err != nil {
		return nil, nil, err
	}
	s, err := openStore(opts, cfg, formatter)
	if err != nil {
		return nil, nil, err
	}
	in := ingest.New(s,
		ingest.WithAliases(cfg.IngestAliases()),
		ingest.WithLogger(opts.logger()),
	)
	return in, func() { _ = s.Close() }, nil
}

func outputIngestError(formatter *OutputFormatter, path string, err error) error {
	if errors.Is(err, ingest.ErrUnknownCompany) {
		return formatter.fail(ExitCommandError, ErrCodeNotFound, "company not loaded; run ingest tickers first", err)
	}
	return formatter.fail(ExitCommandError, ErrCodeInput, fmt.Sprintf("failed to load %s: %v", path, err), err)
}

func outputSummary(formatter *OutputFormatter, s ingest.Summary) error {
	if formatter.Format == "json" {
		return formatter.Success(s)
	}
	w := formatter.Writer
	if s.Companies > 0 {
		fmt.Fprintf(w, "companies: %d\n", s.Companies)
	}
	if s.Files > 0 {
		fmt.Fprintf(w, "files: %d\n", s.Files)
		fmt.Fprintf(w, "facts: %d\n", s.Facts)
	}
	if s.Prices > 0 {
		fmt.Fprintf(w, "prices: %d\n", s.Prices)
	}
	if s.Skipped > 0 {
		fmt.Fprintf(w, "skipped: %d\n", s.Skipped)
	}
	fmt.Fprintln(w, "✓ Loaded")
	return nil
}
