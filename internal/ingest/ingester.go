package ingest

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"go.uber.org/zap"

	"github.com/jsripraj/stock-alchemy/internal/store"
)

// ErrUnknownCompany is returned when facts are loaded for a CIK that has
// no row in the companies relation. Load tickers first.
var ErrUnknownCompany = errors.New("unknown company")

// archiveMember matches the company facts files inside companyfacts.zip.
var archiveMember = regexp.MustCompile(`^CIK(\d{10})\.json$`)

// Ingester loads parsed SEC data into a store.
type Ingester struct {
	store   *store.Store
	aliases []Alias
	logger  *zap.Logger
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithAliases replaces DefaultAliases.
func WithAliases(aliases []Alias) Option {
	return func(in *Ingester) {
		in.aliases = aliases
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(in *Ingester) {
		in.logger = logger
	}
}

// New creates an Ingester writing to s.
func New(s *store.Store, opts ...Option) *Ingester {
	in := &Ingester{
		store:   s,
		aliases: DefaultAliases,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Summary counts what a load wrote.
type Summary struct {
	Companies int `json:"companies"`
	Files     int `json:"files"`
	Facts     int `json:"facts"`
	Prices    int `json:"prices"`
	Skipped   int `json:"skipped"`
}

// LoadTickers upserts the companies of a company_tickers.json document.
func (in *Ingester) LoadTickers(ctx context.Context, r io.Reader) (Summary, error) {
	companies, err := ParseTickers(r)
	if err != nil {
		return Summary{}, err
	}
	if err := in.store.UpsertCompanies(ctx, companies); err != nil {
		return Summary{}, err
	}
	in.logger.Info("tickers loaded", zap.Int("companies", len(companies)))
	return Summary{Companies: len(companies)}, nil
}

// LoadFacts stores the facts of one companyfacts document for cik.
// Returns ErrUnknownCompany when cik is not in the companies relation.
func (in *Ingester) LoadFacts(ctx context.Context, cik string, r io.Reader) (Summary, error) {
	ok, err := in.store.HasCompany(ctx, cik)
	if err != nil {
		return Summary{}, err
	}
	if !ok {
		return Summary{}, fmt.Errorf("load facts %s: %w", cik, ErrUnknownCompany)
	}

	facts, err := ParseCompanyFacts(r, cik, in.aliases)
	if err != nil {
		return Summary{}, fmt.Errorf("load facts %s: %w", cik, err)
	}
	if err := in.store.UpsertFacts(ctx, facts); err != nil {
		return Summary{}, err
	}
	in.logger.Debug("facts loaded", zap.String("cik", cik), zap.Int("facts", len(facts)))
	return Summary{Files: 1, Facts: len(facts)}, nil
}

// LoadArchive stores the facts of every known company in a
// companyfacts.zip archive. Members for companies without a ticker row
// are skipped; any other failure stops the load.
func (in *Ingester) LoadArchive(ctx context.Context, path string) (Summary, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Summary{}, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	var total Summary
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		m := archiveMember.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}

		s, err := in.loadMember(ctx, m[1], f)
		if errors.Is(err, ErrUnknownCompany) {
			total.Skipped++
			continue
		}
		if err != nil {
			return total, fmt.Errorf("%s: %w", f.Name, err)
		}
		total.Files += s.Files
		total.Facts += s.Facts
	}

	in.logger.Info("archive loaded",
		zap.String("path", path),
		zap.Int("files", total.Files),
		zap.Int("facts", total.Facts),
		zap.Int("skipped", total.Skipped))
	return total, nil
}

func (in *Ingester) loadMember(ctx context.Context, cik string, f *zip.File) (Summary, error) {
	rc, err := f.Open()
	if err != nil {
		return Summary{}, err
	}
	defer rc.Close()
	return in.LoadFacts(ctx, cik, rc)
}

// LoadPrices records closing prices. Rows for tickers with no company
// are counted as skipped.
func (in *Ingester) LoadPrices(ctx context.Context, r io.Reader) (Summary, error) {
	prices, err := ParsePrices(r)
	if err != nil {
		return Summary{}, err
	}

	var total Summary
	for _, p := range prices {
		ok, err := in.store.UpdateClose(ctx, p.Ticker, p.Date, p.Close)
		if err != nil {
			return total, err
		}
		if !ok {
			in.logger.Debug("no company for ticker", zap.String("ticker", p.Ticker))
			total.Skipped++
			continue
		}
		total.Prices++
	}
	in.logger.Info("prices loaded", zap.Int("prices", total.Prices), zap.Int("skipped", total.Skipped))
	return total, nil
}
