package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jsripraj/stock-alchemy/internal/concept"
)

// DomainFormula prefixes formula fingerprints. The version suffix allows
// the normalization to change without colliding with old fingerprints.
const DomainFormula = "stock-alchemy/formula/v1"

// Fingerprint returns the identity hash of a formula text.
// Format: SHA256(domain + 0x00 + NFC text with whitespace collapsed)
func Fingerprint(formula string) string {
	normalized := strings.Join(strings.Fields(concept.Normalize(formula)), " ")

	h := sha256.New()
	h.Write([]byte(DomainFormula))
	h.Write([]byte{0x00})
	h.Write([]byte(normalized))
	return hex.EncodeToString(h.Sum(nil))
}

// SaveFormula stores formula and returns its id. Saving a formula with
// the same fingerprint as an existing one returns the existing id.
func (s *Store) SaveFormula(ctx context.Context, formula string) (string, error) {
	formula = concept.Normalize(formula)
	fp := Fingerprint(formula)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO formulas (id, formula, fingerprint, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`,
		s.ids.Generate(),
		formula,
		fp,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("save formula: %w", err)
	}

	var id string
	if err := s.db.QueryRowContext(ctx,
		`SELECT id FROM formulas WHERE fingerprint = ?`, fp,
	).Scan(&id); err != nil {
		return "", fmt.Errorf("save formula: %w", err)
	}

	s.logger.Debug("formula saved", zap.String("id", id))
	return id, nil
}

// Company is one row of the companies relation.
type Company struct {
	CIK    string   `json:"cik"`
	Ticker string   `json:"ticker"`
	Name   string   `json:"company"`
	Close  *float64 `json:"close,omitempty"`

	// CloseDate is the trading day of Close (YYYY-MM-DD).
	CloseDate string `json:"close_date,omitempty"`
}

// Fact is one reported value.
type Fact struct {
	CIK          string  `json:"cik"`
	Concept      string  `json:"concept"`
	FiscalYear   int     `json:"fiscal_year"`
	FiscalPeriod string  `json:"fiscal_period"`
	Duration     string  `json:"duration,omitempty"` // "" is stored as NULL
	EndDate      string  `json:"end_date"`
	Accn         string  `json:"accn"`
	Form         string  `json:"form"`
	Value        float64 `json:"value"`
}

// UpsertCompanies inserts or updates companies by CIK in one transaction.
// A company without a close price keeps the one already stored.
func (s *Store) UpsertCompanies(ctx context.Context, companies []Company) error {
	return s.inTx(ctx, "upsert companies", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO companies (cik, ticker, company, close_date, close)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(cik) DO UPDATE SET
				ticker = excluded.ticker,
				company = excluded.company,
				close_date = COALESCE(excluded.close_date, companies.close_date),
				close = COALESCE(excluded.close, companies.close)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range companies {
			if _, err := stmt.ExecContext(ctx, c.CIK, c.Ticker, c.Name, nullString(c.CloseDate), c.Close); err != nil {
				return fmt.Errorf("company %s: %w", c.CIK, err)
			}
		}
		return nil
	})
}

// UpdateClose records the latest close price of the company listed under
// ticker. Returns false when no company has that ticker.
func (s *Store) UpdateClose(ctx context.Context, ticker, date string, closePrice float64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE companies SET close = ?, close_date = ? WHERE ticker = ?
	`, closePrice, date, ticker)
	if err != nil {
		return false, fmt.Errorf("update close: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update close: %w", err)
	}
	return n > 0, nil
}

// UpsertFacts inserts facts in one transaction. A fact with the same
// company, concept, year, period and duration replaces the stored one.
func (s *Store) UpsertFacts(ctx context.Context, facts []Fact) error {
	return s.inTx(ctx, "upsert facts", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO facts
			(cik, concept, fiscal_year, fiscal_period, duration, end_date, accn, form, value)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, f := range facts {
			if _, err := stmt.ExecContext(ctx,
				f.CIK,
				f.Concept,
				f.FiscalYear,
				f.FiscalPeriod,
				nullString(f.Duration),
				f.EndDate,
				f.Accn,
				f.Form,
				f.Value,
			); err != nil {
				return fmt.Errorf("fact %s %s %d %s: %w", f.CIK, f.Concept, f.FiscalYear, f.FiscalPeriod, err)
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
