package ingest

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/jsripraj/stock-alchemy/internal/store"
)

// PadCIK renders a central index key as the ten-digit form used in
// company facts file names.
func PadCIK(cik int64) string {
	return fmt.Sprintf("%010d", cik)
}

// ParseTickers reads the SEC company_tickers.json document:
//
//	{"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."}, ...}
//
// Companies come back in document rank order. A CIK listed under several
// tickers keeps its first (highest ranked) ticker.
func ParseTickers(r io.Reader) ([]store.Company, error) {
	doc, err := oj.Load(r)
	if err != nil {
		return nil, fmt.Errorf("parse tickers: %w", err)
	}
	entries, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse tickers: expected object, got %T", doc)
	}

	type ranked struct {
		rank  int
		entry map[string]any
	}
	rows := make([]ranked, 0, len(entries))
	for key, v := range entries {
		rank, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("parse tickers: entry key %q is not a rank", key)
		}
		entry, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parse tickers: entry %s is not an object", key)
		}
		rows = append(rows, ranked{rank: rank, entry: entry})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].rank < rows[j].rank })

	seen := make(map[string]bool, len(rows))
	companies := make([]store.Company, 0, len(rows))
	for _, row := range rows {
		cik, ok := asInt(row.entry["cik_str"])
		if !ok {
			return nil, fmt.Errorf("parse tickers: entry %d has no cik_str", row.rank)
		}
		ticker, _ := row.entry["ticker"].(string)
		title, _ := row.entry["title"].(string)
		if ticker == "" {
			return nil, fmt.Errorf("parse tickers: entry %d has no ticker", row.rank)
		}

		padded := PadCIK(cik)
		if seen[padded] {
			continue
		}
		seen[padded] = true
		companies = append(companies, store.Company{
			CIK:    padded,
			Ticker: strings.ToUpper(ticker),
			Name:   title,
		})
	}
	return companies, nil
}

// asInt accepts the numeric forms a JSON decoder produces for an integer.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
