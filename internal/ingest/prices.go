package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Price is one closing price.
type Price struct {
	Ticker string
	Date   string
	Close  float64
}

var priceHeader = []string{"ticker", "date", "close"}

// ParsePrices reads a CSV of closing prices with the header
// "ticker,date,close". Tickers are upper-cased; dates must be YYYY-MM-DD.
func ParsePrices(r io.Reader) ([]Price, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(priceHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []Price{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse prices: %w", err)
	}
	for i, name := range priceHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), name) {
			return nil, fmt.Errorf("parse prices: header must be %s", strings.Join(priceHeader, ","))
		}
	}

	prices := []Price{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse prices: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if _, err := time.Parse(dateLayout, rec[1]); err != nil {
			return nil, fmt.Errorf("parse prices: line %d: bad date %q", line, rec[1])
		}
		closePrice, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parse prices: line %d: bad close %q", line, rec[2])
		}
		prices = append(prices, Price{
			Ticker: strings.ToUpper(strings.TrimSpace(rec[0])),
			Date:   rec[1],
			Close:  closePrice,
		})
	}
	return prices, nil
}
