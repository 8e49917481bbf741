// Package ingest loads SEC EDGAR data into the facts store.
//
// Three sources are understood:
//
//   - company_tickers.json, the SEC list of listed companies
//   - companyfacts JSON documents (one per company), either loose or
//     bundled in the nightly companyfacts.zip archive
//   - a CSV of closing prices (ticker,date,close)
//
// Parsing is pure: ParseTickers, ParseCompanyFacts and ParsePrices turn a
// reader into store rows without touching the database. Ingester wires
// the parsers to a *store.Store.
//
// Company facts are reduced to the line items named in the alias table.
// Only 10-K and 10-Q filings are read, and of each filing only its
// principal period (the latest end date reported for a tag) is kept, so
// comparative figures from earlier years never overwrite the filing that
// owns them. Fiscal period "FY" is stored as "Q4".
package ingest
