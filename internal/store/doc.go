// Package store provides SQLite-backed storage for company facts and
// saved formulas.
//
// The store holds three relations:
//   - Companies: one row per SEC registrant (cik, ticker, name, last close)
//   - Facts: one annual or quarterly value per company, concept label,
//     fiscal year, fiscal period and duration
//   - Formulas: submitted formula text keyed by an opaque UUIDv7 id
//
// Compiled formula queries run against companies and facts through Probe
// and Results. The store does not build queries itself.
//
// # Formula Identity
//
// Saving the same formula twice returns the first id. Formulas are
// compared by fingerprint: SHA-256 over a domain prefix, a null byte and
// the NFC-normalized text with whitespace collapsed.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait up to 5s for locks
//   - foreign_keys=ON: Facts must reference a known company
//
// Two drivers are supported: "sqlite3" (github.com/mattn/go-sqlite3, cgo)
// and "sqlite" (modernc.org/sqlite, pure Go).
package store
