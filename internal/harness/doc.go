// Package harness runs formula scenarios: executable contract tests for
// validation, compilation and result queries.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	most_recent_year: 2023
//	universe:                 # optional, defaults to the builder universe
//	  years: ["2023", "2022"]
//	  concepts: ["Shares Outstanding", "Revenue", "Net Income"]
//	  base: "Shares Outstanding"
//	companies:
//	  - { cik: "0000000001", ticker: AAA, company: Alpha Corp, close: 10 }
//	facts:
//	  - { cik: "0000000001", concept: Revenue, year: 2023, duration: Year, value: 100 }
//	cases:
//	  - formula: "[2023 Revenue] > [2023 Net Income]"
//	    valid: true
//	    compile: true
//	    results: { tickers: [AAA] }
//	  - formula: "[2023 Revenue]"
//	    valid: false
//	    code: E201
//	    reason: "formula must be an inequality"
//
// Fact concepts are concept names; they are stored under their label
// ("Net Income" as NetIncome). Period defaults to Q4.
//
// # Deterministic Testing
//
// Every scenario runs in a fresh in-memory store with sequential formula
// ids and a stepping clock, so reports are identical across runs and can
// be compared against golden files with RunWithGolden.
package harness
