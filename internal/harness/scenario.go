package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a formula scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// MostRecentYear anchors the default universe and Market Cap.
	MostRecentYear int `yaml:"most_recent_year"`

	// Universe overrides the default universe.
	Universe *UniverseSpec `yaml:"universe,omitempty"`

	// Companies and Facts seed the store before any case runs.
	Companies []CompanyRow `yaml:"companies,omitempty"`
	Facts     []FactRow    `yaml:"facts,omitempty"`

	// Cases run in order against the seeded store.
	Cases []Case `yaml:"cases"`
}

// UniverseSpec lists the years and concepts formulas may reference.
// A nil Base keeps the default base concept; "" opens every concept.
type UniverseSpec struct {
	Years    []string `yaml:"years"`
	Concepts []string `yaml:"concepts"`
	Base     *string  `yaml:"base,omitempty"`
}

// CompanyRow seeds one company.
type CompanyRow struct {
	CIK     string   `yaml:"cik"`
	Ticker  string   `yaml:"ticker"`
	Company string   `yaml:"company"`
	Close   *float64 `yaml:"close,omitempty"`
}

// FactRow seeds one fact.
type FactRow struct {
	CIK      string  `yaml:"cik"`
	Concept  string  `yaml:"concept"`
	Year     int     `yaml:"year"`
	Period   string  `yaml:"period,omitempty"`
	Duration string  `yaml:"duration,omitempty"`
	Value    float64 `yaml:"value"`
}

// Case is one formula and its expected verdict.
type Case struct {
	Formula string `yaml:"formula"`
	Valid   bool   `yaml:"valid"`

	// Code and Reason are checked when set. Code is required for invalid
	// cases.
	Code   string `yaml:"code,omitempty"`
	Reason string `yaml:"reason,omitempty"`

	// Compile records the compiled SQL of a valid formula in the report.
	Compile bool `yaml:"compile,omitempty"`

	// Results submits a valid formula and checks the matching tickers.
	Results *ResultsExpect `yaml:"results,omitempty"`
}

// ResultsExpect lists the tickers a formula must return, in order.
type ResultsExpect struct {
	Tickers []string `yaml:"tickers"`
	Limit   int      `yaml:"limit,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "case:" vs "cases:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, ordered by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	names := make(map[string]string, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if prev, dup := names[s.Name]; dup {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", filepath.Base(path), s.Name, prev)
		}
		names[s.Name] = filepath.Base(path)
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.MostRecentYear <= 0 {
		return fmt.Errorf("most_recent_year is required")
	}

	if u := s.Universe; u != nil {
		if len(u.Years) == 0 {
			return fmt.Errorf("universe.years must be non-empty")
		}
		if len(u.Concepts) == 0 {
			return fmt.Errorf("universe.concepts must be non-empty")
		}
	}

	ciks := make(map[string]bool, len(s.Companies))
	for i, c := range s.Companies {
		if c.CIK == "" || c.Ticker == "" {
			return fmt.Errorf("companies[%d]: cik and ticker are required", i)
		}
		ciks[c.CIK] = true
	}
	for i, f := range s.Facts {
		if !ciks[f.CIK] {
			return fmt.Errorf("facts[%d]: cik %q is not a listed company", i, f.CIK)
		}
		if f.Concept == "" || f.Year <= 0 {
			return fmt.Errorf("facts[%d]: concept and year are required", i)
		}
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}
	for i, c := range s.Cases {
		if c.Formula == "" {
			return fmt.Errorf("cases[%d]: formula is required", i)
		}
		if !c.Valid && c.Code == "" {
			return fmt.Errorf("cases[%d]: code is required for invalid cases", i)
		}
		if !c.Valid && (c.Compile || c.Results != nil) {
			return fmt.Errorf("cases[%d]: compile and results require a valid case", i)
		}
	}

	return nil
}
