// Package config loads the application configuration.
//
// Configuration files are CUE (JSON is valid CUE) and are unified with the
// embedded #Config schema, so unknown fields, wrong types and out-of-range
// values are rejected with their source position. Omitted fields take the
// schema defaults, which reproduce the formula builder's universe.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/jsripraj/stock-alchemy/internal/concept"
	"github.com/jsripraj/stock-alchemy/internal/ingest"
	"github.com/jsripraj/stock-alchemy/internal/store"
)

//go:embed schema.cue
var schemaSource []byte

// Config is the decoded configuration.
type Config struct {
	Universe UniverseConfig `json:"universe"`
	Aliases  []AliasConfig  `json:"aliases,omitempty"`
	Store    StoreConfig    `json:"store"`
}

// UniverseConfig selects the years and concepts formulas may reference.
type UniverseConfig struct {
	Concepts       []string `json:"concepts,omitempty"`
	Base           string   `json:"base"`
	Years          int      `json:"years"`
	MostRecentYear int      `json:"most_recent_year"`
}

// AliasConfig maps one SEC tag to a concept name.
type AliasConfig struct {
	Tag     string `json:"tag"`
	Concept string `json:"concept"`
}

// StoreConfig locates the facts database.
type StoreConfig struct {
	Path   string `json:"path"`
	Driver string `json:"driver"`
}

// ConfigError is a configuration error with source position.
type ConfigError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg, err := Parse(nil, "default.cue")
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema: %v", err))
	}
	return cfg
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, path)
}

// Parse validates CUE source against #Config and decodes it. filename is
// used in error positions.
func Parse(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	user := ctx.CompileBytes(data, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	v := def.Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return Config{}, formatCUEError(err)
	}
	if err := cfg.check(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// check enforces the cross-field rules the schema cannot express.
func (c Config) check() error {
	names := c.concepts()
	known := make(map[string]bool, len(names))
	for _, n := range names {
		if known[n] {
			return &ConfigError{Field: "universe.concepts", Message: fmt.Sprintf("duplicate concept %q", n)}
		}
		known[n] = true
	}
	if c.Universe.Base != "" && !known[c.Universe.Base] {
		return &ConfigError{Field: "universe.base", Message: fmt.Sprintf("base %q is not a listed concept", c.Universe.Base)}
	}
	for i, a := range c.Aliases {
		if !known[a.Concept] {
			return &ConfigError{
				Field:   fmt.Sprintf("aliases[%d]", i),
				Message: fmt.Sprintf("concept %q is not a listed concept", a.Concept),
			}
		}
	}
	return nil
}

func (c Config) concepts() []string {
	if len(c.Universe.Concepts) == 0 {
		return concept.DefaultConcepts
	}
	return c.Universe.Concepts
}

// MostRecentYear returns the configured most recent fiscal year, or the
// year before now when none is set.
func (c Config) MostRecentYear(now time.Time) int {
	if c.Universe.MostRecentYear != 0 {
		return c.Universe.MostRecentYear
	}
	return now.Year() - 1
}

// ConceptUniverse builds the universe formulas are resolved against.
func (c Config) ConceptUniverse(now time.Time) concept.Universe {
	u := concept.NewUniverse(
		concept.YearsEndingAt(c.MostRecentYear(now), c.Universe.Years),
		c.concepts(),
	)
	u.Base = c.Universe.Base
	return u
}

// IngestAliases returns the SEC tag table, ingest.DefaultAliases when the
// file sets none.
func (c Config) IngestAliases() []ingest.Alias {
	if len(c.Aliases) == 0 {
		return ingest.DefaultAliases
	}
	aliases := make([]ingest.Alias, len(c.Aliases))
	for i, a := range c.Aliases {
		aliases[i] = ingest.Alias{Tag: a.Tag, Concept: a.Concept}
	}
	return aliases
}

// StoreOptions returns the store options selected by the file.
func (c Config) StoreOptions() []store.Option {
	return []store.Option{store.WithDriver(c.Store.Driver)}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	field := "config"
	if path := first.Path(); len(path) > 0 {
		field = strings.Join(path, ".")
	}
	msg, args := first.Msg()
	if positions := errors.Positions(first); len(positions) > 0 {
		return &ConfigError{
			Field:   field,
			Message: fmt.Sprintf(msg, args...),
			Pos:     positions[0],
		}
	}
	return &ConfigError{Field: field, Message: fmt.Sprintf(msg, args...)}
}
