package engine

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jsripraj/stock-alchemy/internal/compiler"
	"github.com/jsripraj/stock-alchemy/internal/concept"
	"github.com/jsripraj/stock-alchemy/internal/formula"
	"github.com/jsripraj/stock-alchemy/internal/store"
)

// Engine serves formula requests against one facts store and one concept
// universe.
//
// Thread-safety: an Engine holds no mutable state besides its request
// Sequence and may be shared between goroutines, as long as the store is.
type Engine struct {
	store     *store.Store
	universe  concept.Universe
	compiler  *compiler.Compiler
	validator *formula.Validator
	logger    *zap.Logger
	seq       *Sequence
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine over s. Formulas resolve through u and Market Cap
// uses the shares outstanding of mostRecentYear.
//
// The engine validates with itself as the store Prober, so a formula is
// only valid if its compiled query runs.
func New(s *store.Store, u concept.Universe, mostRecentYear int, opts ...Option) *Engine {
	e := &Engine{
		store:    s,
		universe: u,
		compiler: compiler.New(u, mostRecentYear),
		logger:   zap.NewNop(),
		seq:      NewSequence(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.validator = formula.NewValidator(u,
		formula.WithProber(e),
		formula.WithLogger(e.logger),
	)
	return e
}

// Universe returns the concept universe formulas resolve through.
func (e *Engine) Universe() concept.Universe {
	return e.universe
}

// Compiler returns the engine's formula compiler.
func (e *Engine) Compiler() *compiler.Compiler {
	return e.compiler
}

// Probe implements formula.Prober: the formula is compiled with a limit of
// one row and run against the store.
func (e *Engine) Probe(ctx context.Context, text string) error {
	query, err := e.compiler.Compile(text, 1)
	if err != nil {
		return err
	}
	return e.store.Probe(ctx, query)
}

// Validate checks text, including the store probe.
func (e *Engine) Validate(ctx context.Context, text string) formula.Result {
	seq := e.seq.Next()
	res := e.validator.Validate(ctx, text)
	e.logger.Debug("formula validated",
		zap.Int64("seq", seq),
		zap.Bool("valid", res.Valid),
		zap.String("reason", res.Reason))
	return res
}

// Submit validates text and stores it. Invalid formulas are not stored
// and return an INVALID_FORMULA RuntimeError along with the verdict.
func (e *Engine) Submit(ctx context.Context, text string) (string, formula.Result, error) {
	res := e.Validate(ctx, text)
	if !res.Valid {
		return "", res, NewInvalidFormulaError("", res)
	}

	id, err := e.store.SaveFormula(ctx, text)
	if err != nil {
		return "", res, err
	}
	e.logger.Info("formula submitted", zap.String("id", id))
	return id, res, nil
}

// Results runs the formula stored under id and returns the companies
// that satisfy it, ordered by ticker. A limit of 0 means unlimited.
func (e *Engine) Results(ctx context.Context, id string, limit int) ([]store.ResultRow, error) {
	seq := e.seq.Next()

	text, err := e.store.ReadFormula(ctx, id)
	if errors.Is(err, store.ErrFormulaNotFound) {
		return nil, NewNotFoundError(id, err)
	}
	if err != nil {
		return nil, NewQueryError(id, err)
	}

	query, err := e.compiler.Compile(text, limit)
	if err != nil {
		e.logger.Warn("stored formula no longer compiles",
			zap.Int64("seq", seq),
			zap.String("id", id),
			zap.Error(err))
		return nil, &RuntimeError{
			Code:      ErrCodeInvalidFormula,
			Message:   "formula does not compile against the current universe",
			FormulaID: id,
			Err:       err,
		}
	}

	rows, err := e.store.Results(ctx, query)
	if err != nil {
		e.logger.Warn("results query failed",
			zap.Int64("seq", seq),
			zap.String("id", id),
			zap.Error(err))
		return nil, NewQueryError(id, err)
	}

	e.logger.Debug("results fetched",
		zap.Int64("seq", seq),
		zap.String("id", id),
		zap.Int("rows", len(rows)))
	return rows, nil
}

// Find submits text and returns its id and results.
func (e *Engine) Find(ctx context.Context, text string, limit int) (string, []store.ResultRow, error) {
	id, _, err := e.Submit(ctx, text)
	if err != nil {
		return "", nil, err
	}
	rows, err := e.Results(ctx, id, limit)
	if err != nil {
		return id, nil, err
	}
	return id, rows, nil
}
