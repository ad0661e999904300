// Package engine ranks catalog brands and models against a free-text query.
//
// The engine is a pure function of its inputs: it performs no I/O, keeps no mutable state
// and never modifies the snapshot it is given, so one Engine may serve any number of
// concurrent searches.
package engine

import "github.com/pricewise/pricesearch/internal/lexicon"

// Limits holds the ranking thresholds and result caps.
type Limits struct {
	// BrandFloor is the minimum score for a brand candidate.
	BrandFloor float64
	// ModelFloor is the static minimum score for a model candidate.
	ModelFloor float64

	// StrongTop, StrongFloor and StrongSpread drive filtering when the top model score is
	// above StrongTop: entries below max(StrongFloor, top-StrongSpread) are dropped.
	StrongTop    float64
	StrongFloor  float64
	StrongSpread float64
	// FairTop, FairFloor and FairSpread apply the same rule one band lower.
	FairTop    float64
	FairFloor  float64
	FairSpread float64

	MaxBrands int
	MaxModels int
}

// DefaultLimits returns the tuned production thresholds.
func DefaultLimits() Limits {
	return Limits{
		BrandFloor:   0.7,
		ModelFloor:   0.4,
		StrongTop:    0.85,
		StrongFloor:  0.7,
		StrongSpread: 0.3,
		FairTop:      0.7,
		FairFloor:    0.5,
		FairSpread:   0.4,
		MaxBrands:    5,
		MaxModels:    20,
	}
}

// Engine scores and ranks catalog entries. It is safe for concurrent use.
type Engine struct {
	lex    *lexicon.Lexicon
	limits Limits
}

// Option configures an Engine.
type Option func(*Engine)

// WithLimits overrides the default thresholds and caps.
func WithLimits(l Limits) Option {
	return func(e *Engine) {
		e.limits = l
	}
}

// New creates an Engine over lex. A nil lexicon selects lexicon.Default().
func New(lex *lexicon.Lexicon, opts ...Option) *Engine {
	if lex == nil {
		lex = lexicon.Default()
	}
	e := &Engine{lex: lex, limits: DefaultLimits()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Limits returns the thresholds in effect.
func (e *Engine) Limits() Limits { return e.limits }

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
