// Package draw assigns every participant of a group one receiver, honoring
// each giver's exclusions. It is synchronous and keeps no state between calls
// beyond its random source.
package draw

import (
	"errors"
	"math/rand"
	"time"

	"github.com/gravadigital/amigo-secreto-api/internal/domain/participant"
)

// Mode tells which solver produced an assignment
type Mode string

const (
	ModeCircular   Mode = "circular"
	ModeMultiCycle Mode = "multi_cycle"
	ModePartial    Mode = "partial"
)

const (
	DefaultMaxAttempts        = 1000
	DefaultProbeAttempts      = 100
	DefaultMultiCycleAttempts = 1000
	DefaultMinCoverage        = 0.8
)

var (
	// ErrInfeasible is wrapped by InfeasibleError when a structural check fails
	ErrInfeasible = errors.New("draw is infeasible with the current exclusions")
	// ErrNoFullCoverage means not even a relaxed draw could give everyone a receiver
	ErrNoFullCoverage = errors.New("no draw covers every participant with the current exclusions")
	// ErrSearchExhausted means the static checks passed but the randomized search ran out of attempts
	ErrSearchExhausted = errors.New("could not complete the draw, please try again")
)

// InfeasibleError carries the analysis that explains why no draw was produced
type InfeasibleError struct {
	Validation   Validation
	RelaxedTried bool
}

func (e *InfeasibleError) Error() string {
	if e.RelaxedTried {
		return ErrNoFullCoverage.Error() + ": " + e.Validation.Reason
	}
	return e.Validation.Reason
}

func (e *InfeasibleError) Unwrap() error {
	if e.RelaxedTried {
		return ErrNoFullCoverage
	}
	return ErrInfeasible
}

// Options bounds every randomized search the engine runs
type Options struct {
	MaxAttempts        int
	ProbeAttempts      int
	MultiCycleAttempts int
	// AllowRelaxed lets Draw fall back to several disjoint cycles
	AllowRelaxed bool
	// AllowPartial lets Draw leave some participants out, as long as MinCoverage is met
	AllowPartial bool
	MinCoverage  float64
}

func DefaultOptions() Options {
	return Options{
		MaxAttempts:        DefaultMaxAttempts,
		ProbeAttempts:      DefaultProbeAttempts,
		MultiCycleAttempts: DefaultMultiCycleAttempts,
		AllowRelaxed:       true,
		MinCoverage:        DefaultMinCoverage,
	}
}

// Engine runs draws with an injected random source. Not safe for concurrent use;
// create one per request.
type Engine struct {
	rng  *rand.Rand
	opts Options
}

// NewEngine builds an engine; a nil rng is seeded from the clock and zero budgets take defaults.
func NewEngine(rng *rand.Rand, opts Options) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.ProbeAttempts <= 0 {
		opts.ProbeAttempts = DefaultProbeAttempts
	}
	if opts.MultiCycleAttempts <= 0 {
		opts.MultiCycleAttempts = DefaultMultiCycleAttempts
	}
	if opts.MinCoverage <= 0 || opts.MinCoverage > 1 {
		opts.MinCoverage = DefaultMinCoverage
	}

	return &Engine{rng: rng, opts: opts}
}

// NewSeededEngine replays the same draws for the same seed
func NewSeededEngine(seed int64, opts Options) *Engine {
	return NewEngine(rand.New(rand.NewSource(seed)), opts)
}

func (e *Engine) Options() Options {
	return e.opts
}

// Outcome is a successful draw
type Outcome struct {
	Mode       Mode       `json:"mode"`
	Assignment Assignment `json:"assignment"`
	// Coverage is the share of participants that give a gift, 1 unless Mode is partial
	Coverage   float64    `json:"coverage"`
	Validation Validation `json:"validation"`
}

// Draw validates the group and runs the solvers in order: circular, then
// multi-cycle and partial when the options allow them. When only the
// randomized search failed, with no structural cause found, the error is
// ErrSearchExhausted rather than an InfeasibleError.
func (e *Engine) Draw(participants []participant.Participant) (*Outcome, error) {
	v := e.Validate(participants)
	if !v.Valid && !v.CanRelax {
		return nil, &InfeasibleError{Validation: v}
	}

	g := newConstraintGraph(participants)

	// a missed probe with no structural cause still gets the full circular budget
	searchOnly := v.Valid || v.Code == CodeNoCircularDraw

	if searchOnly {
		if a, ok := e.circular(g, e.opts.MaxAttempts); ok {
			// a circle found after a missed probe proves the group valid
			return &Outcome{Mode: ModeCircular, Assignment: a, Coverage: 1, Validation: Validation{Valid: true}}, nil
		}
	}

	if e.opts.AllowRelaxed {
		if a, ok := e.multiCycle(g); ok {
			return &Outcome{Mode: ModeMultiCycle, Assignment: a, Coverage: 1, Validation: v}, nil
		}
	}

	if e.opts.AllowPartial {
		if a, coverage, ok := e.partial(g); ok {
			return &Outcome{Mode: ModePartial, Assignment: a, Coverage: coverage, Validation: v}, nil
		}
	}

	switch {
	case searchOnly:
		return nil, ErrSearchExhausted
	case e.opts.AllowRelaxed || e.opts.AllowPartial:
		return nil, &InfeasibleError{Validation: v, RelaxedTried: true}
	default:
		return nil, &InfeasibleError{Validation: v}
	}
}
