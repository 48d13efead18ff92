// Package election runs simulated elections over a population of voters.
//
// One Election owns a seeded generator and the voters drawn from it. Every
// voting procedure starts by restoring each voter's original ranking, so the
// four procedures Simulate runs all see the same initial electorate.
package election

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/nvandessel/ballotsim/internal/constants"
	"github.com/nvandessel/ballotsim/internal/logging"
	"github.com/nvandessel/ballotsim/internal/voter"
)

// ErrInvalidConfiguration is returned when an election cannot be held with the
// requested population or field.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ConfigError names the offending parameter.
type ConfigError struct {
	Field string
	Value int
	Min   int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s must be at least %d, got %d", e.Field, e.Min, e.Value)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }

// WelfareMode selects how the winner is located in each voter's ranking when
// utilities are measured.
type WelfareMode string

const (
	// WelfareByPosition reads the winner id as a rank position in the
	// voter's current ranking. Once the field shrinks below the winner id
	// this fails with voter.ErrIndexOutOfRange.
	WelfareByPosition WelfareMode = "position"
	// WelfareByCandidate looks the winner up by candidate id.
	WelfareByCandidate WelfareMode = "candidate"
)

// Config describes one election.
type Config struct {
	VoterCount     int
	CandidateCount int
	Seed           int64
	Verbose        bool
	Welfare        WelfareMode
}

// Validate checks the population and field sizes.
func (c Config) Validate() error {
	if c.VoterCount < constants.MinVoterCount {
		return &ConfigError{Field: "voter_count", Value: c.VoterCount, Min: constants.MinVoterCount}
	}
	if c.CandidateCount < constants.MinCandidateCount {
		return &ConfigError{Field: "candidate_count", Value: c.CandidateCount, Min: constants.MinCandidateCount}
	}
	switch c.Welfare {
	case "", WelfareByPosition, WelfareByCandidate:
	default:
		return fmt.Errorf("%w: unknown welfare mode %q", ErrInvalidConfiguration, c.Welfare)
	}
	return nil
}

// Option configures an Election.
type Option func(*Election)

// WithLogger sets the operational logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Election) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDecisionLogger traces every social vote to dl.
func WithDecisionLogger(dl *logging.DecisionLogger) Option {
	return func(e *Election) { e.decisions = dl }
}

// Election is a single electorate and the generator it was drawn from.
type Election struct {
	cfg       Config
	rng       *rand.Rand
	voters    []*voter.Voter
	logger    *slog.Logger
	decisions *logging.DecisionLogger
}

// New validates cfg, seeds the generator and draws the voters in id order.
// Nothing is drawn when validation fails.
func New(cfg Config, opts ...Option) (*Election, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Welfare == "" {
		cfg.Welfare = WelfareByPosition
	}

	seed := uint64(cfg.Seed)
	e := &Election{
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(seed, seed)),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.voters = make([]*voter.Voter, cfg.VoterCount)
	for i := range e.voters {
		e.voters[i] = voter.New(i, cfg.VoterCount, cfg.CandidateCount, e.rng)
	}

	e.logger.Debug("electorate drawn",
		"voters", cfg.VoterCount,
		"candidates", cfg.CandidateCount,
		"seed", cfg.Seed)
	return e, nil
}

// Config returns the election's configuration.
func (e *Election) Config() Config { return e.cfg }

// Voters returns the electorate in id order. The voters are live.
func (e *Election) Voters() []*voter.Voter { return e.voters }

// TopChoice implements voter.Population.
func (e *Election) TopChoice(voterID int) voter.Candidate {
	return e.voters[voterID].Top()
}

func (e *Election) resetCandidates() {
	for _, v := range e.voters {
		v.Reset()
	}
}

func (e *Election) removeCandidate(candidateID int) {
	for _, v := range e.voters {
		v.RemoveCandidate(candidateID)
	}
}
