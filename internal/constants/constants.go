// Package constants provides named constants used throughout ballotsim.
// This centralizes the defaults the original experiment was run with.
package constants

// Default electorate, matching the reference run.
const (
	// DefaultVoterCount is the population size used when none is configured.
	DefaultVoterCount = 20

	// DefaultCandidateCount is the number of candidates on every ballot.
	DefaultCandidateCount = 5

	// DefaultSeed seeds the generator when none is configured.
	DefaultSeed int64 = 1052
)

// Validation bounds
const (
	// MinVoterCount is the smallest electorate that can hold an election.
	MinVoterCount = 1

	// MinCandidateCount is the smallest field ranked-choice voting can run on;
	// the last round always compares two candidates.
	MinCandidateCount = 2
)

// SweepPopulations are the electorate sizes the sweep command walks through
// by default.
var SweepPopulations = []int{20, 100, 1_000, 10_000}

// ConfigDirName is the per-user configuration directory under $HOME.
const ConfigDirName = ".ballotsim"
