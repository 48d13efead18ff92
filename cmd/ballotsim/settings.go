package main

import (
	"fmt"

	"github.com/nvandessel/ballotsim/internal/config"
	"github.com/nvandessel/ballotsim/internal/constants"
	"github.com/nvandessel/ballotsim/internal/election"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addSimulationFlags registers the electorate flags shared by run, sweep and
// graph. Unset flags leave the configured values alone.
func addSimulationFlags(flags *pflag.FlagSet) {
	flags.Int("voters", constants.DefaultVoterCount, "Number of voters")
	flags.Int("candidates", constants.DefaultCandidateCount, "Number of candidates")
	flags.Int64("seed", constants.DefaultSeed, "Random seed")
	flags.Bool("verbose", false, "Report welfare and log the electorate")
	flags.String("welfare", "position", "Welfare lookup: position or candidate")
}

// loadSettings layers config file, environment and command-line flags.
func loadSettings(cmd *cobra.Command) (*config.BallotConfig, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	var (
		cfg *config.BallotConfig
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flags.Changed("voters") {
		cfg.Simulation.Voters, _ = flags.GetInt("voters")
	}
	if flags.Changed("candidates") {
		cfg.Simulation.Candidates, _ = flags.GetInt("candidates")
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("verbose") {
		cfg.Simulation.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("welfare") {
		cfg.Simulation.Welfare, _ = flags.GetString("welfare")
	}
	if format, _ := flags.GetString("format"); format != "" {
		cfg.Output.Format = format
	}
	if jsonOut, _ := flags.GetBool("json"); jsonOut {
		cfg.Output.Format = "json"
	}
	if noColor, _ := flags.GetBool("no-color"); noColor {
		cfg.Output.Color = false
	}
	if level, _ := flags.GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func electionConfig(cfg *config.BallotConfig) election.Config {
	return election.Config{
		VoterCount:     cfg.Simulation.Voters,
		CandidateCount: cfg.Simulation.Candidates,
		Seed:           cfg.Simulation.Seed,
		Verbose:        cfg.Simulation.Verbose,
		Welfare:        election.WelfareMode(cfg.Simulation.Welfare),
	}
}
