package main

import (
	"fmt"

	"github.com/nvandessel/ballotsim/internal/election"
	"github.com/nvandessel/ballotsim/internal/logging"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one election",
		Long: `Draw an electorate and run first-past-the-post and ranked-choice voting,
first with sincere voters and then with social voters.

With --verbose, every procedure also reports voter welfare. The default
"position" welfare reads the winner id as a rank position and fails once
ranked-choice has shrunk the field below it; use --welfare candidate to
look the winner up by id instead.

At debug or trace log level every social vote is traced to
~/.ballotsim/decisions.jsonl.

Examples:
  ballotsim run                              # 20 voters, 5 candidates, seed 1052
  ballotsim run --voters 1000 --seed 7
  ballotsim run --verbose --welfare candidate --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
			decisions := logging.NewDecisionLogger(cfg.TraceDir(), cfg.Logging.Level)
			defer decisions.Close()

			report, err := election.Run(electionConfig(cfg),
				election.WithLogger(logger),
				election.WithDecisionLogger(decisions))
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}
			if path := decisions.Path(); path != "" {
				logger.Debug("decision trace written", "path", path)
			}

			return writeReport(cmd.OutOrStdout(), cfg.Output, report)
		},
	}

	addSimulationFlags(cmd.Flags())

	return cmd
}
