package main

import (
	"fmt"

	"github.com/nvandessel/ballotsim/internal/constants"
	"github.com/nvandessel/ballotsim/internal/election"
	"github.com/nvandessel/ballotsim/internal/logging"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare winners across population sizes",
		Long: `Run one election per population size with the same candidates and seed,
and print the four winners of each.

Examples:
  ballotsim sweep
  ballotsim sweep --populations 20,50,200 --candidates 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			populations, _ := cmd.Flags().GetIntSlice("populations")
			if len(populations) == 0 {
				return fmt.Errorf("no populations given")
			}

			logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
			rows, err := election.Sweep(electionConfig(cfg), populations, election.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("sweep failed: %w", err)
			}

			return writeSweep(cmd.OutOrStdout(), cfg.Output, rows)
		},
	}

	addSimulationFlags(cmd.Flags())
	cmd.Flags().IntSlice("populations", constants.SweepPopulations, "Voter counts to simulate")

	return cmd
}
