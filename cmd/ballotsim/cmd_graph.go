package main

import (
	"encoding/json"
	"fmt"

	"github.com/nvandessel/ballotsim/internal/election"
	"github.com/nvandessel/ballotsim/internal/network"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the observation network",
		Long: `Output who observes whom in DOT (Graphviz) or JSON format. Each voter is
labelled with its first choice.

Examples:
  ballotsim graph | dot -Tsvg > electorate.svg
  ballotsim graph --graph-format json --voters 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("graph-format")
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				format = string(network.FormatJSON)
			}

			e, err := election.New(electionConfig(cfg))
			if err != nil {
				return err
			}
			g := e.Network()

			switch network.Format(format) {
			case network.FormatDOT:
				out, err := g.RenderDOT("electorate")
				if err != nil {
					return fmt.Errorf("render DOT: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), out)

			case network.FormatJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(g.RenderJSON()); err != nil {
					return fmt.Errorf("encode JSON: %w", err)
				}

			default:
				return fmt.Errorf("unsupported format %q (use 'dot' or 'json')", format)
			}

			return nil
		},
	}

	addSimulationFlags(cmd.Flags())
	cmd.Flags().String("graph-format", "dot", "Output format: dot or json")

	return cmd
}
