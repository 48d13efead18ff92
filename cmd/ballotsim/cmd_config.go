package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/nvandessel/ballotsim/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ballotsim configuration",
		Long: `View and modify ballotsim configuration settings.

Configuration is stored in ~/.ballotsim/config.yaml. BALLOTSIM_* environment
variables and command-line flags override it.

Examples:
  ballotsim config list                        # Show effective settings
  ballotsim config get simulation.seed         # Get a specific setting
  ballotsim config set simulation.voters 100   # Set a setting
  ballotsim config path                        # Show the config file location`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
		newConfigPathCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if done, err := writeStructured(cmd.OutOrStdout(), cfg.Output.Format, cfg); done {
				return err
			}

			p := newPalette(cfg.Output.Color)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, p.heading("Simulation Settings:"))
			for _, key := range []string{"simulation.voters", "simulation.candidates", "simulation.seed", "simulation.verbose", "simulation.welfare"} {
				value, _ := getConfigValue(cfg, key)
				fmt.Fprintf(out, "  %-22s %v\n", key+":", value)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, p.heading("Output Settings:"))
			for _, key := range []string{"output.format", "output.color"} {
				value, _ := getConfigValue(cfg, key)
				fmt.Fprintf(out, "  %-22s %v\n", key+":", value)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, p.heading("Logging Settings:"))
			fmt.Fprintf(out, "  %-22s %s\n", "logging.level:", valueOrDefault(cfg.Logging.Level, "(default)"))
			fmt.Fprintf(out, "  %-22s %s\n", "logging.dir:", cfg.TraceDir())

			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]

			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			value, found := getConfigValue(cfg, key)
			if !found {
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"key":   key,
					"value": value,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key, value := args[0], args[1]

			path, err := configFilePath(cmd)
			if err != nil {
				return err
			}

			// Only the file's own contents are rewritten; environment
			// overrides are not persisted.
			cfg, err := config.LoadFromFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				cfg, err = config.Default(), nil
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if err := setConfigValue(cfg, key, value); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"status": "updated",
					"key":    key,
					"value":  value,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func configFilePath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	path, err := config.Path()
	if err != nil {
		return "", fmt.Errorf("failed to locate config: %w", err)
	}
	return path, nil
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.BallotConfig, key string) (interface{}, bool) {
	switch key {
	case "simulation.voters":
		return cfg.Simulation.Voters, true
	case "simulation.candidates":
		return cfg.Simulation.Candidates, true
	case "simulation.seed":
		return cfg.Simulation.Seed, true
	case "simulation.verbose":
		return cfg.Simulation.Verbose, true
	case "simulation.welfare":
		return cfg.Simulation.Welfare, true
	case "output.format":
		return cfg.Output.Format, true
	case "output.color":
		return cfg.Output.Color, true
	case "logging.level":
		return cfg.Logging.Level, true
	case "logging.dir":
		return cfg.TraceDir(), true
	default:
		return nil, false
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.BallotConfig, key, value string) error {
	switch key {
	case "simulation.voters":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid voter count: %s", value)
		}
		cfg.Simulation.Voters = n
	case "simulation.candidates":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid candidate count: %s", value)
		}
		cfg.Simulation.Candidates = n
	case "simulation.seed":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed: %s", value)
		}
		cfg.Simulation.Seed = n
	case "simulation.verbose":
		cfg.Simulation.Verbose = value == "true" || value == "1"
	case "simulation.welfare":
		cfg.Simulation.Welfare = value
	case "output.format":
		cfg.Output.Format = value
	case "output.color":
		cfg.Output.Color = value == "true" || value == "1"
	case "logging.level":
		cfg.Logging.Level = value
	case "logging.dir":
		cfg.Logging.Dir = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// valueOrDefault returns the value if non-empty, otherwise the default.
func valueOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
