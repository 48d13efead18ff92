// Package config provides unified configuration loading for ballotsim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nvandessel/ballotsim/internal/constants"
	"gopkg.in/yaml.v3"
)

// BallotConfig contains all ballotsim configuration settings.
type BallotConfig struct {
	// Simulation describes the electorate and how welfare is measured.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Output controls how reports are rendered.
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging contains settings for operational and decision logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig describes one simulated election.
type SimulationConfig struct {
	Voters     int   `json:"voters" yaml:"voters"`
	Candidates int   `json:"candidates" yaml:"candidates"`
	Seed       int64 `json:"seed" yaml:"seed"`

	// Verbose adds per-round welfare and dumps the electorate at debug level.
	Verbose bool `json:"verbose" yaml:"verbose"`

	// Welfare selects how the winner is located in each voter's ranking:
	// "position" treats the winner id as a rank position, "candidate" looks
	// the winner up by id.
	Welfare string `json:"welfare" yaml:"welfare"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	// Format is "text", "json" or "yaml".
	Format string `json:"format" yaml:"format"`

	// Color enables ANSI colour in text output.
	Color bool `json:"color" yaml:"color"`
}

// LoggingConfig configures ballotsim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables decision logging to Dir/decisions.jsonl.
	Level string `json:"level" yaml:"level"`

	// Dir is where decision traces are written. Defaults to ~/.ballotsim.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// Default returns a BallotConfig with the reference run's settings.
func Default() *BallotConfig {
	return &BallotConfig{
		Simulation: SimulationConfig{
			Voters:     constants.DefaultVoterCount,
			Candidates: constants.DefaultCandidateCount,
			Seed:       constants.DefaultSeed,
			Verbose:    false,
			Welfare:    "position",
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(homeDir, constants.ConfigDirName, "config.yaml"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.ballotsim/config.yaml -> environment variables
func Load() (*BallotConfig, error) {
	configPath, _ := Path()
	return LoadFrom(configPath)
}

// LoadFrom is Load with an explicit config file. A missing file is not an
// error; the defaults and environment still apply.
func LoadFrom(configPath string) (*BallotConfig, error) {
	config := Default()

	if configPath != "" {
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file. Keys missing
// from the file keep their defaults.
func LoadFromFile(path string) (*BallotConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Save writes the configuration as YAML, creating the parent directory.
func (c *BallotConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *BallotConfig) Validate() error {
	if c.Simulation.Voters < constants.MinVoterCount {
		return fmt.Errorf("voters must be at least %d, got %d", constants.MinVoterCount, c.Simulation.Voters)
	}

	if c.Simulation.Candidates < constants.MinCandidateCount {
		return fmt.Errorf("candidates must be at least %d, got %d", constants.MinCandidateCount, c.Simulation.Candidates)
	}

	validWelfare := map[string]bool{"position": true, "candidate": true}
	if !validWelfare[c.Simulation.Welfare] {
		return fmt.Errorf("invalid welfare mode: %s (valid: position, candidate)", c.Simulation.Welfare)
	}

	validFormats := map[string]bool{"text": true, "json": true, "yaml": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format: %s (valid: text, json, yaml)", c.Output.Format)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// TraceDir returns the directory decision traces are written to.
func (c *BallotConfig) TraceDir() string {
	if c.Logging.Dir != "" {
		return c.Logging.Dir
	}
	if configPath, err := Path(); err == nil {
		return filepath.Dir(configPath)
	}
	return constants.ConfigDirName
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *BallotConfig) {
	if v := os.Getenv("BALLOTSIM_VOTERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Voters = n
		}
	}

	if v := os.Getenv("BALLOTSIM_CANDIDATES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Candidates = n
		}
	}

	if v := os.Getenv("BALLOTSIM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Simulation.Seed = n
		}
	}

	if v := os.Getenv("BALLOTSIM_VERBOSE"); v != "" {
		config.Simulation.Verbose = v == "true" || v == "1"
	}

	if v := os.Getenv("BALLOTSIM_WELFARE"); v != "" {
		config.Simulation.Welfare = v
	}

	if v := os.Getenv("BALLOTSIM_FORMAT"); v != "" {
		config.Output.Format = v
	}

	if v := os.Getenv("NO_COLOR"); v != "" {
		config.Output.Color = false
	}

	if v := os.Getenv("BALLOTSIM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("BALLOTSIM_LOG_DIR"); v != "" {
		config.Logging.Dir = v
	}
}
