package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/ballotsim/internal/election"
	"github.com/nvandessel/ballotsim/internal/logging"
	"github.com/nvandessel/ballotsim/internal/network"
	"github.com/spf13/cobra"
)

// newTestRootCmd creates a root command with persistent flags for testing subcommands
func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ballotsim",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Config file")
	rootCmd.PersistentFlags().String("format", "", "Output format")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log level")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colour")
	return rootCmd
}

// isolateHome points HOME at a temp directory and clears BALLOTSIM_*
// overrides so that tests never read or write the real ~/.ballotsim/.
func isolateHome(t *testing.T) string {
	t.Helper()
	tmpHome := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(tmpHome, 0700); err != nil {
		t.Fatalf("Failed to create temp home: %v", err)
	}
	t.Setenv("HOME", tmpHome)
	for _, key := range []string{
		"BALLOTSIM_VOTERS", "BALLOTSIM_CANDIDATES", "BALLOTSIM_SEED",
		"BALLOTSIM_VERBOSE", "BALLOTSIM_WELFARE", "BALLOTSIM_FORMAT",
		"BALLOTSIM_LOG_LEVEL", "BALLOTSIM_LOG_DIR",
	} {
		t.Setenv(key, "")
	}
	return tmpHome
}

// execute runs one subcommand under a fresh test root and returns stdout.
func execute(t *testing.T, sub *cobra.Command, args ...string) (string, error) {
	t.Helper()
	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(sub)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	rootCmd := newRootCmd()
	want := map[string]bool{"version": false, "run": false, "sweep": false, "graph": false, "config": false}
	for _, sub := range rootCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command missing %q", name)
		}
	}
	for _, flag := range []string{"config", "format", "json", "log-level", "no-color"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("root command missing --%s", flag)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	isolateHome(t)

	out, err := execute(t, newVersionCmd(), "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "ballotsim version "+version) {
		t.Errorf("unexpected version output: %q", out)
	}

	out, err = execute(t, newVersionCmd(), "version", "--json")
	if err != nil {
		t.Fatalf("version --json failed: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if info["version"] != version {
		t.Errorf("version = %q", info["version"])
	}
}

func TestRunCmd_JSONDeterministic(t *testing.T) {
	isolateHome(t)

	first, err := execute(t, newRunCmd(), "run", "--json")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	second, err := execute(t, newRunCmd(), "run", "--json")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if first != second {
		t.Error("two default runs produced different output")
	}

	var report election.Report
	if err := json.Unmarshal([]byte(first), &report); err != nil {
		t.Fatalf("invalid JSON report: %v", err)
	}
	if report.VoterCount != 20 || report.CandidateCount != 5 || report.Seed != 1052 {
		t.Errorf("report header = %d/%d/%d", report.VoterCount, report.CandidateCount, report.Seed)
	}
}

func TestRunCmd_Text(t *testing.T) {
	isolateHome(t)

	out, err := execute(t, newRunCmd(), "run", "--no-color", "--voters", "12", "--candidates", "3")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{
		"Election: 12 voters, 3 candidates, seed 1052",
		"First-past-the-post (sincere)",
		"Ranked-choice (social)",
		"round 1",
		"winner",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("--no-color output contains escape sequences")
	}
}

func TestRunCmd_FlagsOverrideEnvironment(t *testing.T) {
	isolateHome(t)
	t.Setenv("BALLOTSIM_VOTERS", "30")
	t.Setenv("BALLOTSIM_SEED", "4")

	out, err := execute(t, newRunCmd(), "run", "--format", "json", "--voters", "12")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	var report election.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON report: %v", err)
	}
	if report.VoterCount != 12 {
		t.Errorf("VoterCount = %d, want flag value 12", report.VoterCount)
	}
	if report.Seed != 4 {
		t.Errorf("Seed = %d, want env value 4", report.Seed)
	}
}

func TestRunCmd_InvalidConfiguration(t *testing.T) {
	isolateHome(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no voters", []string{"run", "--voters", "0"}},
		{"one candidate", []string{"run", "--candidates", "1"}},
		{"unknown welfare", []string{"run", "--welfare", "rank"}},
		{"unknown format", []string{"run", "--format", "csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, newRunCmd(), tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRunCmd_VerboseCandidateWelfare(t *testing.T) {
	isolateHome(t)

	out, err := execute(t, newRunCmd(), "run", "--json", "--verbose", "--welfare", "candidate")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	var report election.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON report: %v", err)
	}
	if len(report.FPTPSincere.Welfare) != 20 {
		t.Errorf("expected 20 welfare entries, got %d", len(report.FPTPSincere.Welfare))
	}
}

func TestRunCmd_DecisionTrace(t *testing.T) {
	isolateHome(t)
	traceDir := t.TempDir()
	t.Setenv("BALLOTSIM_LOG_DIR", traceDir)

	if _, err := execute(t, newRunCmd(), "run", "--json", "--log-level", "debug", "--voters", "10"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(traceDir, logging.DecisionFile))
	if err != nil {
		t.Fatalf("decision trace not written: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// 10 voters: one social FPTP tally and four social ranked-choice tallies.
	if len(lines) != 50 {
		t.Errorf("expected 50 trace lines, got %d", len(lines))
	}
}

func TestSweepCmd(t *testing.T) {
	isolateHome(t)

	out, err := execute(t, newSweepCmd(), "sweep", "--json", "--populations", "20,30")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	var rows []election.SweepRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(rows) != 2 || rows[0].Voters != 20 || rows[1].Voters != 30 {
		t.Errorf("rows = %+v", rows)
	}

	text, err := execute(t, newSweepCmd(), "sweep", "--no-color", "--populations", "20")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if !strings.Contains(text, "voters") || !strings.Contains(text, "Candidate") {
		t.Errorf("unexpected sweep output:\n%s", text)
	}
}

func TestGraphCmd(t *testing.T) {
	isolateHome(t)

	out, err := execute(t, newGraphCmd(), "graph", "--voters", "8")
	if err != nil {
		t.Fatalf("graph failed: %v", err)
	}
	if !strings.Contains(out, "digraph electorate") {
		t.Errorf("expected DOT output, got: %s", out)
	}

	out, err = execute(t, newGraphCmd(), "graph", "--voters", "8", "--graph-format", "json")
	if err != nil {
		t.Fatalf("graph json failed: %v", err)
	}
	var g network.JSONGraph
	if err := json.Unmarshal([]byte(out), &g); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(g.Nodes) != 8 {
		t.Errorf("expected 8 nodes, got %d", len(g.Nodes))
	}
	for _, e := range g.Edges {
		if e.Observer == e.Observed {
			t.Errorf("self edge on voter %d", e.Observer)
		}
	}

	if _, err := execute(t, newGraphCmd(), "graph", "--graph-format", "html"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestConfigCmd_SetGetPath(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, newConfigCmd(), "config", "path", "--config", path)
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}

	if _, err := execute(t, newConfigCmd(), "config", "set", "simulation.voters", "75", "--config", path); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	out, err = execute(t, newConfigCmd(), "config", "get", "simulation.voters", "--config", path)
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if strings.TrimSpace(out) != "simulation.voters = 75" {
		t.Errorf("config get = %q", out)
	}

	out, err = execute(t, newConfigCmd(), "config", "list", "--config", path, "--format", "yaml")
	if err != nil {
		t.Fatalf("config list failed: %v", err)
	}
	if !strings.Contains(out, "voters: 75") {
		t.Errorf("config list missing saved value:\n%s", out)
	}
}

func TestConfigCmd_SetRejectsInvalid(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "set", "simulation.turnout", "1"}},
		{"not a number", []string{"config", "set", "simulation.voters", "many"}},
		{"fails validation", []string{"config", "set", "simulation.candidates", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--config", path)
			if _, err := execute(t, newConfigCmd(), args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("rejected values should not create the config file")
	}
}
