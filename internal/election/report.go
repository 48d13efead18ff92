package election

import (
	"context"
	"fmt"

	"github.com/nvandessel/ballotsim/internal/logging"
	"github.com/nvandessel/ballotsim/internal/network"
	"github.com/nvandessel/ballotsim/internal/voter"
)

// VoterSnapshot is one voter's observation row and current ranking.
type VoterSnapshot struct {
	ID          int               `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Connections []int             `json:"connections" yaml:"connections,flow"`
	Rankings    []voter.Candidate `json:"rankings" yaml:"rankings"`
	Influence   float64           `json:"influence" yaml:"influence"`
}

// Statistics describes the electorate as it currently stands.
type Statistics struct {
	Voters  []VoterSnapshot `json:"voters" yaml:"voters"`
	Network network.Summary `json:"network" yaml:"network"`
}

// Network builds the observation graph, labelling each voter with its
// current top choice.
func (e *Election) Network() *network.Graph {
	rows := make([][]uint8, len(e.voters))
	nodes := make([]network.Node, len(e.voters))
	for i, v := range e.voters {
		rows[i] = v.Connections()
		nodes[i] = network.Node{
			Name:  v.Name,
			Label: fmt.Sprintf("%s (%s)", v.Name, v.Top().Name),
		}
	}
	return network.Build(rows, nodes)
}

// Statistics snapshots every voter and summarises the observation graph.
// Verbose elections also dump the snapshot to the logger. It does not change
// any state.
func (e *Election) Statistics() Statistics {
	g := e.Network()
	influence := g.Influence(network.DefaultInfluenceConfig())

	stats := Statistics{
		Voters:  make([]VoterSnapshot, len(e.voters)),
		Network: g.Summarize(),
	}
	for i, v := range e.voters {
		row := v.Connections()
		conns := make([]int, len(row))
		for j, bit := range row {
			conns[j] = int(bit)
		}
		stats.Voters[i] = VoterSnapshot{
			ID:          v.ID,
			Name:        v.Name,
			Connections: conns,
			Rankings:    v.Rankings(),
			Influence:   influence[i],
		}
	}

	if e.cfg.Verbose {
		e.logStatistics(stats)
	}
	return stats
}

func (e *Election) logStatistics(stats Statistics) {
	ctx := context.Background()
	e.logger.Debug("network",
		"edges", stats.Network.Edges,
		"isolated", stats.Network.Isolated,
		"components", stats.Network.Components)
	for _, s := range stats.Voters {
		e.logger.Debug("connections", "voter", s.Name, "row", fmt.Sprint(s.Connections))
		e.logger.Log(ctx, logging.LevelTrace, "first choice", "voter", s.Name, "candidate", s.Rankings[0].Name)
		for _, c := range s.Rankings {
			e.logger.Log(ctx, logging.LevelTrace, "ranking",
				"voter", s.Name,
				"candidate", c.Name,
				"score", c.Score,
				"place", c.Place)
		}
	}
}

// Report is everything one simulation run produces. Two runs with the same
// voter count, candidate count and seed produce identical reports.
type Report struct {
	VoterCount     int         `json:"voter_count" yaml:"voter_count"`
	CandidateCount int         `json:"candidate_count" yaml:"candidate_count"`
	Seed           int64       `json:"seed" yaml:"seed"`
	Verbose        bool        `json:"verbose" yaml:"verbose"`
	Welfare        WelfareMode `json:"welfare_mode" yaml:"welfare_mode"`

	Network network.Summary `json:"network" yaml:"network"`
	Voters  []VoterSnapshot `json:"voters" yaml:"voters"`

	FPTPSincere         Outcome             `json:"fptp_sincere" yaml:"fptp_sincere"`
	RankedChoiceSincere RankedChoiceOutcome `json:"ranked_choice_sincere" yaml:"ranked_choice_sincere"`
	FPTPSocial          Outcome             `json:"fptp_social" yaml:"fptp_social"`
	RankedChoiceSocial  RankedChoiceOutcome `json:"ranked_choice_social" yaml:"ranked_choice_social"`
}

// Run draws one electorate and runs, in order, first-past-the-post and
// ranked-choice with sincere voters, then both again with social voters.
// The first error aborts the run.
func Run(cfg Config, opts ...Option) (*Report, error) {
	e, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	stats := e.Statistics()
	r := &Report{
		VoterCount:     e.cfg.VoterCount,
		CandidateCount: e.cfg.CandidateCount,
		Seed:           e.cfg.Seed,
		Verbose:        e.cfg.Verbose,
		Welfare:        e.cfg.Welfare,
		Network:        stats.Network,
		Voters:         stats.Voters,
	}

	if err := e.hold(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (e *Election) hold(r *Report) error {
	var err error
	if r.FPTPSincere, err = e.FirstPastThePost(false); err != nil {
		return err
	}
	if r.RankedChoiceSincere, err = e.RankedChoice(false); err != nil {
		return err
	}
	if r.FPTPSocial, err = e.FirstPastThePost(true); err != nil {
		return err
	}
	if r.RankedChoiceSocial, err = e.RankedChoice(true); err != nil {
		return err
	}
	return nil
}

// SweepRow holds the four winners of one population size.
type SweepRow struct {
	Voters              int `json:"voters" yaml:"voters"`
	FPTPSincere         int `json:"fptp_sincere" yaml:"fptp_sincere"`
	RankedChoiceSincere int `json:"ranked_choice_sincere" yaml:"ranked_choice_sincere"`
	FPTPSocial          int `json:"fptp_social" yaml:"fptp_social"`
	RankedChoiceSocial  int `json:"ranked_choice_social" yaml:"ranked_choice_social"`
}

// Sweep holds one election per population size, keeping every other
// setting of cfg. Electorates are not snapshotted, so large populations stay
// cheap.
func Sweep(cfg Config, populations []int, opts ...Option) ([]SweepRow, error) {
	rows := make([]SweepRow, 0, len(populations))
	for _, n := range populations {
		cfg.VoterCount = n
		e, err := New(cfg, opts...)
		if err != nil {
			return nil, err
		}

		var r Report
		if err := e.hold(&r); err != nil {
			return nil, fmt.Errorf("%d voters: %w", n, err)
		}
		e.logger.Info("population done", "voters", n)
		rows = append(rows, SweepRow{
			Voters:              n,
			FPTPSincere:         r.FPTPSincere.WinnerID,
			RankedChoiceSincere: r.RankedChoiceSincere.FinalWinnerID,
			FPTPSocial:          r.FPTPSocial.WinnerID,
			RankedChoiceSocial:  r.RankedChoiceSocial.FinalWinnerID,
		})
	}
	return rows, nil
}

// Simulate runs one election with position-indexed welfare.
func Simulate(voterCount, candidateCount int, seed int64, verbose bool, opts ...Option) (*Report, error) {
	return Run(Config{
		VoterCount:     voterCount,
		CandidateCount: candidateCount,
		Seed:           seed,
		Verbose:        verbose,
		Welfare:        WelfareByPosition,
	}, opts...)
}
