package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/nvandessel/ballotsim/internal/config"
	"github.com/nvandessel/ballotsim/internal/election"
	"github.com/nvandessel/ballotsim/internal/voter"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// palette holds the text highlighters for one render.
type palette struct {
	heading func(a ...interface{}) string
	winner  func(a ...interface{}) string
	loser   func(a ...interface{}) string
	muted   func(a ...interface{}) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if !enabled {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		heading: mk(color.FgCyan, color.Bold),
		winner:  mk(color.FgGreen, color.Bold),
		loser:   mk(color.FgRed),
		muted:   mk(color.Faint),
	}
}

// writeStructured encodes v as JSON or YAML. It reports false for text.
func writeStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("encode JSON: %w", err)
		}
		return true, nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return true, fmt.Errorf("encode YAML: %w", err)
		}
		return true, nil
	default:
		return false, nil
	}
}

func writeReport(w io.Writer, out config.OutputConfig, r *election.Report) error {
	if done, err := writeStructured(w, out.Format, r); done {
		return err
	}

	p := newPalette(out.Color)
	fmt.Fprintf(w, "%s %d voters, %d candidates, seed %d\n",
		p.heading("Election:"), r.VoterCount, r.CandidateCount, r.Seed)

	n := r.Network
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.heading("Network"))
	fmt.Fprintf(w, "  edges %d  mean out-degree %.2f (sd %.2f)  reciprocal pairs %d\n",
		n.Edges, n.MeanOutDegree, n.StdDevOutDegree, n.ReciprocalPairs)
	fmt.Fprintf(w, "  isolated %d  unobserved %d  components %d (largest %d)\n",
		n.Isolated, n.Unobserved, n.Components, n.LargestComponent)
	if n.MaxInDegree > 0 {
		fmt.Fprintf(w, "  most observed %s (%d observers)\n", voter.Name(n.MostObserved), n.MaxInDegree)
	}

	writeOutcome(w, p, "First-past-the-post (sincere)", r.FPTPSincere)
	writeRankedChoice(w, p, "Ranked-choice (sincere)", r.RankedChoiceSincere)
	writeOutcome(w, p, "First-past-the-post (social)", r.FPTPSocial)
	writeRankedChoice(w, p, "Ranked-choice (social)", r.RankedChoiceSocial)
	return nil
}

func writeOutcome(w io.Writer, p palette, title string, o election.Outcome) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.heading(title))
	fmt.Fprintf(w, "  tally    %s\n", formatTally(o.Tally))
	fmt.Fprintf(w, "  winner   %s\n", p.winner(voter.CandidateName(o.WinnerID)))
	writeWelfare(w, p, o.Welfare)
}

func writeRankedChoice(w io.Writer, p palette, title string, o election.RankedChoiceOutcome) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.heading(title))
	for _, round := range o.Rounds {
		fmt.Fprintf(w, "  round %d  leader %s  eliminated %s  %s\n",
			round.Number,
			voter.CandidateName(round.WinnerID),
			p.loser(voter.CandidateName(round.LoserID)),
			p.muted(formatTally(round.Tally)))
	}
	fmt.Fprintf(w, "  final    %s\n", formatTally(o.FinalTally))
	fmt.Fprintf(w, "  winner   %s\n", p.winner(voter.CandidateName(o.FinalWinnerID)))
	writeWelfare(w, p, o.FinalWelfare)
}

// writeWelfare prints mean utilities; zero means every voter got its top choice.
func writeWelfare(w io.Writer, p palette, welfare []election.Welfare) {
	if len(welfare) == 0 {
		return
	}
	cardinal := make([]float64, len(welfare))
	ordinal := make([]float64, len(welfare))
	for i, wf := range welfare {
		cardinal[i] = float64(wf.Cardinal)
		ordinal[i] = float64(wf.Ordinal)
	}
	fmt.Fprintf(w, "  welfare  %s\n", p.muted(fmt.Sprintf("cardinal %.2f  ordinal %.2f",
		stat.Mean(cardinal, nil), stat.Mean(ordinal, nil))))
}

func formatTally(tally []int) string {
	parts := make([]string, len(tally))
	for id, n := range tally {
		parts[id] = fmt.Sprintf("%s=%d", voter.CandidateName(id), n)
	}
	return strings.Join(parts, " ")
}

func writeSweep(w io.Writer, out config.OutputConfig, rows []election.SweepRow) error {
	if done, err := writeStructured(w, out.Format, rows); done {
		return err
	}

	p := newPalette(out.Color)
	fmt.Fprintf(w, "%s\n", p.heading(fmt.Sprintf("%10s  %-12s  %-12s  %-12s  %-12s",
		"voters", "fptp", "ranked", "fptp/social", "ranked/social")))
	for _, row := range rows {
		fmt.Fprintf(w, "%10d  %-12s  %-12s  %-12s  %-12s\n",
			row.Voters,
			voter.CandidateName(row.FPTPSincere),
			voter.CandidateName(row.RankedChoiceSincere),
			voter.CandidateName(row.FPTPSocial),
			voter.CandidateName(row.RankedChoiceSocial))
	}
	return nil
}
