package election

import (
	"fmt"
)

// Welfare is one voter's satisfaction with a winner, measured against its own
// top choice. Zero means the winner is the voter's favourite.
type Welfare struct {
	VoterID  int `json:"voter_id" yaml:"voter_id"`
	Cardinal int `json:"cardinal_utility" yaml:"cardinal_utility"`
	Ordinal  int `json:"ordinal_utility" yaml:"ordinal_utility"`
}

// Outcome is the result of a single tally.
type Outcome struct {
	WinnerID int       `json:"winner_id" yaml:"winner_id"`
	LoserID  int       `json:"loser_id" yaml:"loser_id"`
	Tally    []int     `json:"tally" yaml:"tally"`
	Welfare  []Welfare `json:"welfare,omitempty" yaml:"welfare,omitempty"`
}

// Round is one elimination round of ranked-choice voting. The round winner
// is reported for information only; it need not be the final winner.
type Round struct {
	Number   int       `json:"number" yaml:"number"`
	WinnerID int       `json:"winner_id" yaml:"winner_id"`
	LoserID  int       `json:"loser_id" yaml:"loser_id"`
	Tally    []int     `json:"tally" yaml:"tally"`
	Welfare  []Welfare `json:"welfare,omitempty" yaml:"welfare,omitempty"`
}

// RankedChoiceOutcome is the result of instant-runoff voting.
type RankedChoiceOutcome struct {
	Rounds        []Round   `json:"rounds" yaml:"rounds"`
	FinalWinnerID int       `json:"final_winner_id" yaml:"final_winner_id"`
	FinalTally    []int     `json:"final_tally" yaml:"final_tally"`
	FinalWelfare  []Welfare `json:"final_welfare,omitempty" yaml:"final_welfare,omitempty"`
}

func procedureName(name string, social bool) string {
	if social {
		return name + "/social"
	}
	return name + "/sincere"
}

// FirstPastThePost restores every ranking and holds one plurality vote over
// the full field. Ties go to the lowest candidate id.
func (e *Election) FirstPastThePost(social bool) (Outcome, error) {
	name := procedureName("fptp", social)
	e.resetCandidates()

	votes := e.castVotes(name, 0, social)
	winner, loser := standings(votes, e.fullField())

	welfare, err := e.welfare(winner)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", name, err)
	}

	e.logger.Info("winner", "procedure", name, "candidate", winner)
	return Outcome{WinnerID: winner, LoserID: loser, Tally: votes, Welfare: welfare}, nil
}

// RankedChoice restores every ranking and holds candidate_count-1 tallies.
// Each of the first candidate_count-2 removes the least supported remaining
// candidate from every ballot; the last decides between the final two.
func (e *Election) RankedChoice(social bool) (RankedChoiceOutcome, error) {
	name := procedureName("ranked-choice", social)
	e.resetCandidates()

	remaining := e.fullField()
	var out RankedChoiceOutcome
	for round := 1; round <= e.cfg.CandidateCount-2; round++ {
		votes := e.castVotes(name, round, social)
		winner, loser := standings(votes, remaining)

		welfare, err := e.welfare(winner)
		if err != nil {
			return RankedChoiceOutcome{}, fmt.Errorf("%s: round %d: %w", name, round, err)
		}

		e.logger.Debug("round",
			"procedure", name,
			"round", round,
			"winner", winner,
			"loser", loser)

		out.Rounds = append(out.Rounds, Round{
			Number:   round,
			WinnerID: winner,
			LoserID:  loser,
			Tally:    votes,
			Welfare:  welfare,
		})

		e.removeCandidate(loser)
		remaining[loser] = false
	}

	votes := e.castVotes(name, e.cfg.CandidateCount-1, social)
	winner, _ := standings(votes, remaining)

	welfare, err := e.welfare(winner)
	if err != nil {
		return RankedChoiceOutcome{}, fmt.Errorf("%s: final round: %w", name, err)
	}

	e.logger.Info("winner", "procedure", name, "candidate", winner)
	out.FinalWinnerID = winner
	out.FinalTally = votes
	out.FinalWelfare = welfare
	return out, nil
}

func (e *Election) fullField() []bool {
	field := make([]bool, e.cfg.CandidateCount)
	for i := range field {
		field[i] = true
	}
	return field
}

// castVotes tallies one vote per voter, indexed by candidate id.
func (e *Election) castVotes(procedure string, round int, social bool) []int {
	votes := make([]int, e.cfg.CandidateCount)
	for _, v := range e.voters {
		if !social {
			votes[v.Vote()]++
			continue
		}

		d := v.Decide(e)
		votes[d.CandidateID]++
		if e.decisions != nil {
			e.decisions.Log(map[string]any{
				"procedure": procedure,
				"round":     round,
				"voter":     d.VoterID,
				"sincere":   d.Sincere,
				"vote":      d.CandidateID,
				"rule":      string(d.Rule),
				"neighbors": d.Neighbors,
			})
		}
	}
	return votes
}

// standings returns the most and least voted candidates among those still in
// the field, breaking ties toward the lowest id.
func standings(votes []int, field []bool) (winner, loser int) {
	winner, loser = -1, -1
	for id, n := range votes {
		if !field[id] {
			continue
		}
		if winner < 0 || n > votes[winner] {
			winner = id
		}
		if loser < 0 || n < votes[loser] {
			loser = id
		}
	}
	return winner, loser
}

// welfare measures every voter's utility for the winner. It is only computed
// for verbose elections.
func (e *Election) welfare(winnerID int) ([]Welfare, error) {
	if !e.cfg.Verbose {
		return nil, nil
	}

	out := make([]Welfare, 0, len(e.voters))
	for _, v := range e.voters {
		w := Welfare{VoterID: v.ID}
		var err error
		switch e.cfg.Welfare {
		case WelfareByCandidate:
			w.Cardinal, w.Ordinal, err = v.CandidateUtility(winnerID)
		default:
			if w.Cardinal, err = v.CardinalUtility(winnerID); err == nil {
				w.Ordinal, err = v.OrdinalUtility(winnerID)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("welfare for candidate %d: %w", winnerID, err)
		}
		out = append(out, w)
	}
	return out, nil
}
