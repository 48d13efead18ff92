package voter

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Population resolves the current sincere choice of another voter.
type Population interface {
	TopChoice(voterID int) Candidate
}

// Rule names the branch of the social decision that produced a vote.
type Rule string

const (
	// RuleNoNeighbors: the voter observes nobody and votes sincerely.
	RuleNoNeighbors Rule = "sincere-no-neighbors"
	// RulePopularSincere: the sincere choice already leads the neighbors' tally.
	RulePopularSincere Rule = "popular-sincere"
	// RuleDeferToPlace: the sincere choice leads on average score, so the vote
	// goes to the candidate neighbors rank most consistently high.
	RuleDeferToPlace Rule = "defer-average-place"
	// RuleReinforcePlace: the sincere choice leads on average place.
	RuleReinforcePlace Rule = "reinforce-average-place"
	// RuleCompromise: a popular candidate both sides find acceptable.
	RuleCompromise Rule = "compromise"
	// RuleSincereFallback: no acceptable compromise was found.
	RuleSincereFallback Rule = "sincere-fallback"
)

// Decision is the outcome of one social vote.
type Decision struct {
	VoterID     int  `json:"voter_id"`
	Sincere     int  `json:"sincere"`
	CandidateID int  `json:"candidate_id"`
	Rule        Rule `json:"rule"`
	Neighbors   int  `json:"neighbors"`
}

// Signal aggregates what a voter's neighbors say about one candidate.
// AverageScore and AveragePlace are zero when no neighbor top-ranks it.
type Signal struct {
	CandidateID  int
	VoteCount    int
	AverageScore float64
	AveragePlace float64
}

// SocialVote returns the candidate id the voter casts after weighing its own
// ranking against the sincere choices of the voters it observes.
func (v *Voter) SocialVote(peers Population) int {
	return v.Decide(peers).CandidateID
}

// Decide runs the social decision and reports which rule fired. It reads the
// observation row, the voter's ranking and the peers' top choices only.
func (v *Voter) Decide(peers Population) Decision {
	sincere := v.Vote()
	d := Decision{VoterID: v.ID, Sincere: sincere, CandidateID: sincere}

	observed := v.observe(peers)
	d.Neighbors = len(observed)
	if len(observed) == 0 {
		d.Rule = RuleNoNeighbors
		return d
	}

	signals := v.Signals(observed)
	byCount := sortedBy(signals, func(a, b Signal) int { return cmp.Compare(b.VoteCount, a.VoteCount) })
	byScore := sortedBy(signals, func(a, b Signal) int { return cmp.Compare(b.AverageScore, a.AverageScore) })
	byPlace := sortedBy(signals, func(a, b Signal) int { return cmp.Compare(a.AveragePlace, b.AveragePlace) })

	switch sincere {
	case byCount[0].CandidateID:
		d.Rule = RulePopularSincere
	case byScore[0].CandidateID:
		d.CandidateID = byPlace[0].CandidateID
		d.Rule = RuleDeferToPlace
	case byPlace[0].CandidateID:
		d.CandidateID = byPlace[0].CandidateID
		d.Rule = RuleReinforcePlace
	default:
		if id, ok := v.compromise(byCount, len(observed)); ok {
			d.CandidateID = id
			d.Rule = RuleCompromise
		} else {
			d.Rule = RuleSincereFallback
		}
	}
	return d
}

// observe collects the top choice of every observed voter in id order.
func (v *Voter) observe(peers Population) []Candidate {
	var votes []Candidate
	for j, bit := range v.connections {
		if bit == 1 {
			votes = append(votes, peers.TopChoice(j))
		}
	}
	return votes
}

// Signals aggregates observed top choices per candidate, in the order of the
// voter's own ranking.
func (v *Voter) Signals(observed []Candidate) []Signal {
	signals := make([]Signal, 0, len(v.ranked))
	for _, c := range v.ranked {
		s := Signal{CandidateID: c.ID}
		var scoreSum, placeSum int
		for _, o := range observed {
			if o.ID != c.ID {
				continue
			}
			s.VoteCount++
			scoreSum += o.Score
			placeSum += o.Place
		}
		if s.VoteCount > 0 {
			s.AverageScore = float64(scoreSum) / float64(s.VoteCount)
			s.AveragePlace = float64(placeSum) / float64(s.VoteCount)
		}
		signals = append(signals, s)
	}
	return signals
}

// compromise scans candidates by neighbor popularity and returns the first one
// that is likely to win, that neighbors rate at least as well as this voter
// rates the field, and that this voter also rates above its own average.
func (v *Voter) compromise(byCount []Signal, neighbors int) (int, bool) {
	mean := v.meanScore()
	half := float64(len(v.original)) / 2

	for _, s := range byCount {
		mine, ok := v.lookup(s.CandidateID)
		if !ok {
			continue
		}
		likely := float64(s.VoteCount) >= float64(neighbors)/2
		theyLike := s.AverageScore >= mean && s.AveragePlace <= half
		iAccept := float64(mine.Score) >= mean && float64(mine.Place) <= half
		if likely && theyLike && iAccept {
			return s.CandidateID, true
		}
	}
	return 0, false
}

func (v *Voter) meanScore() float64 {
	scores := make([]float64, len(v.ranked))
	for i, c := range v.ranked {
		scores[i] = float64(c.Score)
	}
	return stat.Mean(scores, nil)
}

func sortedBy(signals []Signal, cmpFn func(a, b Signal) int) []Signal {
	out := slices.Clone(signals)
	slices.SortStableFunc(out, cmpFn)
	return out
}
