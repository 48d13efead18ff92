package voter

import (
	"math/rand/v2"
	"testing"
)

// population maps voter ids to their current top choice.
type population map[int]Candidate

func (p population) TopChoice(voterID int) Candidate { return p[voterID] }

func top(id, score int) Candidate {
	return Candidate{ID: id, Name: CandidateName(id), Score: score, Place: 0}
}

func socialVoter() *Voter {
	return FromRanking(0, []uint8{0, 1, 1, 1}, []Candidate{
		{ID: 0, Score: 9},
		{ID: 1, Score: 5},
		{ID: 2, Score: 1},
	})
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		voter     *Voter
		peers     population
		wantVote  int
		wantRule  Rule
		neighbors int
	}{
		{
			name:     "no neighbors falls back to sincere vote",
			voter:    FromRanking(0, []uint8{0, 0, 0}, []Candidate{{ID: 0, Score: 2}, {ID: 1, Score: 8}}),
			peers:    population{},
			wantVote: 1,
			wantRule: RuleNoNeighbors,
		},
		{
			name:      "sincere choice leads the neighbor tally",
			voter:     socialVoter(),
			peers:     population{1: top(0, 7), 2: top(0, 6), 3: top(2, 9)},
			wantVote:  0,
			wantRule:  RulePopularSincere,
			neighbors: 3,
		},
		{
			name:      "sincere choice leads average score",
			voter:     socialVoter(),
			peers:     population{1: top(1, 6), 2: top(1, 4), 3: top(0, 10)},
			wantVote:  0,
			wantRule:  RuleDeferToPlace,
			neighbors: 3,
		},
		{
			name:      "sincere choice leads only average place",
			voter:     socialVoter(),
			peers:     population{1: top(1, 9), 2: top(1, 9), 3: top(2, 10)},
			wantVote:  0,
			wantRule:  RuleReinforcePlace,
			neighbors: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.voter.Decide(tt.peers)
			if d.CandidateID != tt.wantVote {
				t.Errorf("CandidateID = %d, want %d", d.CandidateID, tt.wantVote)
			}
			if d.Rule != tt.wantRule {
				t.Errorf("Rule = %q, want %q", d.Rule, tt.wantRule)
			}
			if d.Neighbors != tt.neighbors {
				t.Errorf("Neighbors = %d, want %d", d.Neighbors, tt.neighbors)
			}
			if d.Sincere != tt.voter.Vote() {
				t.Errorf("Sincere = %d, want %d", d.Sincere, tt.voter.Vote())
			}
			if got := tt.voter.SocialVote(tt.peers); got != d.CandidateID {
				t.Errorf("SocialVote() = %d, Decide() = %d", got, d.CandidateID)
			}
		})
	}
}

// The first branch of the decision keeps the sincere vote when the sincere
// choice is already the most popular among neighbors.
func TestDecide_PopularSincereKeepsVote(t *testing.T) {
	v := FromRanking(2, []uint8{1, 1, 0}, []Candidate{{ID: 0, Score: 3}, {ID: 1, Score: 10}})
	d := v.Decide(population{0: top(1, 10), 1: top(1, 2)})
	if d.Rule != RulePopularSincere || d.CandidateID != 1 {
		t.Errorf("Decide() = %+v, want popular-sincere for candidate 1", d)
	}
}

func TestDecide_DoesNotMutate(t *testing.T) {
	v := socialVoter()
	before := v.Rankings()
	conns := v.Connections()
	v.Decide(population{1: top(1, 6), 2: top(2, 4), 3: top(1, 10)})

	after := v.Rankings()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("ranking changed at %d: %+v -> %+v", i, before[i], after[i])
		}
	}
	for i, b := range v.Connections() {
		if conns[i] != b {
			t.Errorf("connection %d changed", i)
		}
	}
}

func TestSignals(t *testing.T) {
	v := socialVoter()
	got := v.Signals([]Candidate{top(1, 6), top(1, 3), top(0, 10)})

	want := []Signal{
		{CandidateID: 0, VoteCount: 1, AverageScore: 10, AveragePlace: 0},
		{CandidateID: 1, VoteCount: 2, AverageScore: 4.5, AveragePlace: 0},
		{CandidateID: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("signal %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCompromise(t *testing.T) {
	// mean score 17/3, half the field is 1.5
	v := FromRanking(0, make([]uint8, 4), []Candidate{
		{ID: 0, Score: 9},
		{ID: 1, Score: 7},
		{ID: 2, Score: 1},
	})

	tests := []struct {
		name    string
		byCount []Signal
		wantID  int
		wantOK  bool
	}{
		{
			name: "popular candidate both sides like",
			byCount: []Signal{
				{CandidateID: 1, VoteCount: 2, AverageScore: 8},
				{CandidateID: 0, VoteCount: 1, AverageScore: 9},
			},
			wantID: 1,
			wantOK: true,
		},
		{
			name: "unranked candidate is skipped",
			byCount: []Signal{
				{CandidateID: 7, VoteCount: 3, AverageScore: 10},
				{CandidateID: 1, VoteCount: 2, AverageScore: 8},
			},
			wantID: 1,
			wantOK: true,
		},
		{
			name: "neighbors rate the candidate below my mean",
			byCount: []Signal{
				{CandidateID: 1, VoteCount: 2, AverageScore: 5},
				{CandidateID: 0, VoteCount: 1, AverageScore: 9},
			},
			wantOK: false,
		},
		{
			name: "I rate the candidate below my mean",
			byCount: []Signal{
				{CandidateID: 2, VoteCount: 3, AverageScore: 10},
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := v.compromise(tt.byCount, 3)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Errorf("id = %d, want %d", id, tt.wantID)
			}
		})
	}
}

// Neighbors always report their own top choice, whose place is zero, so the
// average-place ordering never separates candidates and the social vote
// settles on the sincere choice.
func TestSocialVote_MatchesSincereOnRandomPopulation(t *testing.T) {
	rng := rand.New(rand.NewPCG(1052, 1052))
	voters := make([]*Voter, 25)
	peers := population{}
	for i := range voters {
		voters[i] = New(i, len(voters), 5, rng)
		peers[i] = voters[i].Top()
	}
	for _, v := range voters {
		if got, want := v.SocialVote(peers), v.Vote(); got != want {
			t.Errorf("voter %d: SocialVote() = %d, Vote() = %d", v.ID, got, want)
		}
	}
}
