// Package voter models a single member of the electorate: a private ranking
// over the candidates, a row of observation links to other voters, and the
// sincere and social decision rules built on top of them.
package voter

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrIndexOutOfRange is returned when a utility lookup names a rank position
// the voter's current ranking does not have.
var ErrIndexOutOfRange = errors.New("rank position out of range")

// ErrUnknownCandidate is returned when a candidate id is not in the voter's
// current ranking.
var ErrUnknownCandidate = errors.New("candidate not ranked")

// IndexOutOfRangeError reports a position-indexed utility lookup past the end
// of a voter's ranking.
type IndexOutOfRangeError struct {
	VoterID int
	Index   int
	Len     int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("voter %d: rank position %d out of range [0,%d)", e.VoterID, e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Unwrap() error { return ErrIndexOutOfRange }

// Candidate is one voter's private view of a candidate. Each voter holds its
// own copies; Place is the position in that voter's current ranking.
type Candidate struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Score int    `json:"score" yaml:"score"`
	Place int    `json:"place" yaml:"place"`
}

// CandidateName returns the display label for a candidate id.
func CandidateName(id int) string {
	return fmt.Sprintf("Candidate%d", id)
}

// Name returns the display label for a voter id.
func Name(id int) string {
	return fmt.Sprintf("Voter%d", id)
}

// Source is the stream of random draws a voter consumes while it builds
// itself. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Voter is a member of the electorate.
type Voter struct {
	ID   int
	Name string

	connections []uint8
	ranked      []Candidate
	original    []Candidate
}

// New draws a voter from src. The draw order is fixed: the connection budget,
// then one target per budgeted connection, then one score per candidate.
// Callers that want reproducible populations must construct voters in id
// order from a single source.
func New(id, voterCount, candidateCount int, src Source) *Voter {
	v := &Voter{
		ID:          id,
		Name:        Name(id),
		connections: make([]uint8, voterCount),
	}
	v.connect(src)
	v.rank(drawCandidates(candidateCount, src))
	v.original = slices.Clone(v.ranked)
	return v
}

// FromRanking builds a voter from explicit connections and candidates, without
// consuming any randomness. The candidates are ranked the same way New ranks
// drawn ones; a self-connection is cleared.
func FromRanking(id int, connections []uint8, candidates []Candidate) *Voter {
	v := &Voter{
		ID:          id,
		Name:        Name(id),
		connections: slices.Clone(connections),
	}
	if id >= 0 && id < len(v.connections) {
		v.connections[id] = 0
	}
	cands := slices.Clone(candidates)
	for i := range cands {
		if cands[i].Name == "" {
			cands[i].Name = CandidateName(cands[i].ID)
		}
	}
	v.rank(cands)
	v.original = slices.Clone(v.ranked)
	return v
}

// connect samples round(uniform(0, voterCount/2)) targets with replacement.
// Draws that land on the voter itself are dropped and repeated targets are
// idempotent, so the realised out-degree can be below the budget.
func (v *Voter) connect(src Source) {
	n := len(v.connections)
	budget := int(math.RoundToEven(src.Float64() * float64(n) / 2))
	for range budget {
		target := src.IntN(n)
		if target != v.ID {
			v.connections[target] = 1
		}
	}
}

// drawCandidates scores every candidate on [0,10] by rounding a draw from
// [0,100) divided by ten, halves to even.
func drawCandidates(count int, src Source) []Candidate {
	cands := make([]Candidate, count)
	for i := range cands {
		cands[i] = Candidate{
			ID:    i,
			Name:  CandidateName(i),
			Score: int(math.RoundToEven(float64(src.IntN(100)) / 10)),
		}
	}
	return cands
}

// rank stable-sorts cands by descending score, renumbers Place and installs
// the result as the current ranking.
func (v *Voter) rank(cands []Candidate) {
	slices.SortStableFunc(cands, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	for i := range cands {
		cands[i].Place = i
	}
	v.ranked = cands
}

// Vote returns the sincere choice: the id of the top-ranked candidate.
func (v *Voter) Vote() int {
	return v.ranked[0].ID
}

// Top returns the voter's current top-ranked candidate.
func (v *Voter) Top() Candidate {
	return v.ranked[0]
}

// Rankings returns a copy of the current ranking.
func (v *Voter) Rankings() []Candidate {
	return slices.Clone(v.ranked)
}

// OriginalRankings returns a copy of the ranking as it was after construction.
func (v *Voter) OriginalRankings() []Candidate {
	return slices.Clone(v.original)
}

// Connections returns a copy of the observation row.
func (v *Voter) Connections() []uint8 {
	return slices.Clone(v.connections)
}

// Neighbors returns the ids of observed voters in ascending order.
func (v *Voter) Neighbors() []int {
	var ids []int
	for j, bit := range v.connections {
		if bit == 1 {
			ids = append(ids, j)
		}
	}
	return ids
}

// ConnectionCount returns the number of voters this voter observes.
func (v *Voter) ConnectionCount() int {
	n := 0
	for _, bit := range v.connections {
		n += int(bit)
	}
	return n
}

// CardinalUtility returns |top score - score at pos|. pos is a position in
// this voter's current ranking, not a candidate id.
func (v *Voter) CardinalUtility(pos int) (int, error) {
	c, err := v.at(pos)
	if err != nil {
		return 0, err
	}
	return abs(v.ranked[0].Score - c.Score), nil
}

// OrdinalUtility returns |top place - place at pos|. pos is a position in
// this voter's current ranking, not a candidate id.
func (v *Voter) OrdinalUtility(pos int) (int, error) {
	c, err := v.at(pos)
	if err != nil {
		return 0, err
	}
	return abs(v.ranked[0].Place - c.Place), nil
}

// CandidateUtility returns the cardinal and ordinal utility of the candidate
// with the given id.
func (v *Voter) CandidateUtility(candidateID int) (cardinal, ordinal int, err error) {
	c, ok := v.lookup(candidateID)
	if !ok {
		return 0, 0, fmt.Errorf("voter %d: candidate %d: %w", v.ID, candidateID, ErrUnknownCandidate)
	}
	top := v.ranked[0]
	return abs(top.Score - c.Score), abs(top.Place - c.Place), nil
}

func (v *Voter) at(pos int) (Candidate, error) {
	if pos < 0 || pos >= len(v.ranked) {
		return Candidate{}, &IndexOutOfRangeError{VoterID: v.ID, Index: pos, Len: len(v.ranked)}
	}
	return v.ranked[pos], nil
}

func (v *Voter) lookup(candidateID int) (Candidate, bool) {
	for _, c := range v.ranked {
		if c.ID == candidateID {
			return c, true
		}
	}
	return Candidate{}, false
}

// RemoveCandidate drops a candidate from the current ranking and renumbers the
// rest. Removing an id that is not ranked leaves the ranking as it was.
func (v *Voter) RemoveCandidate(candidateID int) {
	remaining := slices.DeleteFunc(v.Rankings(), func(c Candidate) bool {
		return c.ID == candidateID
	})
	v.rank(remaining)
}

// Reset restores the ranking drawn at construction.
func (v *Voter) Reset() {
	v.ranked = slices.Clone(v.original)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
