package network

import "math"

// InfluenceConfig holds configuration for influence computation.
type InfluenceConfig struct {
	// DampingFactor (d) is the probability of following an observation link
	// vs. teleporting. Standard value: 0.85.
	DampingFactor float64

	// MaxIterations is the maximum number of power iteration steps. Default: 100.
	MaxIterations int

	// Tolerance is the convergence threshold. Default: 1e-6.
	Tolerance float64
}

// DefaultInfluenceConfig returns the default influence configuration.
func DefaultInfluenceConfig() InfluenceConfig {
	return InfluenceConfig{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// Influence ranks voters by how much attention flows to them through the
// observation graph, indexed by voter id and normalised so the most
// influential voter scores 1.
//
// Algorithm: PageRank power iteration over observer->observed links
//  1. Initialize all voters with score = 1/N
//  2. For each iteration:
//     PR(v) = (1-d)/N + d * sum(PR(u)/outDegree(u)) for all u observing v
//  3. Converge when max change < Tolerance
//  4. Normalize by the maximum score
//
// Voters who observe nobody leak their mass; with d < 1 every voter keeps at
// least the teleport share.
func (g *Graph) Influence(config InfluenceConfig) []float64 {
	n := g.n
	if n == 0 {
		return nil
	}

	inbound := make([][]int64, n)
	outDegree := make([]int, n)
	for id := range n {
		inbound[id] = g.ObservedBy(id)
		outDegree[id] = len(g.Observes(id))
	}

	d := config.DampingFactor
	nf := float64(n)
	scores := make([]float64, n)
	for id := range scores {
		scores[id] = 1.0 / nf
	}

	for iter := 0; iter < config.MaxIterations; iter++ {
		next := make([]float64, n)
		maxDelta := 0.0

		for v := range n {
			sum := 0.0
			for _, u := range inbound[v] {
				if deg := outDegree[u]; deg > 0 {
					sum += scores[u] / float64(deg)
				}
			}
			next[v] = (1.0-d)/nf + d*sum
			maxDelta = math.Max(maxDelta, math.Abs(next[v]-scores[v]))
		}

		scores = next
		if maxDelta < config.Tolerance {
			break
		}
	}

	maxScore := 0.0
	for _, s := range scores {
		maxScore = math.Max(maxScore, s)
	}
	if maxScore > 0 {
		for id := range scores {
			scores[id] /= maxScore
		}
	}
	return scores
}
