// Package analysis implements graph algorithms over a compiled batch:
// PageRank centrality, label-propagation community detection, and degree
// centrality. Algorithms consume the graph only through the Provider
// interface, never mutate it, and are deterministic for a given graph.
package analysis

import (
	"context"
	"math"
	"sort"
)

// Provider is the read-only traversal surface the algorithms consume.
// graph.Provider satisfies it.
type Provider interface {
	GetAllEntityIDs(ctx context.Context) ([]string, error)
	GetNeighbors(ctx context.Context, entityID string, direction string) ([]string, error)
	GetEdgeWeight(ctx context.Context, fromID, toID string) (float64, error)
}

// PageRankConfig holds configuration for PageRank computation.
type PageRankConfig struct {
	// Iterations is the maximum number of iterations to run (default: 20).
	Iterations int

	// DampingFactor is the probability of continuing the random walk
	// (default: 0.85).
	DampingFactor float64

	// Tolerance is the convergence threshold (default: 1e-6).
	Tolerance float64

	// TopN is the number of top-ranked nodes to return (0 = all).
	TopN int
}

// DefaultPageRankConfig returns the standard PageRank configuration.
func DefaultPageRankConfig() PageRankConfig {
	return PageRankConfig{
		Iterations:    20,
		DampingFactor: 0.85,
		Tolerance:     1e-6,
	}
}

// PageRankResult holds the results of PageRank computation.
type PageRankResult struct {
	// Scores maps node ID to normalized PageRank score.
	Scores map[string]float64

	// Ranked contains node IDs sorted by score descending, ties broken
	// by ID for determinism.
	Ranked []string

	// Iterations is the actual number of iterations run.
	Iterations int

	// Converged indicates convergence before the iteration cap.
	Converged bool
}

// ComputePageRank computes PageRank scores over the whole graph.
func ComputePageRank(ctx context.Context, provider Provider, config PageRankConfig) (*PageRankResult, error) {
	ids, err := provider.GetAllEntityIDs(ctx)
	if err != nil {
		return nil, err
	}
	return computePageRankForSubset(ctx, provider, ids, config)
}

// ComputePageRankForSubset computes PageRank restricted to the given nodes,
// considering only edges whose both endpoints fall inside the subset. Used
// to rank members within one community.
func ComputePageRankForSubset(ctx context.Context, provider Provider, nodeIDs []string, config PageRankConfig) (*PageRankResult, error) {
	return computePageRankForSubset(ctx, provider, nodeIDs, config)
}

func computePageRankForSubset(ctx context.Context, provider Provider, nodeIDs []string, config PageRankConfig) (*PageRankResult, error) {
	n := len(nodeIDs)
	if n == 0 {
		return &PageRankResult{
			Scores:    map[string]float64{},
			Ranked:    []string{},
			Converged: true,
		}, nil
	}

	nodeIndex := make(map[string]int, n)
	for i, id := range nodeIDs {
		nodeIndex[id] = i
	}

	// outLinks[i] holds the subset indices i points at.
	outLinks := make([][]int, n)
	for i, fromID := range nodeIDs {
		neighbors, err := provider.GetNeighbors(ctx, fromID, "outgoing")
		if err != nil {
			return nil, err
		}
		for _, toID := range neighbors {
			if toIdx, ok := nodeIndex[toID]; ok {
				outLinks[i] = append(outLinks[i], toIdx)
			}
		}
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	d := config.DampingFactor
	teleport := (1.0 - d) / float64(n)

	newScores := make([]float64, n)
	converged := false
	iterations := 0

	for iterations = 0; iterations < config.Iterations; iterations++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i := range newScores {
			newScores[i] = teleport
		}
		for j := range outLinks {
			if len(outLinks[j]) == 0 {
				continue
			}
			share := d * scores[j] / float64(len(outLinks[j]))
			for _, i := range outLinks[j] {
				newScores[i] += share
			}
		}

		maxDiff := 0.0
		for i := range scores {
			if diff := math.Abs(newScores[i] - scores[i]); diff > maxDiff {
				maxDiff = diff
			}
		}
		scores, newScores = newScores, scores

		if maxDiff < config.Tolerance {
			converged = true
			iterations++
			break
		}
	}

	scoreMap := make(map[string]float64, n)
	sum := 0.0
	for i, id := range nodeIDs {
		scoreMap[id] = scores[i]
		sum += scores[i]
	}
	if sum > 0 {
		for id := range scoreMap {
			scoreMap[id] /= sum
		}
	}

	ranked := rankByScore(scoreMap)
	if config.TopN > 0 && config.TopN < len(ranked) {
		ranked = ranked[:config.TopN]
	}

	return &PageRankResult{
		Scores:     scoreMap,
		Ranked:     ranked,
		Iterations: iterations,
		Converged:  converged,
	}, nil
}

// DegreeCentrality ranks nodes by distinct-neighbor count, normalized to
// the maximum degree in the set.
func DegreeCentrality(ctx context.Context, provider Provider, nodeIDs []string, topN int) ([]string, map[string]float64, error) {
	scores := make(map[string]float64, len(nodeIDs))
	maxDegree := 0
	degrees := make(map[string]int, len(nodeIDs))

	for _, id := range nodeIDs {
		neighbors, err := provider.GetNeighbors(ctx, id, "both")
		if err != nil {
			return nil, nil, err
		}
		degrees[id] = len(neighbors)
		if len(neighbors) > maxDegree {
			maxDegree = len(neighbors)
		}
	}
	for id, degree := range degrees {
		if maxDegree > 0 {
			scores[id] = float64(degree) / float64(maxDegree)
		} else {
			scores[id] = 0.0
		}
	}

	ranked := rankByScore(scores)
	if topN > 0 && topN < len(ranked) {
		ranked = ranked[:topN]
	}
	return ranked, scores, nil
}

func rankByScore(scores map[string]float64) []string {
	ranked := make([]string, 0, len(scores))
	for id := range scores {
		ranked = append(ranked, id)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if scores[ranked[i]] != scores[ranked[j]] {
			return scores[ranked[i]] > scores[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	return ranked
}
