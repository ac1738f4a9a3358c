package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/DecisionNerd/collie/errors"
)

// Community is a detected cluster of entities.
type Community struct {
	// ID is stable for a given graph: "comm-" plus the smallest member ID.
	ID string

	// Members are the entity IDs in the community, sorted.
	Members []string
}

// Size returns the number of members.
func (c Community) Size() int { return len(c.Members) }

// CommunityConfig controls label propagation.
type CommunityConfig struct {
	// MaxIterations caps the propagation rounds (default: 10).
	MaxIterations int

	// MinSize drops communities with fewer members (default: 1, keep all).
	MinSize int
}

// DefaultCommunityConfig returns the standard detection configuration.
func DefaultCommunityConfig() CommunityConfig {
	return CommunityConfig{
		MaxIterations: 10,
		MinSize:       1,
	}
}

// DetectCommunities runs label propagation over the graph. Each node starts
// with its own ID as label; every round a node adopts the label with the
// highest total edge weight among its neighbors, ties broken by the
// lexicographically smallest label. Nodes are visited in sorted ID order so
// the result is deterministic for a given graph.
func DetectCommunities(ctx context.Context, provider Provider, config CommunityConfig) ([]Community, error) {
	if config.MaxIterations <= 0 {
		config.MaxIterations = 10
	}

	ids, err := provider.GetAllEntityIDs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "analysis", "DetectCommunities", "listing entities failed")
	}
	if len(ids) == 0 {
		return []Community{}, nil
	}
	sort.Strings(ids)

	labels := make(map[string]string, len(ids))
	for _, id := range ids {
		labels[id] = id
	}

	for iter := 0; iter < config.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changed := false
		for _, id := range ids {
			newLabel, err := dominantNeighborLabel(ctx, provider, id, labels)
			if err != nil {
				return nil, errors.Wrap(err, "analysis", "DetectCommunities", "neighbor vote failed")
			}
			if newLabel != "" && newLabel != labels[id] {
				labels[id] = newLabel
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return buildCommunities(labels, config.MinSize), nil
}

// dominantNeighborLabel returns the weighted majority label among the node's
// neighbors, or "" when the node has none.
func dominantNeighborLabel(ctx context.Context, provider Provider, nodeID string, labels map[string]string) (string, error) {
	neighbors, err := provider.GetNeighbors(ctx, nodeID, "both")
	if err != nil {
		return "", err
	}
	if len(neighbors) == 0 {
		return "", nil
	}

	votes := make(map[string]float64)
	for _, neighborID := range neighbors {
		label, ok := labels[neighborID]
		if !ok {
			continue
		}
		weight, err := provider.GetEdgeWeight(ctx, nodeID, neighborID)
		if err != nil {
			return "", err
		}
		if weight <= 0 {
			weight, err = provider.GetEdgeWeight(ctx, neighborID, nodeID)
			if err != nil {
				return "", err
			}
		}
		votes[label] += weight
	}
	if len(votes) == 0 {
		return "", nil
	}

	best := ""
	bestWeight := -1.0
	for label, weight := range votes {
		if weight > bestWeight || (weight == bestWeight && label < best) {
			best = label
			bestWeight = weight
		}
	}
	return best, nil
}

func buildCommunities(labels map[string]string, minSize int) []Community {
	byLabel := make(map[string][]string)
	for id, label := range labels {
		byLabel[label] = append(byLabel[label], id)
	}

	communities := make([]Community, 0, len(byLabel))
	for _, members := range byLabel {
		if len(members) < minSize {
			continue
		}
		sort.Strings(members)
		communities = append(communities, Community{
			ID:      fmt.Sprintf("comm-%s", members[0]),
			Members: members,
		})
	}
	sort.Slice(communities, func(i, j int) bool {
		return communities[i].ID < communities[j].ID
	})
	return communities
}

// RepresentativeEntities returns the topN most central members of a
// community: PageRank over the community subgraph when it has at least
// three members, degree centrality otherwise.
func RepresentativeEntities(ctx context.Context, provider Provider, community Community, topN int) ([]string, error) {
	if len(community.Members) == 0 {
		return []string{}, nil
	}
	if topN <= 0 {
		topN = 3
	}

	if len(community.Members) < 3 {
		ranked, _, err := DegreeCentrality(ctx, provider, community.Members, topN)
		if err != nil {
			return nil, errors.Wrap(err, "analysis", "RepresentativeEntities", "degree centrality failed")
		}
		return ranked, nil
	}

	config := DefaultPageRankConfig()
	config.TopN = topN
	result, err := ComputePageRankForSubset(ctx, provider, community.Members, config)
	if err != nil {
		return nil, errors.Wrap(err, "analysis", "RepresentativeEntities", "pagerank failed")
	}
	return result.Ranked, nil
}
