// Package graph builds the in-memory attributed multigraph consumed by
// analytical algorithms. The structure supports parallel edges between the
// same ordered node pair as long as their relation codes differ; duplicate
// triples collapse, so rebuilding from replayed input converges on the same
// graph.
package graph

import (
	"context"

	"github.com/google/uuid"

	"github.com/DecisionNerd/collie/entity"
)

// Node is one graph vertex with the entity attributes analytics care about.
type Node struct {
	ID        uuid.UUID
	ClassCode string
	Label     string
	Notes     string
	TypeTags  []string
}

// Edge is one directed typed edge. Multiple edges between the same ordered
// pair are distinct when their relation codes differ.
type Edge struct {
	Source   uuid.UUID
	Relation string
	Target   uuid.UUID
	Props    map[string]any
}

// Graph is a directed attributed multigraph. Build it once per compilation
// pass; reads are safe to share, mutation is not.
type Graph struct {
	nodes     map[uuid.UUID]*Node
	nodeOrder []uuid.UUID

	edges     map[string]*Edge // keyed by Triple.Key()
	edgeOrder []string

	out map[uuid.UUID][]*Edge
	in  map[uuid.UUID][]*Edge
}

// New builds a graph from entities and their expanded triples. Triples may
// reference identifiers with no entity in the batch; such endpoints become
// attribute-less placeholder nodes so traversal never dead-ends.
func New(entities []*entity.Entity, triples []entity.Triple) *Graph {
	g := &Graph{
		nodes: make(map[uuid.UUID]*Node, len(entities)),
		edges: make(map[string]*Edge, len(triples)),
		out:   make(map[uuid.UUID][]*Edge),
		in:    make(map[uuid.UUID][]*Edge),
	}
	for _, e := range entities {
		g.addNode(&Node{
			ID:        e.ID,
			ClassCode: e.ClassCode,
			Label:     e.Label,
			Notes:     e.Notes,
			TypeTags:  e.TypeTags(),
		})
	}
	for _, t := range triples {
		g.addEdge(t)
	}
	return g
}

func (g *Graph) addNode(n *Node) {
	if existing, ok := g.nodes[n.ID]; ok {
		// A placeholder gains attributes when its entity shows up.
		if existing.ClassCode == "" && n.ClassCode != "" {
			*existing = *n
		}
		return
	}
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
}

func (g *Graph) addEdge(t entity.Triple) {
	key := t.Key()
	if _, ok := g.edges[key]; ok {
		return
	}
	g.addNode(&Node{ID: t.Source})
	g.addNode(&Node{ID: t.Target})

	e := &Edge{Source: t.Source, Relation: t.Relation, Target: t.Target, Props: t.Props}
	g.edges[key] = e
	g.edgeOrder = append(g.edgeOrder, key)
	g.out[t.Source] = append(g.out[t.Source], e)
	g.in[t.Target] = append(g.in[t.Target], e)
}

// NodeCount returns the number of distinct nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns a node by identifier.
func (g *Graph) Node(id uuid.UUID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, key := range g.edgeOrder {
		out = append(out, g.edges[key])
	}
	return out
}

// OutDegree returns the number of edges leaving a node.
func (g *Graph) OutDegree(id uuid.UUID) int { return len(g.out[id]) }

// InDegree returns the number of edges entering a node.
func (g *Graph) InDegree(id uuid.UUID) int { return len(g.in[id]) }

// Degree returns the total number of edge ends touching a node. A
// self-loop appears in both the outgoing and incoming lists and counts
// twice, the usual graph-theoretic convention; Neighbors excludes the
// node itself, so a node whose only edge is a self-loop has degree two
// and no neighbors.
func (g *Graph) Degree(id uuid.UUID) int { return g.OutDegree(id) + g.InDegree(id) }

// Outgoing returns the edges leaving a node in insertion order.
func (g *Graph) Outgoing(id uuid.UUID) []*Edge { return g.out[id] }

// Incoming returns the edges entering a node in insertion order.
func (g *Graph) Incoming(id uuid.UUID) []*Edge { return g.in[id] }

// Neighbors returns the distinct nodes adjacent to id in the requested
// direction ("outgoing", "incoming", or "both"), in first-touch order.
// The node itself is never a neighbor, so self-loops contribute to
// Degree but not to this list.
func (g *Graph) Neighbors(id uuid.UUID, direction string) []uuid.UUID {
	var (
		seen = make(map[uuid.UUID]struct{})
		out  []uuid.UUID
	)
	add := func(other uuid.UUID) {
		if other == id {
			return
		}
		if _, ok := seen[other]; ok {
			return
		}
		seen[other] = struct{}{}
		out = append(out, other)
	}
	if direction == "outgoing" || direction == "both" {
		for _, e := range g.out[id] {
			add(e.Target)
		}
	}
	if direction == "incoming" || direction == "both" {
		for _, e := range g.in[id] {
			add(e.Source)
		}
	}
	return out
}

// Provider adapts a graph to the string-keyed traversal interface the
// clustering algorithms consume.
type Provider struct {
	g *Graph
}

// NewProvider wraps a built graph for analytical traversal.
func NewProvider(g *Graph) *Provider { return &Provider{g: g} }

// GetAllEntityIDs returns every node identifier in insertion order.
func (p *Provider) GetAllEntityIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(p.g.nodeOrder))
	for _, id := range p.g.nodeOrder {
		ids = append(ids, id.String())
	}
	return ids, nil
}

// GetNeighbors returns the identifiers adjacent to entityID.
func (p *Provider) GetNeighbors(_ context.Context, entityID string, direction string) ([]string, error) {
	id, err := uuid.Parse(entityID)
	if err != nil {
		return nil, err
	}
	neighbors := p.g.Neighbors(id, direction)
	out := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		out = append(out, n.String())
	}
	return out, nil
}

// GetEdgeWeight returns 1.0 when any edge connects fromID to toID in either
// direction and 0.0 otherwise; edges carry no numeric weights here.
func (p *Provider) GetEdgeWeight(_ context.Context, fromID, toID string) (float64, error) {
	from, err := uuid.Parse(fromID)
	if err != nil {
		return 0, err
	}
	to, err := uuid.Parse(toID)
	if err != nil {
		return 0, err
	}
	for _, e := range p.g.out[from] {
		if e.Target == to {
			return 1.0, nil
		}
	}
	for _, e := range p.g.in[from] {
		if e.Source == to {
			return 1.0, nil
		}
	}
	return 0.0, nil
}
