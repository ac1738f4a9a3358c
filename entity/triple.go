package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// Triple is one directed, typed relationship instance between two entity
// identifiers. Relation is an ontology property code such as "P108". Props
// carries optional edge attributes that survive into graph and script
// emission.
type Triple struct {
	Source   uuid.UUID
	Relation string
	Target   uuid.UUID
	Props    map[string]any
}

// Key returns the identity of the triple for duplicate collapsing: two
// triples with the same source, relation, and target are the same edge.
func (t Triple) Key() string {
	return t.Source.String() + "|" + t.Relation + "|" + t.Target.String()
}

func (t Triple) String() string {
	return fmt.Sprintf("(%s)-[%s]->(%s)", t.Source, t.Relation, t.Target)
}
