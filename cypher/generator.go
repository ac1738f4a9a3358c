// Package cypher turns validated entities and triples into an idempotent
// batch update script for a property-graph store. The script is the sole
// output artifact: the target store is never contacted. Re-running a
// generated script against an already-converged target is a no-op because
// every write is a MERGE and every constraint declaration is guarded.
package cypher

import (
	"fmt"
	"strings"

	"github.com/DecisionNerd/collie/entity"
	"github.com/DecisionNerd/collie/ontology"
)

// DefaultBatchSize bounds UNWIND parameter lists when the caller does not
// configure one.
const DefaultBatchSize = 1000

// Generator produces batch scripts. The zero value is not usable; call New.
type Generator struct {
	batchSize          int
	includeConstraints bool
	reg                *ontology.Registry
}

// Option configures a generator.
type Option func(*Generator)

// WithBatchSize splits upsert blocks into chunks of at most n records.
func WithBatchSize(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.batchSize = n
		}
	}
}

// WithoutConstraints drops the constraint prologue, for targets where the
// constraints are managed out of band.
func WithoutConstraints() Option {
	return func(g *Generator) {
		g.includeConstraints = false
	}
}

// New builds a generator bound to a loaded registry.
func New(reg *ontology.Registry, opts ...Option) *Generator {
	g := &Generator{
		batchSize:          DefaultBatchSize,
		includeConstraints: true,
		reg:                reg,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Output pairs the script text with the parameter sets its UNWIND clauses
// reference.
type Output struct {
	Script     string
	Parameters map[string]any
}

// Generate emits the full script: a deduplicated constraint prologue, one
// node-upsert block per distinct class code in first-seen order, then one
// relationship-upsert block per distinct relation type in first-seen order.
// Blocks whose record count exceeds the batch size split into sequential
// chunks; the prologue never repeats. Node attribute updates use set-if-
// present semantics, so an attribute absent from this batch cannot erase a
// previously stored value.
func (g *Generator) Generate(entities []*entity.Entity, triples []entity.Triple) *Output {
	params := make(map[string]any)
	var sections []string

	if g.includeConstraints {
		sections = append(sections, constraintPrologue)
	}

	if nodeSection := g.nodeSection(entities, params); nodeSection != "" {
		sections = append(sections, nodeSection)
	}
	if relSection := g.relationshipSection(triples, params); relSection != "" {
		sections = append(sections, relSection)
	}

	return &Output{
		Script:     strings.Join(sections, "\n\n"),
		Parameters: params,
	}
}

const constraintPrologue = `// Constraints
CREATE CONSTRAINT crm_id IF NOT EXISTS FOR (n:CRM) REQUIRE n.id IS UNIQUE;
CREATE CONSTRAINT crm_class_code IF NOT EXISTS FOR (n:CRM) REQUIRE n.class_code IS NOT NULL;`

// nodeRecord is the parameter shape for one node upsert. Empty attributes
// are omitted rather than sent as nulls.
func nodeRecord(e *entity.Entity) map[string]any {
	record := map[string]any{
		"id":         e.ID.String(),
		"class_code": e.ClassCode,
	}
	if e.Label != "" {
		record["label"] = e.Label
	}
	if e.Notes != "" {
		record["notes"] = e.Notes
	}
	if tags := e.TypeTags(); len(tags) > 0 {
		record["type"] = tags
	}
	return record
}

func (g *Generator) nodeSection(entities []*entity.Entity, params map[string]any) string {
	type classGroup struct {
		code    string
		records []map[string]any
	}

	var (
		groups  []*classGroup
		byClass = make(map[string]*classGroup)
		seen    = make(map[string]struct{})
	)
	for _, e := range entities {
		id := e.ID.String()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		group, ok := byClass[e.ClassCode]
		if !ok {
			group = &classGroup{code: e.ClassCode}
			byClass[e.ClassCode] = group
			groups = append(groups, group)
		}
		group.records = append(group.records, nodeRecord(e))
	}
	if len(groups) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("// Nodes")
	for _, group := range groups {
		for chunk, batch := range chunks(group.records, g.batchSize) {
			key := fmt.Sprintf("nodes_%s_%d", group.code, chunk)
			params[key] = batch
			fmt.Fprintf(&b, "\nUNWIND $%s AS n\n", key)
			b.WriteString("MERGE (x:CRM {id: n.id})\n")
			b.WriteString("SET x.class_code = n.class_code\n")
			b.WriteString("SET x.label = coalesce(n.label, x.label)\n")
			b.WriteString("SET x.notes = coalesce(n.notes, x.notes)\n")
			b.WriteString("SET x.type = coalesce(n.type, x.type);\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (g *Generator) relationshipSection(triples []entity.Triple, params map[string]any) string {
	type relGroup struct {
		typeName string
		records  []map[string]any
	}

	var (
		groups = make([]*relGroup, 0)
		byType = make(map[string]*relGroup)
		seen   = make(map[string]struct{})
	)
	for _, t := range triples {
		if _, dup := seen[t.Key()]; dup {
			continue
		}
		seen[t.Key()] = struct{}{}

		typeName := g.typeName(t.Relation)
		group, ok := byType[typeName]
		if !ok {
			group = &relGroup{typeName: typeName}
			byType[typeName] = group
			groups = append(groups, group)
		}
		record := map[string]any{
			"src": t.Source.String(),
			"tgt": t.Target.String(),
		}
		if len(t.Props) > 0 {
			record["props"] = t.Props
		}
		group.records = append(group.records, record)
	}
	if len(groups) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("// Relationships")
	for _, group := range groups {
		for chunk, batch := range chunks(group.records, g.batchSize) {
			key := fmt.Sprintf("rels_%s_%d", group.typeName, chunk)
			params[key] = batch
			fmt.Fprintf(&b, "\nUNWIND $%s AS r\n", key)
			b.WriteString("MATCH (s:CRM {id: r.src})\n")
			b.WriteString("MATCH (t:CRM {id: r.tgt})\n")
			fmt.Fprintf(&b, "MERGE (s)-[rel:`%s`]->(t)\n", group.typeName)
			b.WriteString("ON CREATE SET rel += coalesce(r.props, {});\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// typeName renders a relation code as the stored relationship type, e.g.
// P108 becomes P108_WAS_PRODUCED_BY. Codes the registry does not know keep
// their bare form; the validator has already reported them.
func (g *Generator) typeName(code string) string {
	rel, err := g.reg.RelationOf(code)
	if err != nil {
		return code
	}
	return rel.TypeName()
}

// chunks splits records into sequential batches of at most size elements.
func chunks[T any](records []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]T
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		out = append(out, records[start:end])
	}
	return out
}
