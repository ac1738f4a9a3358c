// Package validate checks expanded relationship triples against the ontology
// registry's cardinality and typing constraints. Validation never fails: it
// reports findings and leaves the abort decision to the caller. The model is
// open-world, so endpoints missing from the current batch downgrade typing
// checks to informational findings instead of errors.
package validate

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/DecisionNerd/collie/entity"
	"github.com/DecisionNerd/collie/errors"
	"github.com/DecisionNerd/collie/ontology"
)

// Level is the weight of one finding.
type Level int

const (
	// LevelInfo marks a check that was skipped rather than failed.
	LevelInfo Level = iota
	// LevelWarn marks a soft constraint breach.
	LevelWarn
	// LevelError marks a hard constraint breach.
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Severity is the per-pass policy for constraint breaches.
type Severity int

const (
	// SeverityIgnore collects nothing.
	SeverityIgnore Severity = iota
	// SeverityWarn collects findings and continues.
	SeverityWarn
	// SeverityRaise collects findings and tells the caller to abort on the
	// first error-level finding.
	SeverityRaise
)

func (s Severity) String() string {
	switch s {
	case SeverityIgnore:
		return "ignore"
	case SeverityWarn:
		return "warn"
	case SeverityRaise:
		return "raise"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a configuration string to a severity policy.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "ignore":
		return SeverityIgnore, nil
	case "warn":
		return SeverityWarn, nil
	case "raise":
		return SeverityRaise, nil
	default:
		return 0, errors.WrapSpec(
			fmt.Errorf("%w: severity %q", errors.ErrInvalidConfig, s),
			"validate", "ParseSeverity", "severity parsing")
	}
}

// Finding is one validation observation. Findings are never mutated after
// emission; the caller decides whether the error-level ones abort the pass.
type Finding struct {
	EntityID uuid.UUID
	Relation string
	Level    Level
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s %s: %s", f.Level, f.EntityID, f.Relation, f.Message)
}

// Validate runs the cardinality and typing passes over a batch. Findings
// come back in deterministic order: cardinality findings in first-appearance
// order of their (source, relation) group, then typing findings in triple
// order. Under SeverityIgnore nothing is collected.
func Validate(triples []entity.Triple, entities []*entity.Entity,
	reg *ontology.Registry, severity Severity) []Finding {

	if severity == SeverityIgnore {
		return nil
	}

	byID := make(map[uuid.UUID]*entity.Entity, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}

	var findings []Finding
	findings = append(findings, checkCardinality(triples, entities, reg)...)
	findings = append(findings, checkTyping(triples, byID, reg)...)
	return findings
}

// HasErrors reports whether any finding is error-level.
func HasErrors(findings []Finding) bool {
	return FirstError(findings) != nil
}

// FirstError returns the first error-level finding, or nil.
func FirstError(findings []Finding) *Finding {
	for i := range findings {
		if findings[i].Level == LevelError {
			return &findings[i]
		}
	}
	return nil
}

// checkCardinality groups triples by (source, relation) and compares each
// group's size against the relation's declared cardinality. Minimum bounds
// are checked per source entity over every relation its class can carry, so
// an absent group still counts as zero. Inverse relations carry their own
// declared cardinality and are validated independently, never inferred from
// the forward direction.
func checkCardinality(triples []entity.Triple, entities []*entity.Entity,
	reg *ontology.Registry) []Finding {

	type groupKey struct {
		source   uuid.UUID
		relation string
	}

	counts := make(map[groupKey]int)
	var order []groupKey
	for _, t := range triples {
		key := groupKey{source: t.Source, relation: t.Relation}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	var findings []Finding

	// Upper bounds: only populated groups can exceed them.
	for _, key := range order {
		rel, err := reg.RelationOf(key.relation)
		if err != nil {
			findings = append(findings, Finding{
				EntityID: key.source,
				Relation: key.relation,
				Level:    LevelError,
				Message:  fmt.Sprintf("relation %s is not declared in the ontology", key.relation),
			})
			continue
		}
		count := counts[key]
		if rel.Cardinality.Max != ontology.Unbounded && count > rel.Cardinality.Max {
			findings = append(findings, Finding{
				EntityID: key.source,
				Relation: key.relation,
				Level:    LevelError,
				Message: fmt.Sprintf("cardinality %s allows at most %d, got %d",
					rel.Quantifier, rel.Cardinality.Max, count),
			})
		}
	}

	// Lower bounds: walk each entity's full relation surface so empty
	// groups are still seen.
	for _, e := range entities {
		for _, code := range reg.RelationsForDomain(e.ClassCode) {
			rel, err := reg.RelationOf(code)
			if err != nil || rel.Cardinality.Min == 0 {
				continue
			}
			count := counts[groupKey{source: e.ID, relation: code}]
			if count < rel.Cardinality.Min {
				findings = append(findings, Finding{
					EntityID: e.ID,
					Relation: code,
					Level:    LevelError,
					Message: fmt.Sprintf("cardinality %s requires at least %d, got %d",
						rel.Quantifier, rel.Cardinality.Min, count),
				})
			}
		}
	}

	return findings
}

// checkTyping confirms domain and range class membership for each triple
// whose endpoints are present in the batch. Absent endpoints are an expected
// consequence of partial batches and surface as info findings only.
func checkTyping(triples []entity.Triple, byID map[uuid.UUID]*entity.Entity,
	reg *ontology.Registry) []Finding {

	var findings []Finding
	for _, t := range triples {
		rel, err := reg.RelationOf(t.Relation)
		if err != nil {
			// Already reported by the cardinality pass.
			continue
		}

		source, sourceKnown := byID[t.Source]
		target, targetKnown := byID[t.Target]

		if !sourceKnown || !targetKnown {
			absent := t.Target
			if !sourceKnown {
				absent = t.Source
			}
			findings = append(findings, Finding{
				EntityID: t.Source,
				Relation: t.Relation,
				Level:    LevelInfo,
				Message:  fmt.Sprintf("endpoint %s not in batch, typing check skipped", absent),
			})
			continue
		}

		if !reg.IsSubclassOf(source.ClassCode, rel.Domain) {
			findings = append(findings, Finding{
				EntityID: t.Source,
				Relation: t.Relation,
				Level:    LevelError,
				Message: fmt.Sprintf("source class %s is not a %s (domain of %s)",
					source.ClassCode, rel.Domain, rel.Code),
			})
		}
		if !reg.IsSubclassOf(target.ClassCode, rel.Range) {
			findings = append(findings, Finding{
				EntityID: t.Source,
				Relation: t.Relation,
				Level:    LevelError,
				Message: fmt.Sprintf("target class %s is not a %s (range of %s)",
					target.ClassCode, rel.Range, rel.Code),
			})
		}
	}
	return findings
}
