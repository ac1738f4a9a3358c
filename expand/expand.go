// Package expand resolves entity shortcut fields into canonical relationship
// triples. Expansion is pure lookup against the ontology registry: it never
// mutates entities and it never judges cardinality or range, that is the
// validation pass's job.
package expand

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/DecisionNerd/collie/entity"
	"github.com/DecisionNerd/collie/errors"
	"github.com/DecisionNerd/collie/ontology"
)

// Entity expands a single entity into triples. Emission order is stable:
// shortcut fields in the class's canonical declaration order first, then
// explicit reference collections in declared order. Lookup failures are
// collected, so one bad field never hides the rest; on failure the returned
// triples cover every field that did resolve.
func Entity(e *entity.Entity, reg *ontology.Registry) ([]entity.Triple, error) {
	if !reg.HasClass(e.ClassCode) {
		return nil, errors.WrapLookup(
			fmt.Errorf("%w: %s on entity %s", errors.ErrUnknownClass, e.ClassCode, e.ID),
			"expand", "Entity", "class lookup")
	}

	var (
		triples []entity.Triple
		errs    []error
	)

	declared := make(map[string]struct{})
	for _, sc := range reg.Shortcuts(e.ClassCode) {
		declared[sc.Field] = struct{}{}
		for _, target := range e.Shortcut(sc.Field) {
			triples = append(triples, entity.Triple{
				Source:   e.ID,
				Relation: sc.Relation,
				Target:   target,
			})
		}
	}

	// Fields the instance carries but the class never declared.
	for field := range e.ShortcutValues {
		if _, ok := declared[field]; !ok {
			errs = append(errs, errors.WrapLookup(
				fmt.Errorf("%w: %q on class %s of entity %s",
					errors.ErrUnknownShortcut, field, e.ClassCode, e.ID),
				"expand", "Entity", "shortcut resolution"))
		}
	}

	for _, ref := range e.References {
		if _, err := reg.RelationOf(ref.Relation); err != nil {
			errs = append(errs, errors.WrapLookup(
				fmt.Errorf("%w: %q on entity %s", errors.ErrUnknownRelation, ref.Relation, e.ID),
				"expand", "Entity", "relation lookup"))
			continue
		}
		triples = append(triples, entity.Triple{
			Source:   e.ID,
			Relation: ref.Relation,
			Target:   ref.Target,
			Props:    ref.Props,
		})
	}

	if len(errs) > 0 {
		return triples, stderrors.Join(errs...)
	}
	return triples, nil
}

// Batch expands every entity and returns per-entity triples and failures,
// both indexed to match the input order regardless of how the work was
// scheduled. The returned error covers scheduling faults only, never
// per-entity lookup failures.
func Batch(entities []*entity.Entity, reg *ontology.Registry, opts ...Option) ([][]entity.Triple, []error, error) {
	cfg := options{workers: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	results := make([][]entity.Triple, len(entities))
	failures := make([]error, len(entities))

	if cfg.workers > 1 && len(entities) > 1 {
		if err := expandParallel(entities, reg, cfg, results, failures); err != nil {
			return nil, nil, err
		}
	} else {
		for i, e := range entities {
			results[i], failures[i] = Entity(e, reg)
		}
	}
	return results, failures, nil
}

// All expands a batch of entities and concatenates the results in input
// order. Failures are collected across the whole batch; the returned triples
// cover every entity and field that resolved.
func All(entities []*entity.Entity, reg *ontology.Registry, opts ...Option) ([]entity.Triple, error) {
	results, failures, err := Batch(entities, reg, opts...)
	if err != nil {
		return nil, err
	}

	var (
		triples []entity.Triple
		errs    []error
	)
	for i := range entities {
		triples = append(triples, results[i]...)
		if failures[i] != nil {
			errs = append(errs, failures[i])
		}
	}
	if len(errs) > 0 {
		slog.Warn("expansion completed with lookup failures",
			"entities", len(entities),
			"failed", len(errs),
			"triples", len(triples))
		return triples, stderrors.Join(errs...)
	}

	slog.Debug("expansion complete",
		"entities", len(entities),
		"triples", len(triples))
	return triples, nil
}

type options struct {
	workers int
}

// Option configures batch expansion.
type Option func(*options)

// WithWorkers sets the number of concurrent workers for batch expansion.
// Values below two keep expansion sequential.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}
