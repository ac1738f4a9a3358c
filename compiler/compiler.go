// Package compiler orchestrates one compilation pass: shortcut expansion,
// constraint validation, and emission of both downstream representations.
// A pass is synchronous and side-effect-free with respect to the registry,
// so any number of passes may run concurrently against the same loaded
// ontology as long as each owns its input batch.
package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DecisionNerd/collie/cypher"
	"github.com/DecisionNerd/collie/entity"
	"github.com/DecisionNerd/collie/errors"
	"github.com/DecisionNerd/collie/expand"
	"github.com/DecisionNerd/collie/graph"
	"github.com/DecisionNerd/collie/metric"
	"github.com/DecisionNerd/collie/ontology"
	"github.com/DecisionNerd/collie/validate"
)

// Compiler runs compilation passes against one loaded registry. Safe for
// concurrent use.
type Compiler struct {
	reg      *ontology.Registry
	severity validate.Severity
	workers  int

	generatorOpts []cypher.Option

	metrics *metric.MetricsRegistry
	logger  *slog.Logger
}

// Option configures a compiler.
type Option func(*Compiler)

// WithSeverity sets the validation policy for every pass.
func WithSeverity(s validate.Severity) Option {
	return func(c *Compiler) { c.severity = s }
}

// WithWorkers enables parallel expansion with n workers.
func WithWorkers(n int) Option {
	return func(c *Compiler) { c.workers = n }
}

// WithBatchSize bounds the generated script's UNWIND chunks.
func WithBatchSize(n int) Option {
	return func(c *Compiler) {
		c.generatorOpts = append(c.generatorOpts, cypher.WithBatchSize(n))
	}
}

// WithoutConstraints drops the script's constraint prologue.
func WithoutConstraints() Option {
	return func(c *Compiler) {
		c.generatorOpts = append(c.generatorOpts, cypher.WithoutConstraints())
	}
}

// WithMetrics records pass metrics into the given registry.
func WithMetrics(m *metric.MetricsRegistry) Option {
	return func(c *Compiler) { c.metrics = m }
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// New builds a compiler bound to a loaded registry.
func New(reg *ontology.Registry, opts ...Option) *Compiler {
	c := &Compiler{
		reg:      reg,
		severity: validate.SeverityWarn,
		logger:   slog.Default().With("component", "compiler"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Skipped records one entity dropped from a pass and why.
type Skipped struct {
	ID        uuid.UUID
	ClassCode string
	Reason    error
}

// Result is everything one pass produces. Under raise severity a result is
// returned even when the pass aborts, so callers always see the complete
// finding list.
type Result struct {
	Graph      *graph.Graph
	Script     string
	Parameters map[string]any
	Triples    []entity.Triple
	Findings   []validate.Finding
	Skipped    []Skipped
}

// Compile runs one pass over a batch. Entities with lookup failures are
// skipped with a recorded reason while the rest of the batch proceeds.
// Extra triples join the expanded stream after it, before validation.
// Under raise severity the first error-level finding aborts the pass: the
// returned error carries that finding and the result carries all of them,
// with no graph or script emitted.
func (c *Compiler) Compile(ctx context.Context, entities []*entity.Entity,
	extraTriples ...entity.Triple) (*Result, error) {

	start := time.Now()

	kept, triples, skipped, err := c.expandStage(entities)
	if err != nil {
		c.recordPass("failed")
		return nil, err
	}
	triples = append(triples, extraTriples...)

	if err := ctx.Err(); err != nil {
		c.recordPass("cancelled")
		return nil, errors.Wrap(err, "Compiler", "Compile", "pass")
	}

	findings := c.validateStage(triples, kept)

	result := &Result{
		Triples:  triples,
		Findings: findings,
		Skipped:  skipped,
	}

	if c.severity == validate.SeverityRaise {
		if first := validate.FirstError(findings); first != nil {
			c.recordPass("aborted")
			c.logger.Error("pass aborted on validation fault",
				"entity", first.EntityID,
				"relation", first.Relation,
				"message", first.Message)
			return result, errors.WrapValidation(
				fmt.Errorf("%w: %s", errors.ErrConstraintViolated, first.Message),
				"Compiler", "Compile", "constraint validation")
		}
	}

	if err := ctx.Err(); err != nil {
		c.recordPass("cancelled")
		return nil, errors.Wrap(err, "Compiler", "Compile", "pass")
	}

	c.emitStage(kept, triples, result)

	c.recordPass("ok")
	c.logger.Info("pass complete",
		"entities", len(kept),
		"skipped", len(skipped),
		"triples", len(triples),
		"findings", len(findings),
		"elapsed", time.Since(start))
	return result, nil
}

func (c *Compiler) expandStage(entities []*entity.Entity) (
	[]*entity.Entity, []entity.Triple, []Skipped, error) {

	start := time.Now()
	results, failures, err := expand.Batch(entities, c.reg, expand.WithWorkers(c.workers))
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		kept    []*entity.Entity
		triples []entity.Triple
		skipped []Skipped
	)
	for i, e := range entities {
		if failures[i] != nil {
			skipped = append(skipped, Skipped{
				ID:        e.ID,
				ClassCode: e.ClassCode,
				Reason:    failures[i],
			})
			c.logger.Warn("entity skipped",
				"entity", e.ID,
				"class", e.ClassCode,
				"reason", failures[i])
			continue
		}
		kept = append(kept, e)
		triples = append(triples, results[i]...)
	}

	if c.metrics != nil {
		core := c.metrics.CoreMetrics()
		core.RecordEntities("processed", len(kept))
		core.RecordEntities("skipped", len(skipped))
		core.RecordTriples(len(triples))
		core.RecordStageDuration("expand", time.Since(start))
	}
	return kept, triples, skipped, nil
}

func (c *Compiler) validateStage(triples []entity.Triple, entities []*entity.Entity) []validate.Finding {
	start := time.Now()
	findings := validate.Validate(triples, entities, c.reg, c.severity)

	if c.metrics != nil {
		core := c.metrics.CoreMetrics()
		for _, f := range findings {
			core.RecordFinding(f.Level.String())
		}
		core.RecordStageDuration("validate", time.Since(start))
	}
	return findings
}

func (c *Compiler) emitStage(entities []*entity.Entity, triples []entity.Triple, result *Result) {
	start := time.Now()

	result.Graph = graph.New(entities, triples)

	out := cypher.New(c.reg, c.generatorOpts...).Generate(entities, triples)
	result.Script = out.Script
	result.Parameters = out.Parameters

	if c.metrics != nil {
		nodeBatches, relBatches := countBatches(out.Parameters)
		c.metrics.CoreMetrics().RecordScript(nodeBatches, relBatches, len(out.Script))
		c.metrics.CoreMetrics().RecordStageDuration("emit", time.Since(start))
	}
}

func countBatches(params map[string]any) (nodes, rels int) {
	for key := range params {
		switch {
		case len(key) > 6 && key[:6] == "nodes_":
			nodes++
		case len(key) > 5 && key[:5] == "rels_":
			rels++
		}
	}
	return nodes, rels
}

func (c *Compiler) recordPass(status string) {
	if c.metrics != nil {
		c.metrics.CoreMetrics().RecordPass(status)
	}
}
