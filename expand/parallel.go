package expand

import (
	"context"

	"github.com/DecisionNerd/collie/entity"
	"github.com/DecisionNerd/collie/errors"
	"github.com/DecisionNerd/collie/ontology"
	"github.com/DecisionNerd/collie/pkg/worker"
)

// expandParallel fans per-entity expansion across a worker pool. The pool
// keeps outputs aligned by input index, so each results/failures slot
// belongs to exactly one entity.
func expandParallel(entities []*entity.Entity, reg *ontology.Registry, cfg options,
	results [][]entity.Triple, failures []error) error {

	pool, err := worker.NewPool(cfg.workers, func(_ context.Context, e *entity.Entity) ([]entity.Triple, error) {
		return Entity(e, reg)
	})
	if err != nil {
		return errors.Wrap(err, "expand", "All", "worker pool setup")
	}

	outputs, errs, runErr := pool.Run(context.Background(), entities)
	copy(results, outputs)
	copy(failures, errs)
	if runErr != nil {
		return errors.Wrap(runErr, "expand", "All", "parallel expansion")
	}
	return nil
}
