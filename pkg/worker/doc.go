// Package worker fans a fixed batch of items across a bounded set of
// goroutines and reassembles the outputs by input index.
//
// The batch contract fits the compiler's expansion stage: every entity in a
// batch is expanded independently, per-entity failures must stay attached
// to their input position, and downstream grouping depends on input order.
// There is no standing queue and no lifecycle to manage; a Pool is
// configuration plus counters, and each Run is self-contained.
//
//	pool, err := worker.NewPool(4, expandOne)
//	triples, failures, err := pool.Run(ctx, entities)
//
// Prometheus metrics are optional via WithMetricsRegistry.
package worker
