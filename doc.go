// Package collie compiles batches of CIDOC CRM entity records into
// validated relationship triples, an in-memory graph, and an idempotent
// Cypher loading script.
//
// # Pipeline
//
// A compilation pass runs three stages:
//
//  1. Expansion: each entity's shortcut fields and explicit references
//     become relationship triples, in the ontology's canonical order
//     (package expand).
//  2. Validation: triples are checked against the ontology's cardinality
//     and domain/range constraints under a configurable severity policy
//     (package validate).
//  3. Emission: surviving triples build the multigraph and the Cypher
//     batch script with its parameter payload (packages graph, cypher).
//
// The compiler package ties the stages together; cmd/collie wraps them in
// a CLI. The ontology package holds the class and property tables, with
// the published CRM core built in and JSON documents layered on top.
//
// Supporting packages: extraction pulls entities and claims out of
// unstructured text through an OpenAI-compatible service, analysis runs
// PageRank and community detection over compiled graphs, report renders
// entities as markdown, and vocabulary maps codes to CRM IRIs.
package collie
