// Package ontology provides the immutable class and relationship registry
// that constrains relationship compilation.
//
// The registry describes every entity class (code, label, parent classes,
// shortcut fields) and every relationship type (code, domain, range, inverse,
// cardinality, aliases). It is loaded once, either from the built-in CIDOC
// CRM core vocabulary via Default or from a declarative JSON document via
// LoadJSON, and is read-only afterwards: all lookups are safe for concurrent
// use by parallel compilation passes.
//
// Class hierarchy is modeled as an explicit directed acyclic ancestor index
// computed at load time, not as language-level inheritance. IsSubclassOf is
// reflexive and queries the flattened ancestor set, which supports multiple
// parents per class. Shortcut declarations are inherited down the parent
// chain; a subclass redeclaring a field name overrides the inherited
// relation in place.
package ontology
