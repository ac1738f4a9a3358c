// Package vocabulary maps ontology codes to CIDOC CRM IRIs for export at
// API boundaries. Internal code always works with bare codes ("E22",
// "P108"); IRIs appear only in rendered output and RDF-facing surfaces.
package vocabulary

import (
	"strings"

	"github.com/google/uuid"
)

// Base IRI constants.
const (
	// CRMBase is the published CIDOC CRM namespace.
	CRMBase = "http://www.cidoc-crm.org/cidoc-crm/"

	// DefaultInstanceBase is the default namespace for entity instances.
	// Deployments exporting RDF should override it with their own authority.
	DefaultInstanceBase = "https://example.org/crm/entity/"
)

// ClassIRI converts a class code and label to its CRM namespace IRI.
//
// The CRM convention joins the code and the label with underscores in
// place of spaces, keeping hyphens:
//
//	ClassIRI("E22", "Human-Made Object") // ".../E22_Human-Made_Object"
//	ClassIRI("E52", "Time-Span")         // ".../E52_Time-Span"
//
// Returns empty string when either part is missing.
func ClassIRI(code, label string) string {
	if code == "" || label == "" {
		return ""
	}
	return CRMBase + code + "_" + fragment(label)
}

// PropertyIRI converts a property code and label to its CRM namespace IRI.
//
//	PropertyIRI("P108", "was produced by") // ".../P108_was_produced_by"
//
// Returns empty string when either part is missing.
func PropertyIRI(code, label string) string {
	if code == "" || label == "" {
		return ""
	}
	return CRMBase + code + "_" + fragment(label)
}

// InstanceIRI generates an IRI for one entity instance. An empty base
// falls back to DefaultInstanceBase.
func InstanceIRI(base string, id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	if base == "" {
		base = DefaultInstanceBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + id.String()
}

// fragment normalizes a human label into an IRI fragment: whitespace runs
// become single underscores, everything else passes through.
func fragment(label string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(label)), "_")
}
