// Package extraction consumes the output contract of the external
// text-to-entity inference service: lists of typed entities and relationship
// claims, each carrying a confidence score. The compiler core never depends
// on this package; extraction feeds it the same batches direct construction
// would.
package extraction

import (
	"github.com/DecisionNerd/collie/entity"
)

// Entity is one typed entity claimed by the extraction service. Keys are
// arbitrary strings; identifier derivation happens at conversion so the
// same key extracted from different documents converges on one node.
type Entity struct {
	Key         string              `json:"id"`
	ClassCode   string              `json:"class_code"`
	Label       string              `json:"label"`
	Description string              `json:"description,omitempty"`
	Types       []string            `json:"type,omitempty"`
	Shortcuts   map[string][]string `json:"shortcuts,omitempty"`
	Confidence  float64             `json:"confidence"`
	SourceText  string              `json:"source_text,omitempty"`
}

// Claim is one relationship assertion between two extracted entity keys.
type Claim struct {
	SourceKey  string  `json:"source"`
	TargetKey  string  `json:"target"`
	Relation   string  `json:"relation"`
	Confidence float64 `json:"confidence"`
	SourceText string  `json:"source_text,omitempty"`
}

// Result is the complete output of one extraction call.
type Result struct {
	Entities []Entity `json:"entities"`
	Claims   []Claim  `json:"claims"`
}

// EntitiesByClass returns the extracted entities of one class code.
func (r *Result) EntitiesByClass(classCode string) []Entity {
	var out []Entity
	for _, e := range r.Entities {
		if e.ClassCode == classCode {
			out = append(out, e)
		}
	}
	return out
}

// ToBatch converts extraction output into a compiler input batch, dropping
// entities and claims below the confidence threshold. Claims become extra
// triples carrying their confidence and source snippet as edge properties.
// A dropped entity does not drop claims naming it: the open-world validator
// treats those endpoints as absent, not wrong.
func (r *Result) ToBatch(minConfidence float64) ([]*entity.Entity, []entity.Triple) {
	var entities []*entity.Entity
	for _, ext := range r.Entities {
		if ext.Confidence < minConfidence {
			continue
		}
		opts := []entity.Option{
			entity.WithLabel(ext.Label),
			entity.WithNotes(ext.Description),
			entity.WithTypeTags(ext.Types...),
		}
		for field, keys := range ext.Shortcuts {
			opts = append(opts, entity.WithShortcut(field, keys...))
		}
		entities = append(entities, entity.New(ext.Key, ext.ClassCode, opts...))
	}

	var triples []entity.Triple
	for _, claim := range r.Claims {
		if claim.Confidence < minConfidence {
			continue
		}
		props := map[string]any{"confidence": claim.Confidence}
		if claim.SourceText != "" {
			props["source_text"] = claim.SourceText
		}
		triples = append(triples, entity.Triple{
			Source:   entity.DeriveID(claim.SourceKey),
			Relation: claim.Relation,
			Target:   entity.DeriveID(claim.TargetKey),
			Props:    props,
		})
	}
	return entities, triples
}
