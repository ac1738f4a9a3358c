// Package report renders entities as human-readable markdown. Rendering is
// a pure consumer of the entity model: it has no feedback into validation
// and never touches the registry beyond class and shortcut label lookups.
package report

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/DecisionNerd/collie/entity"
	"github.com/DecisionNerd/collie/errors"
	"github.com/DecisionNerd/collie/ontology"
	"github.com/DecisionNerd/collie/vocabulary"
)

// Style selects a markdown rendering layout.
type Style string

const (
	// StyleCard renders a compact header plus canonical fields.
	StyleCard Style = "card"
	// StyleDetailed renders every populated field.
	StyleDetailed Style = "detailed"
	// StyleTable renders one row per entity.
	StyleTable Style = "table"
	// StyleNarrative renders entities as prose.
	StyleNarrative Style = "narrative"
)

// ParseStyle converts a configuration string to a style.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleCard, StyleDetailed, StyleTable, StyleNarrative:
		return Style(s), nil
	default:
		return "", errors.WrapSpec(
			fmt.Errorf("%w: markdown style %q", errors.ErrInvalidConfig, s),
			"report", "ParseStyle", "style parsing")
	}
}

// Renderer renders entities to markdown using registry metadata for class
// labels and canonical field order.
type Renderer struct {
	reg       *ontology.Registry
	showCodes bool
}

// Option configures a renderer.
type Option func(*Renderer)

// WithoutCodes hides E/P codes from rendered output.
func WithoutCodes() Option {
	return func(r *Renderer) { r.showCodes = false }
}

// NewRenderer builds a renderer bound to a loaded registry.
func NewRenderer(reg *ontology.Registry, opts ...Option) *Renderer {
	r := &Renderer{reg: reg, showCodes: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders one entity in the requested style.
func (r *Renderer) Render(e *entity.Entity, style Style) (string, error) {
	switch style {
	case StyleCard:
		return r.renderCard(e), nil
	case StyleDetailed:
		return r.renderDetailed(e), nil
	case StyleTable:
		return r.RenderTable([]*entity.Entity{e}), nil
	case StyleNarrative:
		return r.renderNarrative(e), nil
	default:
		return "", errors.WrapSpec(
			fmt.Errorf("%w: markdown style %q", errors.ErrInvalidConfig, style),
			"Renderer", "Render", "style selection")
	}
}

func (r *Renderer) classLabel(code string) string {
	if c, err := r.reg.ClassOf(code); err == nil {
		return c.Label
	}
	return code
}

func (r *Renderer) renderCard(e *entity.Entity) string {
	headerParts := []string{e.ClassCode, r.classLabel(e.ClassCode)}
	if e.Label != "" {
		headerParts = append(headerParts, e.Label)
	}
	headerParts = append(headerParts, "("+shortID(e.ID)+")")

	var body []string
	if tags := e.TypeTags(); len(tags) > 0 {
		body = append(body, "- **Type**: "+strings.Join(tags, ", "))
	}
	for _, sc := range r.reg.Shortcuts(e.ClassCode) {
		targets := e.Shortcut(sc.Field)
		if len(targets) == 0 {
			continue
		}
		name := friendlyFieldName(sc.Field)
		if r.showCodes {
			body = append(body, fmt.Sprintf("- **%s** (`%s`): %s",
				name, sc.Relation, joinIDs(targets)))
		} else {
			body = append(body, fmt.Sprintf("- **%s**: %s", name, joinIDs(targets)))
		}
	}
	if e.Notes != "" {
		body = append(body, "- **Notes**: "+e.Notes)
	}

	return "### " + strings.Join(headerParts, " · ") + "\n\n" + strings.Join(body, "\n")
}

func (r *Renderer) renderDetailed(e *entity.Entity) string {
	header := "## " + e.ClassCode + " · " + r.classLabel(e.ClassCode)
	if e.Label != "" {
		header += " - " + e.Label
	}
	header += " (" + shortID(e.ID) + ")"

	var body []string
	if e.Label != "" {
		body = append(body, "- **Label**: "+e.Label)
	}
	if iri := vocabulary.ClassIRI(e.ClassCode, r.classLabel(e.ClassCode)); iri != "" {
		body = append(body, "- **Class IRI**: <"+iri+">")
	}
	if tags := e.TypeTags(); len(tags) > 0 {
		body = append(body, "- **Type**: "+strings.Join(tags, ", "))
	}
	for _, sc := range r.reg.Shortcuts(e.ClassCode) {
		targets := e.Shortcut(sc.Field)
		if len(targets) == 0 {
			continue
		}
		name := friendlyFieldName(sc.Field)
		if r.showCodes {
			body = append(body, fmt.Sprintf("- **%s** (`%s`): %s",
				name, sc.Relation, joinIDs(targets)))
		} else {
			body = append(body, fmt.Sprintf("- **%s**: %s", name, joinIDs(targets)))
		}
	}
	for _, ref := range e.References {
		name := ref.Relation
		if rel, err := r.reg.RelationOf(ref.Relation); err == nil {
			name = rel.Label
		}
		body = append(body, fmt.Sprintf("- **%s**: %s", name, shortID(ref.Target)))
	}
	if e.Notes != "" {
		body = append(body, "- **Notes**: "+e.Notes)
	}

	return header + "\n\n" + strings.Join(body, "\n")
}

// RenderTable renders a batch of entities as one markdown table.
func (r *Renderer) RenderTable(entities []*entity.Entity) string {
	if len(entities) == 0 {
		return "No entities to display."
	}

	rows := []string{
		"| id | class_code | label | type |",
		"| --- | --- | --- | --- |",
	}
	for _, e := range entities {
		rows = append(rows, fmt.Sprintf("| %s | %s | %s | %s |",
			shortID(e.ID), e.ClassCode, e.Label, strings.Join(e.TypeTags(), ", ")))
	}
	return strings.Join(rows, "\n")
}

func (r *Renderer) renderNarrative(e *entity.Entity) string {
	var parts []string
	if e.Label != "" {
		parts = append(parts, "**"+e.Label+"**")
	}
	parts = append(parts, "is a "+strings.ToLower(r.classLabel(e.ClassCode)))

	narrativeFragments := map[string]string{
		"timespan":         "that occurred during %s",
		"took_place_at":    "at %s",
		"produced_by":      "that was produced by %s",
		"current_location": "currently located at %s",
	}
	for _, sc := range r.reg.Shortcuts(e.ClassCode) {
		fragment, ok := narrativeFragments[sc.Field]
		if !ok {
			continue
		}
		if targets := e.Shortcut(sc.Field); len(targets) > 0 {
			parts = append(parts, fmt.Sprintf(fragment, joinIDs(targets)))
		}
	}

	narrative := strings.Join(parts, " ") + "."
	if e.Notes != "" {
		narrative += "\n\n" + e.Notes
	}
	return narrative
}

func friendlyFieldName(field string) string {
	known := map[string]string{
		"timespan":           "Time-Span",
		"took_place_at":      "Location",
		"current_location":   "Location",
		"produced_by":        "Produced By",
		"begin_of_the_begin": "Start",
		"end_of_the_end":     "End",
	}
	if name, ok := known[field]; ok {
		return name
	}
	words := strings.Split(field, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// shortID renders the first identifier segment for readability.
func shortID(id uuid.UUID) string {
	return id.String()[:8] + "..."
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, shortID(id))
	}
	return strings.Join(parts, ", ")
}
