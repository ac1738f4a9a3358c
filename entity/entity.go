// Package entity defines the canonical representation of one real-world
// thing flowing through a compilation pass: a stable identifier, an ontology
// class code, descriptive attributes, shortcut fields that stand in for
// relationships, and explicit relationship collections.
package entity

import (
	"sort"

	"github.com/google/uuid"
)

// Entity is the canonical model for a single typed thing. Identity is the
// ID, never the in-memory slot. Entities are created by the extraction
// collaborator or by direct construction and are treated as immutable once a
// compilation pass has validated them.
type Entity struct {
	ID        uuid.UUID
	ClassCode string
	Label     string
	Notes     string

	// tags is a set; rendering order is always sorted (see TypeTags).
	tags map[string]struct{}

	// ShortcutValues maps a shortcut field name to its target identifiers.
	// Fields may be single- or multi-valued; emission order within a field
	// follows the stored slice.
	ShortcutValues map[string][]uuid.UUID

	// References are explicit relationship collections that bypass shortcut
	// resolution, e.g. an event's participant list. Declared order is
	// preserved through expansion.
	References []Reference
}

// Reference is one element of an explicit relationship collection: the
// relation code is used verbatim, without shortcut lookup.
type Reference struct {
	Relation string
	Target   uuid.UUID
	Props    map[string]any
}

// Option configures an entity at construction time.
type Option func(*Entity)

// WithLabel sets the human-readable label.
func WithLabel(label string) Option {
	return func(e *Entity) {
		e.Label = label
	}
}

// WithNotes sets the free-text notes.
func WithNotes(notes string) Option {
	return func(e *Entity) {
		e.Notes = notes
	}
}

// WithTypeTags adds type tags; duplicates collapse.
func WithTypeTags(tags ...string) Option {
	return func(e *Entity) {
		for _, tag := range tags {
			e.AddTypeTag(tag)
		}
	}
}

// WithShortcut sets a shortcut field to one or more target keys. Keys run
// through DeriveID, so plain string keys and preformed UUIDs both work.
func WithShortcut(field string, keys ...string) Option {
	return func(e *Entity) {
		ids := make([]uuid.UUID, 0, len(keys))
		for _, key := range keys {
			ids = append(ids, DeriveID(key))
		}
		e.ShortcutValues[field] = ids
	}
}

// WithReference appends one element to the entity's explicit relationship
// collection.
func WithReference(relation, targetKey string, props map[string]any) Option {
	return func(e *Entity) {
		e.References = append(e.References, Reference{
			Relation: relation,
			Target:   DeriveID(targetKey),
			Props:    props,
		})
	}
}

// New constructs an entity from a string key and class code. The identifier
// is derived deterministically from the key.
func New(key, classCode string, opts ...Option) *Entity {
	e := &Entity{
		ID:             DeriveID(key),
		ClassCode:      classCode,
		tags:           make(map[string]struct{}),
		ShortcutValues: make(map[string][]uuid.UUID),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddTypeTag adds one tag to the entity's type set.
func (e *Entity) AddTypeTag(tag string) {
	if e.tags == nil {
		e.tags = make(map[string]struct{})
	}
	e.tags[tag] = struct{}{}
}

// HasTypeTag reports membership in the type set.
func (e *Entity) HasTypeTag(tag string) bool {
	_, ok := e.tags[tag]
	return ok
}

// TypeTags returns the type set in stable sorted order.
func (e *Entity) TypeTags() []string {
	if len(e.tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(e.tags))
	for tag := range e.tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Shortcut returns the target identifiers stored under a shortcut field.
func (e *Entity) Shortcut(field string) []uuid.UUID {
	return e.ShortcutValues[field]
}
