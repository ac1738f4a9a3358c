package entity

import (
	"encoding/json"
	"fmt"

	"github.com/DecisionNerd/collie/errors"
)

// Record is the JSON-friendly input shape for one entity. Keys are plain
// strings so producers never have to mint identifiers themselves; conversion
// to the canonical model runs every key through DeriveID.
type Record struct {
	ID        string              `json:"id"`
	ClassCode string              `json:"class_code"`
	Label     string              `json:"label,omitempty"`
	Notes     string              `json:"notes,omitempty"`
	Types     []string            `json:"type,omitempty"`
	Shortcuts map[string][]string `json:"shortcuts,omitempty"`
	Relations []RelationRecord    `json:"relations,omitempty"`
}

// RelationRecord is one explicit relationship element in a record.
type RelationRecord struct {
	Relation string         `json:"relation"`
	Target   string         `json:"target"`
	Props    map[string]any `json:"props,omitempty"`
}

// ToEntity converts a record to the canonical model. The id and class_code
// fields are required; everything else is optional.
func (r Record) ToEntity() (*Entity, error) {
	if r.ID == "" {
		return nil, errors.WrapSpec(errors.ErrMissingID,
			"Record", "ToEntity", "record conversion")
	}
	if r.ClassCode == "" {
		return nil, errors.WrapSpec(
			fmt.Errorf("%w: record %q", errors.ErrMissingClassCode, r.ID),
			"Record", "ToEntity", "record conversion")
	}

	e := New(r.ID, r.ClassCode,
		WithLabel(r.Label),
		WithNotes(r.Notes),
		WithTypeTags(r.Types...),
	)
	for field, keys := range r.Shortcuts {
		WithShortcut(field, keys...)(e)
	}
	for _, rel := range r.Relations {
		WithReference(rel.Relation, rel.Target, rel.Props)(e)
	}
	return e, nil
}

// DecodeRecords parses a JSON array of records and converts each to the
// canonical model. The first bad record aborts the whole batch so callers
// never work with a silently truncated input set.
func DecodeRecords(data []byte) ([]*Entity, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.WrapSpec(err, "Record", "DecodeRecords", "input parsing")
	}
	entities := make([]*Entity, 0, len(records))
	for i, record := range records {
		e, err := record.ToEntity()
		if err != nil {
			return nil, fmt.Errorf("Record.DecodeRecords: record %d: %w", i, err)
		}
		entities = append(entities, e)
	}
	return entities, nil
}
