package ontology

import "sync"

// CIDOC CRM core vocabulary. Class codes are E-numbers, relation codes are
// P-numbers, following the published CRM naming. Shortcut fields are declared
// at the relation's domain class and inherited by subclasses, so for example
// "current_location" declared at E18 is available on E22 and E21.

// CoreClasses returns the built-in E-class table.
func CoreClasses() []Class {
	return []Class{
		{Code: "E1", Label: "CRM Entity"},
		{Code: "E2", Label: "Temporal Entity", Parents: []string{"E1"},
			Shortcuts: []Shortcut{{Field: "timespan", Relation: "P4"}}},
		{Code: "E4", Label: "Period", Parents: []string{"E2"}},
		{Code: "E5", Label: "Event", Parents: []string{"E2"},
			Shortcuts: []Shortcut{{Field: "took_place_at", Relation: "P7"}}},
		{Code: "E6", Label: "Destruction", Parents: []string{"E5"}},
		{Code: "E7", Label: "Activity", Parents: []string{"E5"}},
		{Code: "E8", Label: "Acquisition", Parents: []string{"E7"}},
		{Code: "E9", Label: "Move", Parents: []string{"E7"}},
		{Code: "E10", Label: "Transfer of Custody", Parents: []string{"E7"}},
		{Code: "E11", Label: "Modification", Parents: []string{"E7"}},
		{Code: "E12", Label: "Production", Parents: []string{"E11", "E63"}},
		{Code: "E18", Label: "Physical Thing", Parents: []string{"E1"},
			Shortcuts: []Shortcut{{Field: "current_location", Relation: "P53"}}},
		{Code: "E19", Label: "Physical Object", Parents: []string{"E18"}},
		{Code: "E20", Label: "Biological Object", Parents: []string{"E19"}},
		{Code: "E21", Label: "Person", Parents: []string{"E20", "E39"}},
		{Code: "E22", Label: "Human-Made Object", Parents: []string{"E19", "E24"},
			Shortcuts: []Shortcut{{Field: "produced_by", Relation: "P108"}}},
		{Code: "E24", Label: "Physical Human-Made Thing", Parents: []string{"E18"}},
		{Code: "E28", Label: "Conceptual Object", Parents: []string{"E1"}},
		{Code: "E39", Label: "Actor", Parents: []string{"E77"}},
		{Code: "E40", Label: "Legal Body", Parents: []string{"E39"}},
		{Code: "E41", Label: "Appellation", Parents: []string{"E28"}},
		{Code: "E42", Label: "Identifier", Parents: []string{"E41"}},
		{Code: "E52", Label: "Time-Span", Parents: []string{"E1"},
			Shortcuts: []Shortcut{
				{Field: "begin_of_the_begin", Relation: "P79"},
				{Field: "end_of_the_end", Relation: "P80"},
			}},
		{Code: "E53", Label: "Place", Parents: []string{"E1"}},
		{Code: "E55", Label: "Type", Parents: []string{"E28"}},
		{Code: "E59", Label: "Primitive Value", Parents: []string{"E1"}},
		{Code: "E61", Label: "Time Primitive", Parents: []string{"E59"}},
		{Code: "E62", Label: "String", Parents: []string{"E59"}},
		{Code: "E63", Label: "Beginning of Existence", Parents: []string{"E5"}},
		{Code: "E74", Label: "Group", Parents: []string{"E39"}},
		{Code: "E77", Label: "Persistent Item", Parents: []string{"E1"}},
		{Code: "E78", Label: "Curated Holding", Parents: []string{"E77"}},
	}
}

// CoreRelations returns the built-in P-property table. Every relation with an
// inverse has a reciprocal entry; cardinalities are declared independently in
// each direction.
func CoreRelations() []Relation {
	return []Relation{
		{Code: "P1", Label: "is identified by", Domain: "E1", Range: "E41", Inverse: "P1i",
			Quantifier: "0..*", Aliases: []string{"IS_IDENTIFIED_BY"},
			Notes: "Identifies an entity with an appellation"},
		{Code: "P1i", Label: "identifies", Domain: "E41", Range: "E1", Inverse: "P1",
			Quantifier: "0..*", Aliases: []string{"IDENTIFIES"}},
		{Code: "P2", Label: "has type", Domain: "E1", Range: "E55", Inverse: "P2i",
			Quantifier: "0..*", Aliases: []string{"HAS_TYPE"},
			Notes: "Assigns a type to an entity"},
		{Code: "P2i", Label: "is type of", Domain: "E55", Range: "E1", Inverse: "P2",
			Quantifier: "0..*", Aliases: []string{"IS_TYPE_OF"}},
		{Code: "P3", Label: "has note", Domain: "E1", Range: "E62", Inverse: "P3i",
			Quantifier: "0..*", Aliases: []string{"HAS_NOTE"},
			Notes: "Adds a textual note to an entity"},
		{Code: "P3i", Label: "is note of", Domain: "E62", Range: "E1", Inverse: "P3",
			Quantifier: "0..*", Aliases: []string{"IS_NOTE_OF"}},
		{Code: "P4", Label: "has time-span", Domain: "E2", Range: "E52", Inverse: "P4i",
			Quantifier: "0..1", Aliases: []string{"HAS_TIME_SPAN"},
			Notes: "Associates a temporal entity with its time-span"},
		{Code: "P4i", Label: "is time-span of", Domain: "E52", Range: "E2", Inverse: "P4",
			Quantifier: "0..*", Aliases: []string{"IS_TIME_SPAN_OF"}},
		{Code: "P5", Label: "consists of", Domain: "E18", Range: "E18", Inverse: "P5i",
			Quantifier: "0..*", Aliases: []string{"CONSISTS_OF"},
			Notes: "Physical thing consists of other physical things"},
		{Code: "P5i", Label: "forms part of", Domain: "E18", Range: "E18", Inverse: "P5",
			Quantifier: "0..*", Aliases: []string{"FORMS_PART_OF"}},
		{Code: "P7", Label: "took place at", Domain: "E5", Range: "E53", Inverse: "P7i",
			Quantifier: "0..*", Aliases: []string{"TOOK_PLACE_AT"},
			Notes: "Specifies where an event took place"},
		{Code: "P7i", Label: "witnessed", Domain: "E53", Range: "E5", Inverse: "P7",
			Quantifier: "0..*", Aliases: []string{"WITNESSED"}},
		{Code: "P8", Label: "took place on or before", Domain: "E5", Range: "E61", Inverse: "P8i",
			Quantifier: "0..*", Aliases: []string{"TOOK_PLACE_ON_OR_BEFORE"}},
		{Code: "P8i", Label: "was the latest time of", Domain: "E61", Range: "E5", Inverse: "P8",
			Quantifier: "0..*", Aliases: []string{"WAS_THE_LATEST_TIME_OF"}},
		{Code: "P9", Label: "consists of", Domain: "E4", Range: "E4", Inverse: "P9i",
			Quantifier: "0..*", Aliases: []string{"CONSISTS_OF"},
			Notes: "Period consists of other periods"},
		{Code: "P9i", Label: "forms part of", Domain: "E4", Range: "E4", Inverse: "P9",
			Quantifier: "0..*", Aliases: []string{"FORMS_PART_OF"}},
		{Code: "P10", Label: "falls within", Domain: "E4", Range: "E4", Inverse: "P10i",
			Quantifier: "0..*", Aliases: []string{"FALLS_WITHIN"}},
		{Code: "P10i", Label: "contains", Domain: "E4", Range: "E4", Inverse: "P10",
			Quantifier: "0..*", Aliases: []string{"CONTAINS"}},
		{Code: "P11", Label: "had participant", Domain: "E5", Range: "E39", Inverse: "P11i",
			Quantifier: "0..*", Aliases: []string{"HAD_PARTICIPANT"},
			Notes: "Identifies participants in an event"},
		{Code: "P11i", Label: "participated in", Domain: "E39", Range: "E5", Inverse: "P11",
			Quantifier: "0..*", Aliases: []string{"PARTICIPATED_IN"}},
		{Code: "P12", Label: "occurred in the presence of", Domain: "E5", Range: "E77", Inverse: "P12i",
			Quantifier: "0..*", Aliases: []string{"OCCURRED_IN_THE_PRESENCE_OF"}},
		{Code: "P12i", Label: "was present at", Domain: "E77", Range: "E5", Inverse: "P12",
			Quantifier: "0..*", Aliases: []string{"WAS_PRESENT_AT"}},
		{Code: "P13", Label: "destroyed", Domain: "E6", Range: "E18", Inverse: "P13i",
			Quantifier: "0..*", Aliases: []string{"DESTROYED"}},
		{Code: "P13i", Label: "was destroyed by", Domain: "E18", Range: "E6", Inverse: "P13",
			Quantifier: "0..*", Aliases: []string{"WAS_DESTROYED_BY"}},
		{Code: "P14", Label: "carried out by", Domain: "E7", Range: "E39", Inverse: "P14i",
			Quantifier: "0..*", Aliases: []string{"CARRIED_OUT_BY"},
			Notes: "Activity was carried out by an actor"},
		{Code: "P14i", Label: "performed", Domain: "E39", Range: "E7", Inverse: "P14",
			Quantifier: "0..*", Aliases: []string{"PERFORMED"}},
		{Code: "P15", Label: "was influenced by", Domain: "E7", Range: "E1", Inverse: "P15i",
			Quantifier: "0..*", Aliases: []string{"WAS_INFLUENCED_BY"}},
		{Code: "P15i", Label: "influenced", Domain: "E1", Range: "E7", Inverse: "P15",
			Quantifier: "0..*", Aliases: []string{"INFLUENCED"}},
		{Code: "P16", Label: "used specific object", Domain: "E7", Range: "E19", Inverse: "P16i",
			Quantifier: "0..*", Aliases: []string{"USED_SPECIFIC_OBJECT"}},
		{Code: "P16i", Label: "was used for", Domain: "E19", Range: "E7", Inverse: "P16",
			Quantifier: "0..*", Aliases: []string{"WAS_USED_FOR"}},
		{Code: "P17", Label: "was motivated by", Domain: "E7", Range: "E1", Inverse: "P17i",
			Quantifier: "0..*", Aliases: []string{"WAS_MOTIVATED_BY"}},
		{Code: "P17i", Label: "motivated", Domain: "E1", Range: "E7", Inverse: "P17",
			Quantifier: "0..*", Aliases: []string{"MOTIVATED"}},
		{Code: "P19", Label: "was intended use", Domain: "E7", Range: "E55", Inverse: "P19i",
			Quantifier: "0..*", Aliases: []string{"WAS_INTENDED_USE"}},
		{Code: "P19i", Label: "was use of", Domain: "E55", Range: "E7", Inverse: "P19",
			Quantifier: "0..*", Aliases: []string{"WAS_USE_OF"}},
		{Code: "P20", Label: "had specific purpose", Domain: "E7", Range: "E5", Inverse: "P20i",
			Quantifier: "0..*", Aliases: []string{"HAD_SPECIFIC_PURPOSE"}},
		{Code: "P20i", Label: "was purpose of", Domain: "E5", Range: "E7", Inverse: "P20",
			Quantifier: "0..*", Aliases: []string{"WAS_PURPOSE_OF"}},
		{Code: "P21", Label: "had general purpose", Domain: "E7", Range: "E55", Inverse: "P21i",
			Quantifier: "0..*", Aliases: []string{"HAD_GENERAL_PURPOSE"}},
		{Code: "P21i", Label: "was purpose of", Domain: "E55", Range: "E7", Inverse: "P21",
			Quantifier: "0..*", Aliases: []string{"WAS_PURPOSE_OF"}},
		{Code: "P22", Label: "transferred title to", Domain: "E8", Range: "E39", Inverse: "P22i",
			Quantifier: "0..*", Aliases: []string{"TRANSFERRED_TITLE_TO"}},
		{Code: "P22i", Label: "acquired title through", Domain: "E39", Range: "E8", Inverse: "P22",
			Quantifier: "0..*", Aliases: []string{"ACQUIRED_TITLE_THROUGH"}},
		{Code: "P23", Label: "transferred title from", Domain: "E8", Range: "E39", Inverse: "P23i",
			Quantifier: "0..*", Aliases: []string{"TRANSFERRED_TITLE_FROM"}},
		{Code: "P23i", Label: "surrendered title through", Domain: "E39", Range: "E8", Inverse: "P23",
			Quantifier: "0..*", Aliases: []string{"SURRENDERED_TITLE_THROUGH"}},
		{Code: "P24", Label: "transferred title of", Domain: "E8", Range: "E18", Inverse: "P24i",
			Quantifier: "0..*", Aliases: []string{"TRANSFERRED_TITLE_OF"}},
		{Code: "P24i", Label: "changed ownership through", Domain: "E18", Range: "E8", Inverse: "P24",
			Quantifier: "0..*", Aliases: []string{"CHANGED_OWNERSHIP_THROUGH"}},
		{Code: "P25", Label: "moved", Domain: "E9", Range: "E18", Inverse: "P25i",
			Quantifier: "0..*", Aliases: []string{"MOVED"}},
		{Code: "P25i", Label: "moved by", Domain: "E18", Range: "E9", Inverse: "P25",
			Quantifier: "0..*", Aliases: []string{"MOVED_BY"}},
		{Code: "P26", Label: "moved to", Domain: "E9", Range: "E53", Inverse: "P26i",
			Quantifier: "0..*", Aliases: []string{"MOVED_TO"}},
		{Code: "P26i", Label: "was destination of", Domain: "E53", Range: "E9", Inverse: "P26",
			Quantifier: "0..*", Aliases: []string{"WAS_DESTINATION_OF"}},
		{Code: "P27", Label: "moved from", Domain: "E9", Range: "E53", Inverse: "P27i",
			Quantifier: "0..*", Aliases: []string{"MOVED_FROM"}},
		{Code: "P27i", Label: "was origin of", Domain: "E53", Range: "E9", Inverse: "P27",
			Quantifier: "0..*", Aliases: []string{"WAS_ORIGIN_OF"}},
		{Code: "P28", Label: "custody surrendered by", Domain: "E10", Range: "E39", Inverse: "P28i",
			Quantifier: "0..*", Aliases: []string{"CUSTODY_SURRENDERED_BY"}},
		{Code: "P28i", Label: "surrendered custody through", Domain: "E39", Range: "E10", Inverse: "P28",
			Quantifier: "0..*", Aliases: []string{"SURRENDERED_CUSTODY_THROUGH"}},
		{Code: "P29", Label: "custody received by", Domain: "E10", Range: "E39", Inverse: "P29i",
			Quantifier: "0..*", Aliases: []string{"CUSTODY_RECEIVED_BY"}},
		{Code: "P29i", Label: "received custody through", Domain: "E39", Range: "E10", Inverse: "P29",
			Quantifier: "0..*", Aliases: []string{"RECEIVED_CUSTODY_THROUGH"}},
		{Code: "P30", Label: "transferred custody of", Domain: "E10", Range: "E18", Inverse: "P30i",
			Quantifier: "0..*", Aliases: []string{"TRANSFERRED_CUSTODY_OF"}},
		{Code: "P30i", Label: "custody transferred through", Domain: "E18", Range: "E10", Inverse: "P30",
			Quantifier: "0..*", Aliases: []string{"CUSTODY_TRANSFERRED_THROUGH"}},
		{Code: "P53", Label: "has current or former location", Domain: "E18", Range: "E53", Inverse: "P53i",
			Quantifier: "0..*", Aliases: []string{"HAS_CURRENT_LOCATION"},
			Notes: "Specifies the current or former location of a physical thing"},
		{Code: "P53i", Label: "is current or former location of", Domain: "E53", Range: "E18", Inverse: "P53",
			Quantifier: "0..*", Aliases: []string{"IS_CURRENT_LOCATION_OF"}},
		{Code: "P79", Label: "beginning is qualified by", Domain: "E52", Range: "E61", Inverse: "P79i",
			Quantifier: "0..1", Aliases: []string{"BEGIN_OF_THE_BEGIN"},
			Notes: "Qualifies the beginning of a time-span"},
		{Code: "P79i", Label: "qualifies beginning of", Domain: "E61", Range: "E52", Inverse: "P79",
			Quantifier: "0..*", Aliases: []string{"QUALIFIES_BEGINNING_OF"}},
		{Code: "P80", Label: "end is qualified by", Domain: "E52", Range: "E61", Inverse: "P80i",
			Quantifier: "0..1", Aliases: []string{"END_OF_THE_END"},
			Notes: "Qualifies the end of a time-span"},
		{Code: "P80i", Label: "qualifies end of", Domain: "E61", Range: "E52", Inverse: "P80",
			Quantifier: "0..*", Aliases: []string{"QUALIFIES_END_OF"}},
		{Code: "P108", Label: "was produced by", Domain: "E22", Range: "E12", Inverse: "P108i",
			Quantifier: "0..1", Aliases: []string{"WAS_PRODUCED_BY"},
			Notes: "Links a human-made object to its production event"},
		{Code: "P108i", Label: "produced", Domain: "E12", Range: "E22", Inverse: "P108",
			Quantifier: "0..*", Aliases: []string{"PRODUCED"}},
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry loaded from the built-in CRM
// core vocabulary. The built-in tables are known-good, so loading cannot
// fail; it happens once and the result is shared.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Load(CoreClasses(), CoreRelations())
		if err != nil {
			panic("ontology: built-in CRM vocabulary failed to load: " + err.Error())
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
