package ontology

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DecisionNerd/collie/errors"
)

// Shortcut declares an ergonomic, class-specific field that stands in for a
// relationship to another entity. The field resolves to the relation code
// through the registry; declarations are inherited down the parent chain.
type Shortcut struct {
	Field    string `json:"field"`
	Relation string `json:"relation"`
}

// Class describes one entity class in the ontology: a stable code (such as
// "E22"), a human-readable label, the direct parent class codes (multiple
// inheritance is allowed), and the shortcut fields declared at this class.
type Class struct {
	Code      string     `json:"code"`
	Label     string     `json:"label"`
	Parents   []string   `json:"parents,omitempty"`
	Shortcuts []Shortcut `json:"shortcuts,omitempty"`
}

// Relation describes one relationship type: domain and range class codes,
// the optional inverse relation code, the declared cardinality, and friendly
// aliases used for rendering and for the emitted relationship type names.
type Relation struct {
	Code        string      `json:"code"`
	Label       string      `json:"label"`
	Domain      string      `json:"domain"`
	Range       string      `json:"range"`
	Inverse     string      `json:"inverse,omitempty"`
	Cardinality Cardinality `json:"-"`
	Quantifier  string      `json:"quantifier"`
	Aliases     []string    `json:"aliases,omitempty"`
	Notes       string      `json:"notes,omitempty"`
}

// PrimaryAlias returns the first declared alias, falling back to an
// upper-cased label with spaces replaced by underscores.
func (r *Relation) PrimaryAlias() string {
	if len(r.Aliases) > 0 {
		return r.Aliases[0]
	}
	return strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(r.Label, " ", "_"), "-", "_"))
}

// TypeName returns the relationship type name used in emitted scripts,
// e.g. "P108_WAS_PRODUCED_BY".
func (r *Relation) TypeName() string {
	return r.Code + "_" + r.PrimaryAlias()
}

// Registry is the immutable, process-wide lookup structure describing every
// entity class and relationship type. It is loaded once from declarative
// specification data and is safe for concurrent read access; there is no
// mutation API after load.
type Registry struct {
	classes   map[string]*Class
	relations map[string]*Relation

	// ancestors[class] is the resolved, flattened ancestor set (reflexive).
	ancestors map[string]map[string]struct{}

	// shortcuts[class] is the resolved shortcut list in canonical order:
	// ancestor declarations first, nearest declarations last, overrides
	// replacing in place.
	shortcuts map[string][]Shortcut

	// domainRelations[class] lists relation codes whose domain the class
	// satisfies through the ancestor set, sorted for determinism.
	domainRelations map[string][]string
}

// Load builds a Registry from class and relation specifications. It fails
// with a spec-classified error on duplicate codes, references to undeclared
// classes, cyclic parent chains, malformed quantifiers, or non-reciprocal
// inverse declarations. No partial registry is returned on failure.
func Load(classes []Class, relations []Relation) (*Registry, error) {
	r := &Registry{
		classes:         make(map[string]*Class, len(classes)),
		relations:       make(map[string]*Relation, len(relations)),
		ancestors:       make(map[string]map[string]struct{}, len(classes)),
		shortcuts:       make(map[string][]Shortcut, len(classes)),
		domainRelations: make(map[string][]string, len(classes)),
	}

	for i := range classes {
		c := classes[i]
		if _, exists := r.classes[c.Code]; exists {
			return nil, errors.WrapSpec(
				fmt.Errorf("%w: %s", errors.ErrDuplicateClassCode, c.Code),
				"Registry", "Load", "class table parsing")
		}
		r.classes[c.Code] = &c
	}

	// Parent references must all resolve before the ancestor walk.
	for _, c := range r.classes {
		for _, p := range c.Parents {
			if _, ok := r.classes[p]; !ok {
				return nil, errors.WrapSpec(
					fmt.Errorf("%w: parent %s of class %s", errors.ErrUndeclaredClass, p, c.Code),
					"Registry", "Load", "parent resolution")
			}
		}
	}

	if err := r.resolveAncestors(); err != nil {
		return nil, err
	}

	for i := range relations {
		rel := relations[i]
		if _, exists := r.relations[rel.Code]; exists {
			return nil, errors.WrapSpec(
				fmt.Errorf("%w: %s", errors.ErrDuplicateRelationCode, rel.Code),
				"Registry", "Load", "relation table parsing")
		}
		if _, ok := r.classes[rel.Domain]; !ok {
			return nil, errors.WrapSpec(
				fmt.Errorf("%w: domain %s of relation %s", errors.ErrUndeclaredClass, rel.Domain, rel.Code),
				"Registry", "Load", "domain resolution")
		}
		if _, ok := r.classes[rel.Range]; !ok {
			return nil, errors.WrapSpec(
				fmt.Errorf("%w: range %s of relation %s", errors.ErrUndeclaredClass, rel.Range, rel.Code),
				"Registry", "Load", "range resolution")
		}
		if rel.Quantifier != "" {
			card, err := ParseQuantifier(rel.Quantifier)
			if err != nil {
				return nil, errors.WrapSpec(err, "Registry", "Load", "quantifier parsing")
			}
			rel.Cardinality = card
		} else if rel.Cardinality == (Cardinality{}) {
			rel.Cardinality = ZeroOrMany
		}
		r.relations[rel.Code] = &rel
	}

	// Declared inverses must reciprocate. A relation with no inverse is fine.
	for _, rel := range r.relations {
		if rel.Inverse == "" {
			continue
		}
		inv, ok := r.relations[rel.Inverse]
		if !ok {
			return nil, errors.WrapSpec(
				fmt.Errorf("%w: inverse %s of relation %s is not declared", errors.ErrAsymmetricInverse, rel.Inverse, rel.Code),
				"Registry", "Load", "inverse resolution")
		}
		if inv.Inverse != rel.Code {
			return nil, errors.WrapSpec(
				fmt.Errorf("%w: %s declares inverse %s, but %s declares inverse %q", errors.ErrAsymmetricInverse, rel.Code, rel.Inverse, rel.Inverse, inv.Inverse),
				"Registry", "Load", "inverse resolution")
		}
	}

	// Shortcut relations must be declared.
	for _, c := range r.classes {
		for _, sc := range c.Shortcuts {
			if _, ok := r.relations[sc.Relation]; !ok {
				return nil, errors.WrapSpec(
					fmt.Errorf("%w: shortcut %q of class %s targets relation %s", errors.ErrUnknownRelation, sc.Field, c.Code, sc.Relation),
					"Registry", "Load", "shortcut resolution")
			}
		}
	}

	r.resolveShortcuts()
	r.resolveDomainIndex()

	return r, nil
}

// resolveAncestors flattens the parent DAG into reflexive ancestor sets and
// rejects cycles.
func (r *Registry) resolveAncestors() error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(r.classes))

	var visit func(code string) error
	visit = func(code string) error {
		switch state[code] {
		case done:
			return nil
		case visiting:
			return errors.WrapSpec(
				fmt.Errorf("%w: involving class %s", errors.ErrCyclicHierarchy, code),
				"Registry", "Load", "ancestor resolution")
		}
		state[code] = visiting

		set := map[string]struct{}{code: {}}
		for _, p := range r.classes[code].Parents {
			if err := visit(p); err != nil {
				return err
			}
			for a := range r.ancestors[p] {
				set[a] = struct{}{}
			}
		}

		r.ancestors[code] = set
		state[code] = done
		return nil
	}

	for code := range r.classes {
		if err := visit(code); err != nil {
			return err
		}
	}
	return nil
}

// resolveShortcuts computes each class's canonical shortcut order: ancestor
// declarations before the class's own, with a redeclared field name
// overriding the inherited relation in place.
func (r *Registry) resolveShortcuts() {
	memo := make(map[string][]Shortcut, len(r.classes))

	var resolve func(code string) []Shortcut
	resolve = func(code string) []Shortcut {
		if cached, ok := memo[code]; ok {
			return cached
		}

		var out []Shortcut
		index := make(map[string]int)
		add := func(sc Shortcut) {
			if i, seen := index[sc.Field]; seen {
				out[i] = sc
				return
			}
			index[sc.Field] = len(out)
			out = append(out, sc)
		}

		for _, p := range r.classes[code].Parents {
			for _, sc := range resolve(p) {
				add(sc)
			}
		}
		for _, sc := range r.classes[code].Shortcuts {
			add(sc)
		}

		memo[code] = out
		return out
	}

	for code := range r.classes {
		r.shortcuts[code] = resolve(code)
	}
}

// resolveDomainIndex precomputes, per class, the relations applicable with
// that class (or an ancestor) as domain. The validator walks this index for
// minimum-cardinality checks.
func (r *Registry) resolveDomainIndex() {
	for code, ancestorSet := range r.ancestors {
		var codes []string
		for relCode, rel := range r.relations {
			if _, ok := ancestorSet[rel.Domain]; ok {
				codes = append(codes, relCode)
			}
		}
		sort.Strings(codes)
		r.domainRelations[code] = codes
	}
}

// ClassOf returns the class for a code, or an unknown-class lookup error.
func (r *Registry) ClassOf(code string) (*Class, error) {
	c, ok := r.classes[code]
	if !ok {
		return nil, errors.WrapLookup(
			fmt.Errorf("%w: %s", errors.ErrUnknownClass, code),
			"Registry", "ClassOf", "class lookup")
	}
	return c, nil
}

// RelationOf returns the relation for a code, or an unknown-relation
// lookup error.
func (r *Registry) RelationOf(code string) (*Relation, error) {
	rel, ok := r.relations[code]
	if !ok {
		return nil, errors.WrapLookup(
			fmt.Errorf("%w: %s", errors.ErrUnknownRelation, code),
			"Registry", "RelationOf", "relation lookup")
	}
	return rel, nil
}

// HasClass reports whether a class code is declared.
func (r *Registry) HasClass(code string) bool {
	_, ok := r.classes[code]
	return ok
}

// IsSubclassOf reports whether ancestorCode appears in the resolved,
// flattened ancestor set of code. The check is reflexive: a class is a
// subclass of itself. Unknown codes are never subclasses of anything.
func (r *Registry) IsSubclassOf(code, ancestorCode string) bool {
	set, ok := r.ancestors[code]
	if !ok {
		return false
	}
	_, ok = set[ancestorCode]
	return ok
}

// ShortcutTarget resolves a class-specific shortcut field name to its
// underlying relation code, consulting declarations inherited down the
// parent chain. Unresolvable names fail with an unknown-shortcut error.
func (r *Registry) ShortcutTarget(classCode, shortcutName string) (string, error) {
	if _, ok := r.classes[classCode]; !ok {
		return "", errors.WrapLookup(
			fmt.Errorf("%w: %s", errors.ErrUnknownClass, classCode),
			"Registry", "ShortcutTarget", "class lookup")
	}
	for _, sc := range r.shortcuts[classCode] {
		if sc.Field == shortcutName {
			return sc.Relation, nil
		}
	}
	return "", errors.WrapLookup(
		fmt.Errorf("%w: %q on class %s", errors.ErrUnknownShortcut, shortcutName, classCode),
		"Registry", "ShortcutTarget", "shortcut lookup")
}

// Shortcuts returns the resolved, ordered shortcut declarations for a class,
// including inherited ones. The slice must not be modified.
func (r *Registry) Shortcuts(classCode string) []Shortcut {
	return r.shortcuts[classCode]
}

// RelationsForDomain returns the codes of all relations whose domain the
// given class satisfies, inheritance included, in sorted order.
func (r *Registry) RelationsForDomain(classCode string) []string {
	return r.domainRelations[classCode]
}

// Classes returns all declared class codes in sorted order.
func (r *Registry) Classes() []string {
	codes := make([]string, 0, len(r.classes))
	for code := range r.classes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Relations returns all declared relation codes in sorted order.
func (r *Registry) Relations() []string {
	codes := make([]string, 0, len(r.relations))
	for code := range r.relations {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
