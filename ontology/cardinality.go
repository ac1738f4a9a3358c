package ontology

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DecisionNerd/collie/errors"
)

// Unbounded marks a cardinality with no upper limit.
const Unbounded = -1

// Cardinality is the declared minimum/maximum count of relationship
// instances of a given type from a given source entity.
type Cardinality struct {
	Min int
	Max int // Unbounded when the quantifier ends in "*"
}

// ParseQuantifier parses a quantifier string such as "0..1", "1..*" or
// "0..*" into a Cardinality.
func ParseQuantifier(q string) (Cardinality, error) {
	minPart, maxPart, ok := strings.Cut(q, "..")
	if !ok {
		return Cardinality{}, fmt.Errorf("%w: %q", errors.ErrBadQuantifier, q)
	}

	min, err := strconv.Atoi(minPart)
	if err != nil || min < 0 {
		return Cardinality{}, fmt.Errorf("%w: %q", errors.ErrBadQuantifier, q)
	}

	if maxPart == "*" {
		return Cardinality{Min: min, Max: Unbounded}, nil
	}

	max, err := strconv.Atoi(maxPart)
	if err != nil || max < min {
		return Cardinality{}, fmt.Errorf("%w: %q", errors.ErrBadQuantifier, q)
	}

	return Cardinality{Min: min, Max: max}, nil
}

// String renders the cardinality back in quantifier notation.
func (c Cardinality) String() string {
	if c.Max == Unbounded {
		return fmt.Sprintf("%d..*", c.Min)
	}
	return fmt.Sprintf("%d..%d", c.Min, c.Max)
}

// Satisfied reports whether count falls within the declared bounds.
func (c Cardinality) Satisfied(count int) bool {
	if count < c.Min {
		return false
	}
	if c.Max != Unbounded && count > c.Max {
		return false
	}
	return true
}

// Common quantifiers.
var (
	ExactlyOne = Cardinality{Min: 1, Max: 1}
	ZeroOrOne  = Cardinality{Min: 0, Max: 1}
	OneOrMany  = Cardinality{Min: 1, Max: Unbounded}
	ZeroOrMany = Cardinality{Min: 0, Max: Unbounded}
)
