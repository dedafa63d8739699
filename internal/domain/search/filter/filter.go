// Package filter holds the typed search predicates produced from keyword tokens.
// Predicates are storage-agnostic; repositories render them into their query language.
package filter

import "fmt"

// Field names an attribute a predicate can test.
type Field string

// Gig fields.
const (
	GigTitle       Field = "title"
	GigDescription Field = "description"
	GigShortDesc   Field = "short_desc"
	GigFeatures    Field = "features"
	GigCity        Field = "city"
	GigState       Field = "state"
	GigPrice       Field = "price"
)

// User fields.
const (
	UserFullName    Field = "full_name"
	UserUsername    Field = "username"
	UserDescription Field = "description"
)

// Kind identifies a predicate variant.
type Kind int

const (
	// KindAtLeast is a numeric lower bound (field >= n).
	KindAtLeast Kind = iota + 1
	// KindContains is a case-insensitive substring match.
	KindContains
	// KindHas is exact membership in a string set field.
	KindHas
	// KindAny is a disjunction of nested predicates.
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindAtLeast:
		return "at_least"
	case KindContains:
		return "contains"
	case KindHas:
		return "has"
	case KindAny:
		return "any"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Predicate is a single search condition. Construct with AtLeast, Contains, Has or AnyOf.
type Predicate struct {
	kind  Kind
	field Field
	text  string
	min   int64
	any   []Predicate
}

// AtLeast matches rows whose numeric field is >= n.
func AtLeast(field Field, n int64) Predicate {
	return Predicate{kind: KindAtLeast, field: field, min: n}
}

// Contains matches rows whose text field contains s, ignoring case.
func Contains(field Field, s string) Predicate {
	return Predicate{kind: KindContains, field: field, text: s}
}

// Has matches rows whose set field includes s exactly.
func Has(field Field, s string) Predicate {
	return Predicate{kind: KindHas, field: field, text: s}
}

// AnyOf matches rows satisfying at least one of ps.
func AnyOf(ps ...Predicate) Predicate {
	return Predicate{kind: KindAny, any: ps}
}

// Kind returns the predicate variant.
func (p Predicate) Kind() Kind { return p.kind }

// Field returns the tested field. Empty for KindAny.
func (p Predicate) Field() Field { return p.field }

// Text returns the operand of Contains and Has.
func (p Predicate) Text() string { return p.text }

// Min returns the bound of AtLeast.
func (p Predicate) Min() int64 { return p.min }

// Any returns the members of an AnyOf group.
func (p Predicate) Any() []Predicate { return p.any }

func (p Predicate) String() string {
	switch p.kind {
	case KindAtLeast:
		return fmt.Sprintf("%s>=%d", p.field, p.min)
	case KindContains:
		return fmt.Sprintf("%s~%q", p.field, p.text)
	case KindHas:
		return fmt.Sprintf("%s∋%q", p.field, p.text)
	case KindAny:
		return fmt.Sprintf("any%v", p.any)
	}
	return p.kind.String()
}

// Disjunction is an OR over top-level predicates. An empty disjunction matches nothing.
type Disjunction struct {
	terms []Predicate
}

// NewDisjunction creates a Disjunction over terms.
func NewDisjunction(terms ...Predicate) Disjunction {
	return Disjunction{terms: terms}
}

// Terms returns the top-level predicates.
func (d Disjunction) Terms() []Predicate { return d.terms }

// IsEmpty reports whether the disjunction has no terms.
func (d Disjunction) IsEmpty() bool { return len(d.terms) == 0 }

// ListingQuery selects gigs matching Match. Results are always restricted to
// visible, non-deleted gigs, newest first, each with its owner.
type ListingQuery struct {
	match Disjunction
}

// Match returns the keyword disjunction.
func (q ListingQuery) Match() Disjunction { return q.match }

// UserQuery selects users matching Match, each with their visible gigs.
type UserQuery struct {
	match Disjunction
}

// Match returns the keyword disjunction.
func (q UserQuery) Match() Disjunction { return q.match }
