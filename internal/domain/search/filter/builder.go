package filter

import "github.com/kailas-cloud/gigmarket/internal/domain/search/keyword"

// Builder accumulates predicates for a token list. The zero value is ready to use.
type Builder struct {
	gig    []Predicate
	user   []Predicate
	cities []Predicate
	states []Predicate
}

// Add contributes the predicates of one token.
//
// A token with a leading integer also bounds the price. Every token is a city,
// state, title, description, short description and feature candidate. On the
// user side a multi-word token tests the full name, a single word the username,
// and both test the profile description.
func (b *Builder) Add(token string) {
	if n, ok := keyword.LeadingInt(token); ok {
		b.gig = append(b.gig, AtLeast(GigPrice, n))
	}

	b.cities = append(b.cities, Contains(GigCity, token))
	b.states = append(b.states, Contains(GigState, token))

	b.gig = append(b.gig,
		Contains(GigTitle, token),
		Contains(GigDescription, token),
		Contains(GigShortDesc, token),
		Has(GigFeatures, token),
	)

	if keyword.HasSpace(token) {
		b.user = append(b.user, Contains(UserFullName, token))
	} else {
		b.user = append(b.user, Contains(UserUsername, token))
	}
	b.user = append(b.user, Contains(UserDescription, token))
}

// Listings returns the gig query: all per-token predicates followed by a single
// (city OR ...) OR (state OR ...) group.
func (b *Builder) Listings() ListingQuery {
	terms := make([]Predicate, 0, len(b.gig)+1)
	terms = append(terms, b.gig...)
	if len(b.cities) > 0 || len(b.states) > 0 {
		terms = append(terms, AnyOf(AnyOf(b.cities...), AnyOf(b.states...)))
	}
	return ListingQuery{match: NewDisjunction(terms...)}
}

// Users returns the user query.
func (b *Builder) Users() UserQuery {
	terms := make([]Predicate, len(b.user))
	copy(terms, b.user)
	return UserQuery{match: NewDisjunction(terms...)}
}

// Build runs a Builder over tokens in order.
func Build(tokens []string) (ListingQuery, UserQuery) {
	var b Builder
	for _, t := range tokens {
		b.Add(t)
	}
	return b.Listings(), b.Users()
}
