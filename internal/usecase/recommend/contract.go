package recommend

import (
	"context"

	"github.com/kailas-cloud/gigmarket/internal/domain/gig"
	"github.com/kailas-cloud/gigmarket/internal/domain/search/filter"
)

// KeywordExtractor turns a free-text request into raw keyword text.
type KeywordExtractor interface {
	ExtractKeywords(ctx context.Context, prompt string) (string, error)
}

// ListingMatcher runs a listing query.
type ListingMatcher interface {
	MatchListings(ctx context.Context, q filter.ListingQuery) ([]gig.Gig, error)
}

// SellerMatcher runs a user query.
type SellerMatcher interface {
	MatchSellers(ctx context.Context, q filter.UserQuery) ([]gig.Seller, error)
}
