// Package recommend answers natural-language search requests with matching
// gigs and freelancers.
package recommend

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gigmarket/internal/domain"
	"github.com/kailas-cloud/gigmarket/internal/domain/gig"
	"github.com/kailas-cloud/gigmarket/internal/domain/search/filter"
	"github.com/kailas-cloud/gigmarket/internal/domain/search/keyword"
	"github.com/kailas-cloud/gigmarket/internal/logger"
	"github.com/kailas-cloud/gigmarket/internal/metrics"
)

// MinPromptLength is the shortest request, in characters, worth sending to the model.
const MinPromptLength = 5

const msgPromptTooShort = "Please provide a more detailed description."

// Result holds the extracted keywords and both match lists.
type Result struct {
	Keywords []string
	Gigs     []gig.Gig
	Sellers  []gig.Seller
}

// Service handles recommendation requests.
type Service struct {
	extractor KeywordExtractor
	listings  ListingMatcher
	sellers   SellerMatcher
}

// New creates a Service.
func New(extractor KeywordExtractor, listings ListingMatcher, sellers SellerMatcher) *Service {
	return &Service{extractor: extractor, listings: listings, sellers: sellers}
}

// Recommend extracts keywords from prompt, builds the listing and user queries
// and runs them one after the other. No keywords means empty results and no
// database round-trips.
func (s *Service) Recommend(ctx context.Context, prompt string) (Result, error) {
	if utf8.RuneCountInString(prompt) < MinPromptLength {
		return Result{}, domain.NewValidation(msgPromptTooShort)
	}

	raw, err := s.extractor.ExtractKeywords(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("recommend: %w", err)
	}

	tokens := keyword.Tokenize(raw)
	metrics.RecommendationKeywords.Observe(float64(len(tokens)))
	log := logger.FromContext(ctx)
	log.Debug("Keywords extracted", zap.Strings("keywords", tokens))

	res := Result{Keywords: tokens, Gigs: []gig.Gig{}, Sellers: []gig.Seller{}}
	if len(tokens) == 0 {
		return res, nil
	}

	listingQuery, userQuery := filter.Build(tokens)

	if res.Gigs, err = s.listings.MatchListings(ctx, listingQuery); err != nil {
		return Result{}, fmt.Errorf("match listings: %w", err)
	}
	if res.Sellers, err = s.sellers.MatchSellers(ctx, userQuery); err != nil {
		return Result{}, fmt.Errorf("match sellers: %w", err)
	}

	metrics.RecommendationResults.WithLabelValues("gigs").Observe(float64(len(res.Gigs)))
	metrics.RecommendationResults.WithLabelValues("users").Observe(float64(len(res.Sellers)))
	log.Debug("Recommendations matched",
		zap.Int("gigs", len(res.Gigs)),
		zap.Int("users", len(res.Sellers)),
	)
	return res, nil
}
