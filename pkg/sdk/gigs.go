package gigmarket

import (
	"context"
	"fmt"
	"time"
)

// GigService reads public listings.
type GigService struct {
	svc gigUseCase
	obs *observer
}

// Get returns a visible gig with its latest reviews and ratings.
func (s *GigService) Get(ctx context.Context, id uint) (d GigDetail, err error) {
	start := time.Now()
	defer func() { s.obs.observe("gig_get", start, err) }()

	detail, err := s.svc.Get(ctx, id)
	if err != nil {
		return GigDetail{}, fmt.Errorf("get gig %d: %w", id, err)
	}
	return fromInternalDetail(detail), nil
}

// Reviews returns one page (1-based) of reviews of a gig, newest first.
func (s *GigService) Reviews(ctx context.Context, gigID uint, page int) (rs []Review, err error) {
	start := time.Now()
	defer func() { s.obs.observe("gig_reviews", start, err) }()

	reviews, err := s.svc.Reviews(ctx, gigID, page)
	if err != nil {
		return nil, fmt.Errorf("list reviews of gig %d: %w", gigID, err)
	}
	return fromInternalReviews(reviews), nil
}

// Search runs the public filtered search.
func (s *GigService) Search(ctx context.Context, q SearchQuery) (p GigPage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("gig_search", start, err) }()

	page, err := s.svc.Search(ctx, toInternalCriteria(q))
	if err != nil {
		return GigPage{}, fmt.Errorf("search gigs: %w", err)
	}
	return fromInternalPage(page), nil
}

// Random returns up to limit visible gigs in random order and the number of
// visible gigs overall.
func (s *GigService) Random(ctx context.Context, limit int) (gs []Gig, total int64, err error) {
	start := time.Now()
	defer func() { s.obs.observe("gig_random", start, err) }()

	gigs, total, err := s.svc.Random(ctx, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("random gigs: %w", err)
	}
	return fromInternalGigs(gigs), total, nil
}

// Recent returns the landing feed.
func (s *GigService) Recent(ctx context.Context) (r RecentGigs, err error) {
	start := time.Now()
	defer func() { s.obs.observe("gig_recent", start, err) }()

	recent, err := s.svc.Recent(ctx)
	if err != nil {
		return RecentGigs{}, fmt.Errorf("recent gigs: %w", err)
	}
	return fromInternalRecent(recent), nil
}

// Seller returns a freelancer's public profile with their visible gigs.
func (s *GigService) Seller(ctx context.Context, userID uint) (sl Seller, err error) {
	start := time.Now()
	defer func() { s.obs.observe("seller_get", start, err) }()

	seller, err := s.svc.PublicProfile(ctx, userID)
	if err != nil {
		return Seller{}, fmt.Errorf("get seller %d: %w", userID, err)
	}
	return fromInternalSeller(seller), nil
}
