// Package gig implements listing management, browsing and reviews.
package gig

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gigmarket/internal/domain"
	domgig "github.com/kailas-cloud/gigmarket/internal/domain/gig"
	"github.com/kailas-cloud/gigmarket/internal/domain/order"
	"github.com/kailas-cloud/gigmarket/internal/domain/review"
	"github.com/kailas-cloud/gigmarket/internal/logger"
)

const (
	msgProfileAndEmail   = "Profile information must be set and email must be confirmed to add a work."
	msgProfile           = "Profile information must be set to add a work."
	msgEmail             = "Email must be confirmed to add a work."
	msgTitleTaken        = "You already have a work with this title."
	msgOutstandingOrders = "Cannot edit work with outstanding orders or incomplete refunds."
	msgReviewNotAllowed  = "You can only review a work you have ordered and completed."
)

// Rules are the marketplace limits applied by the service.
type Rules struct {
	MaxGigsPerUser        int
	PageSize              int
	MaxPageSize           int
	ReviewPageSize        int
	RandomLimit           int
	RecentWindow          time.Duration
	RequireConfirmedEmail bool
}

// Service handles gig use cases.
type Service struct {
	gigs    GigStore
	reviews ReviewStore
	orders  OrderReader
	users   UserReader
	rules   Rules
	now     func() time.Time
}

// New creates a Service.
func New(gigs GigStore, reviews ReviewStore, orders OrderReader, users UserReader, rules Rules) *Service {
	return &Service{gigs: gigs, reviews: reviews, orders: orders, users: users, rules: rules, now: time.Now}
}

// Create publishes a new gig for userID.
func (s *Service) Create(ctx context.Context, userID uint, f domgig.Fields) (domgig.Gig, error) {
	draft, err := domgig.NewDraft(f)
	if err != nil {
		return domgig.Gig{}, err
	}

	seller, err := s.users.Get(ctx, userID)
	if err != nil {
		return domgig.Gig{}, fmt.Errorf("create gig: %w", err)
	}
	if err := s.checkSeller(seller.ProfileInfoSet, seller.EmailConfirmed); err != nil {
		return domgig.Gig{}, err
	}

	n, err := s.gigs.CountActiveByOwner(ctx, userID)
	if err != nil {
		return domgig.Gig{}, fmt.Errorf("create gig: %w", err)
	}
	if n >= int64(s.rules.MaxGigsPerUser) {
		return domgig.Gig{}, domain.NewRule(domain.ErrGigLimitReached,
			fmt.Sprintf("You have reached the maximum limit of %d works.", s.rules.MaxGigsPerUser))
	}

	if err := s.checkTitle(ctx, userID, draft.Title(), 0); err != nil {
		return domgig.Gig{}, err
	}

	g, err := s.gigs.Create(ctx, userID, draft.Fields())
	if err != nil {
		return domgig.Gig{}, fmt.Errorf("create gig: %w", err)
	}
	logger.FromContext(ctx).Info("Gig created", logger.GigID(g.ID), logger.UserID(userID))
	return g, nil
}

func (s *Service) checkSeller(profileSet, emailConfirmed bool) error {
	needEmail := s.rules.RequireConfirmedEmail && !emailConfirmed
	switch {
	case !profileSet && needEmail:
		return domain.NewRule(domain.ErrProfileIncomplete, msgProfileAndEmail)
	case !profileSet:
		return domain.NewRule(domain.ErrProfileIncomplete, msgProfile)
	case needEmail:
		return domain.NewRule(domain.ErrEmailNotConfirmed, msgEmail)
	}
	return nil
}

func (s *Service) checkTitle(ctx context.Context, ownerID uint, title string, excludeID uint) error {
	taken, err := s.gigs.TitleTaken(ctx, ownerID, title, excludeID)
	if err != nil {
		return fmt.Errorf("title check: %w", err)
	}
	if taken {
		return domain.NewRule(domain.ErrAlreadyExists, msgTitleTaken)
	}
	return nil
}

// Update replaces the attributes of a gig owned by userID. Every order on the
// gig must be settled.
func (s *Service) Update(ctx context.Context, userID, gigID uint, f domgig.Fields) (domgig.Gig, error) {
	draft, err := domgig.NewDraft(f)
	if err != nil {
		return domgig.Gig{}, err
	}
	if _, err := s.owned(ctx, userID, gigID); err != nil {
		return domgig.Gig{}, err
	}

	orders, err := s.orders.ListByGig(ctx, gigID)
	if err != nil {
		return domgig.Gig{}, fmt.Errorf("update gig: %w", err)
	}
	if !order.AllSettled(orders) {
		return domgig.Gig{}, domain.NewRule(domain.ErrOutstandingOrders, msgOutstandingOrders)
	}

	if err := s.checkTitle(ctx, userID, draft.Title(), gigID); err != nil {
		return domgig.Gig{}, err
	}

	g, err := s.gigs.Update(ctx, gigID, draft.Fields())
	if err != nil {
		return domgig.Gig{}, fmt.Errorf("update gig: %w", err)
	}
	return g, nil
}

// owned loads a live gig and checks that userID owns it.
func (s *Service) owned(ctx context.Context, userID, gigID uint) (domgig.Gig, error) {
	g, err := s.live(ctx, gigID)
	if err != nil {
		return domgig.Gig{}, err
	}
	if g.OwnerID != userID {
		return domgig.Gig{}, domain.ErrForbidden
	}
	return g, nil
}

func (s *Service) live(ctx context.Context, gigID uint) (domgig.Gig, error) {
	g, err := s.gigs.Get(ctx, gigID)
	if err != nil {
		return domgig.Gig{}, fmt.Errorf("gig %d: %w", gigID, err)
	}
	if g.Deleted {
		return domgig.Gig{}, fmt.Errorf("gig %d: %w", gigID, domain.ErrGigNotFound)
	}
	return g, nil
}

// Get returns a gig with its latest reviews and the rating summaries of the
// gig and of its seller.
func (s *Service) Get(ctx context.Context, gigID uint) (domgig.Detail, error) {
	g, err := s.live(ctx, gigID)
	if err != nil {
		return domgig.Detail{}, err
	}

	reviews, err := s.reviews.List(ctx, gigID, 0, s.rules.ReviewPageSize)
	if err != nil {
		return domgig.Detail{}, fmt.Errorf("gig detail: %w", err)
	}
	gigRating, err := s.reviews.SummaryForGig(ctx, gigID)
	if err != nil {
		return domgig.Detail{}, fmt.Errorf("gig detail: %w", err)
	}
	sellerRating, err := s.reviews.SummaryForOwner(ctx, g.OwnerID)
	if err != nil {
		return domgig.Detail{}, fmt.Errorf("gig detail: %w", err)
	}

	return domgig.Detail{Gig: g, Reviews: reviews, GigRating: gigRating, SellerRating: sellerRating}, nil
}

// Reviews returns one page of a gig's reviews, newest first. page starts at 1.
func (s *Service) Reviews(ctx context.Context, gigID uint, page int) ([]review.Review, error) {
	if page < 1 {
		return nil, domain.NewValidation("page must be at least 1")
	}
	limit := s.rules.ReviewPageSize
	out, err := s.reviews.List(ctx, gigID, domgig.Offset(page, limit), limit)
	if err != nil {
		return nil, fmt.Errorf("reviews: %w", err)
	}
	return out, nil
}

// AddReview stores a review by userID. The reviewer needs a completed order for the gig.
func (s *Service) AddReview(ctx context.Context, userID, gigID uint, rating int, text string) (review.Review, error) {
	in, err := review.NewInput(rating, text)
	if err != nil {
		return review.Review{}, err
	}
	if _, err := s.live(ctx, gigID); err != nil {
		return review.Review{}, err
	}

	ok, err := s.orders.HasCompleted(ctx, userID, gigID)
	if err != nil {
		return review.Review{}, fmt.Errorf("add review: %w", err)
	}
	if !ok {
		return review.Review{}, domain.NewRule(domain.ErrReviewNotAllowed, msgReviewNotAllowed)
	}

	r, err := s.reviews.Create(ctx, gigID, userID, in)
	if err != nil {
		return review.Review{}, fmt.Errorf("add review: %w", err)
	}
	return r, nil
}

// HasOrdered reports whether userID has a completed order for the gig.
func (s *Service) HasOrdered(ctx context.Context, userID, gigID uint) (bool, error) {
	ok, err := s.orders.HasCompleted(ctx, userID, gigID)
	if err != nil {
		return false, fmt.Errorf("order status: %w", err)
	}
	return ok, nil
}

// Search runs the public filtered search.
func (s *Service) Search(ctx context.Context, c domgig.Criteria) (domgig.Page, error) {
	if c.MinBudget != nil && c.MaxBudget != nil && *c.MinBudget > *c.MaxBudget {
		return domgig.Page{}, domain.NewValidation("minBudget must not exceed maxBudget")
	}
	if c.MinTime != nil && c.MaxTime != nil && *c.MinTime > *c.MaxTime {
		return domgig.Page{}, domain.NewValidation("minTime must not exceed maxTime")
	}
	c.Page, c.Limit = s.paging(c.Page, c.Limit)

	p, err := s.gigs.Search(ctx, c)
	if err != nil {
		return domgig.Page{}, fmt.Errorf("search: %w", err)
	}
	return p, nil
}

// Browse lists search-visible gigs, leaving out the viewer's own when viewerID is non-zero.
func (s *Service) Browse(ctx context.Context, viewerID uint, page, limit int) (domgig.Page, error) {
	page, limit = s.paging(page, limit)
	p, err := s.gigs.Browse(ctx, viewerID, page, limit)
	if err != nil {
		return domgig.Page{}, fmt.Errorf("browse: %w", err)
	}
	return p, nil
}

func (s *Service) paging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.rules.PageSize
	}
	if s.rules.MaxPageSize > 0 && limit > s.rules.MaxPageSize {
		limit = s.rules.MaxPageSize
	}
	return page, limit
}

// Random returns up to limit random search-visible gigs and their total count.
// limit is capped by the configured random limit.
func (s *Service) Random(ctx context.Context, limit int) ([]domgig.Gig, int64, error) {
	if limit <= 0 || limit > s.rules.RandomLimit {
		limit = s.rules.RandomLimit
	}
	gigs, total, err := s.gigs.Random(ctx, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("random: %w", err)
	}
	return gigs, total, nil
}

// Recent returns the gigs of the recent window grouped by category bucket.
func (s *Service) Recent(ctx context.Context) (domgig.Recent, error) {
	gigs, err := s.gigs.Since(ctx, s.now().Add(-s.rules.RecentWindow))
	if err != nil {
		return domgig.Recent{}, fmt.Errorf("recent: %w", err)
	}
	return domgig.GroupRecent(gigs), nil
}

// Mine returns the caller's account and non-deleted gigs, hidden ones included.
func (s *Service) Mine(ctx context.Context, userID uint) (domgig.Seller, error) {
	return s.seller(ctx, userID, false)
}

// PublicProfile returns a user and their search-visible gigs.
func (s *Service) PublicProfile(ctx context.Context, userID uint) (domgig.Seller, error) {
	return s.seller(ctx, userID, true)
}

func (s *Service) seller(ctx context.Context, userID uint, onlyVisible bool) (domgig.Seller, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return domgig.Seller{}, fmt.Errorf("seller %d: %w", userID, err)
	}
	gigs, err := s.gigs.ListByOwner(ctx, userID, onlyVisible)
	if err != nil {
		return domgig.Seller{}, fmt.Errorf("seller %d: %w", userID, err)
	}
	return domgig.Seller{User: u, Gigs: gigs}, nil
}

// SetVisibility shows or hides a gig owned by userID.
func (s *Service) SetVisibility(ctx context.Context, userID, gigID uint, visible bool) error {
	if _, err := s.owned(ctx, userID, gigID); err != nil {
		return err
	}
	if err := s.gigs.SetVisibility(ctx, gigID, visible); err != nil {
		return fmt.Errorf("set visibility: %w", err)
	}
	return nil
}

// Delete removes a gig owned by userID. Gigs with orders are only flagged as
// deleted; others are removed together with their reviews.
func (s *Service) Delete(ctx context.Context, userID, gigID uint) error {
	if _, err := s.owned(ctx, userID, gigID); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			logger.FromContext(ctx).Warn("Gig delete by non-owner",
				logger.GigID(gigID), logger.UserID(userID))
		}
		return err
	}

	orders, err := s.orders.ListByGig(ctx, gigID)
	if err != nil {
		return fmt.Errorf("delete gig: %w", err)
	}

	if len(orders) > 0 {
		err = s.gigs.SoftDelete(ctx, gigID)
	} else {
		err = s.gigs.Delete(ctx, gigID)
	}
	if err != nil {
		return fmt.Errorf("delete gig: %w", err)
	}
	logger.FromContext(ctx).Info("Gig deleted",
		logger.GigID(gigID), zap.Bool("soft", len(orders) > 0))
	return nil
}
