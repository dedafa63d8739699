package gig

import (
	"context"
	"time"

	domgig "github.com/kailas-cloud/gigmarket/internal/domain/gig"
	"github.com/kailas-cloud/gigmarket/internal/domain/order"
	"github.com/kailas-cloud/gigmarket/internal/domain/review"
	"github.com/kailas-cloud/gigmarket/internal/domain/user"
)

// GigStore persists gigs.
type GigStore interface {
	Get(ctx context.Context, id uint) (domgig.Gig, error)
	Create(ctx context.Context, ownerID uint, f domgig.Fields) (domgig.Gig, error)
	Update(ctx context.Context, id uint, f domgig.Fields) (domgig.Gig, error)
	SetVisibility(ctx context.Context, id uint, visible bool) error
	SoftDelete(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	CountActiveByOwner(ctx context.Context, ownerID uint) (int64, error)
	TitleTaken(ctx context.Context, ownerID uint, title string, excludeID uint) (bool, error)
	Search(ctx context.Context, c domgig.Criteria) (domgig.Page, error)
	Browse(ctx context.Context, excludeOwner uint, page, limit int) (domgig.Page, error)
	Random(ctx context.Context, limit int) ([]domgig.Gig, int64, error)
	Since(ctx context.Context, t time.Time) ([]domgig.Gig, error)
	ListByOwner(ctx context.Context, ownerID uint, onlyVisible bool) ([]domgig.Gig, error)
}

// ReviewStore persists reviews and their aggregates.
type ReviewStore interface {
	List(ctx context.Context, gigID uint, offset, limit int) ([]review.Review, error)
	Create(ctx context.Context, gigID, reviewerID uint, in review.Input) (review.Review, error)
	SummaryForGig(ctx context.Context, gigID uint) (review.Summary, error)
	SummaryForOwner(ctx context.Context, ownerID uint) (review.Summary, error)
}

// OrderReader reads the orders that constrain gig changes.
type OrderReader interface {
	ListByGig(ctx context.Context, gigID uint) ([]order.Order, error)
	HasCompleted(ctx context.Context, buyerID, gigID uint) (bool, error)
}

// UserReader loads accounts.
type UserReader interface {
	Get(ctx context.Context, id uint) (user.User, error)
}
