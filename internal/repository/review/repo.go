// Package review stores gig reviews in PostgreSQL.
package review

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kailas-cloud/gigmarket/internal/db"
	"github.com/kailas-cloud/gigmarket/internal/db/postgres"
	domreview "github.com/kailas-cloud/gigmarket/internal/domain/review"
)

type conn interface {
	DB(ctx context.Context) *gorm.DB
}

// Repo implements the review repository of usecase/gig.
type Repo struct {
	conn conn
}

// New creates a review repository.
func New(c conn) *Repo {
	return &Repo{conn: c}
}

// List returns reviews of a gig, newest first, each with its reviewer.
func (r *Repo) List(ctx context.Context, gigID uint, offset, limit int) ([]domreview.Review, error) {
	var rows []postgres.ReviewRow
	err := r.conn.DB(ctx).
		Where("gig_id = ?", gigID).
		Preload("Reviewer").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("reviews of gig %d: %w", gigID, postgres.Wrap(db.OpSelect, err))
	}

	out := make([]domreview.Review, len(rows))
	for i := range rows {
		out[i] = rows[i].Domain()
	}
	return out, nil
}

// Create stores a review and returns it with its reviewer.
func (r *Repo) Create(ctx context.Context, gigID, reviewerID uint, in domreview.Input) (domreview.Review, error) {
	row := postgres.ReviewRow{GigID: gigID, ReviewerID: reviewerID, Rating: in.Rating(), ReviewText: in.Text()}
	if err := r.conn.DB(ctx).Create(&row).Error; err != nil {
		return domreview.Review{}, fmt.Errorf("create review: %w", postgres.Wrap(db.OpInsert, err))
	}
	if err := r.conn.DB(ctx).Preload("Reviewer").First(&row, row.ID).Error; err != nil {
		return domreview.Review{}, fmt.Errorf("reload review %d: %w", row.ID, postgres.Wrap(db.OpSelect, err))
	}
	return row.Domain(), nil
}

type aggregate struct {
	Count int64
	Sum   int64
}

// SummaryForGig returns the review count and average rating of a gig.
func (r *Repo) SummaryForGig(ctx context.Context, gigID uint) (domreview.Summary, error) {
	var a aggregate
	err := r.conn.DB(ctx).Model(&postgres.ReviewRow{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("gig_id = ?", gigID).
		Find(&a).Error
	if err != nil {
		return domreview.Summary{}, fmt.Errorf("rating of gig %d: %w", gigID, postgres.Wrap(db.OpSelect, err))
	}
	return domreview.NewSummary(a.Count, a.Sum), nil
}

// SummaryForOwner aggregates reviews across every gig of an owner.
func (r *Repo) SummaryForOwner(ctx context.Context, ownerID uint) (domreview.Summary, error) {
	var a aggregate
	err := r.conn.DB(ctx).Model(&postgres.ReviewRow{}).
		Select("COUNT(reviews.id) AS count, COALESCE(SUM(reviews.rating), 0) AS sum").
		Joins("JOIN gigs ON gigs.id = reviews.gig_id").
		Where("gigs.user_id = ?", ownerID).
		Find(&a).Error
	if err != nil {
		return domreview.Summary{}, fmt.Errorf("rating of seller %d: %w", ownerID, postgres.Wrap(db.OpSelect, err))
	}
	return domreview.NewSummary(a.Count, a.Sum), nil
}
