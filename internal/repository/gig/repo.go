// Package gig stores gigs in PostgreSQL.
package gig

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kailas-cloud/gigmarket/internal/db"
	"github.com/kailas-cloud/gigmarket/internal/db/postgres"
	"github.com/kailas-cloud/gigmarket/internal/domain"
	domgig "github.com/kailas-cloud/gigmarket/internal/domain/gig"
	"github.com/kailas-cloud/gigmarket/internal/domain/search/filter"
	"github.com/kailas-cloud/gigmarket/internal/repository/sqlfilter"
)

const searchable = "visibility = ? AND deleted = ?"

type conn interface {
	DB(ctx context.Context) *gorm.DB
}

// Repo implements the gig repositories of usecase/gig and usecase/recommend.
type Repo struct {
	conn conn
}

// New creates a gig repository.
func New(c conn) *Repo {
	return &Repo{conn: c}
}

func visible(tx *gorm.DB) *gorm.DB {
	return tx.Where(searchable, true, false)
}

func withOwnerAndReviews(tx *gorm.DB) *gorm.DB {
	return tx.Preload("CreatedBy").Preload("Reviews", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at DESC")
	}).Preload("Reviews.Reviewer")
}

// MatchListings returns search-visible gigs matching any predicate of q,
// newest first, each with its owner.
func (r *Repo) MatchListings(ctx context.Context, q filter.ListingQuery) ([]domgig.Gig, error) {
	cond, ok := sqlfilter.Disjunction(q.Match())
	if !ok {
		return []domgig.Gig{}, nil
	}

	var rows []postgres.GigRow
	err := r.conn.DB(ctx).
		Scopes(visible).
		Where(cond).
		Preload("CreatedBy").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("match listings: %w", postgres.Wrap(db.OpSelect, err))
	}
	return postgres.GigsDomain(rows), nil
}

// Get returns a gig with its owner.
func (r *Repo) Get(ctx context.Context, id uint) (domgig.Gig, error) {
	var row postgres.GigRow
	err := r.conn.DB(ctx).Preload("CreatedBy").First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domgig.Gig{}, domain.ErrGigNotFound
		}
		return domgig.Gig{}, fmt.Errorf("get gig %d: %w", id, postgres.Wrap(db.OpSelect, err))
	}
	return row.Domain(), nil
}

// Create stores a new visible gig.
func (r *Repo) Create(ctx context.Context, ownerID uint, f domgig.Fields) (domgig.Gig, error) {
	row := postgres.GigRow{UserID: ownerID, Visibility: true}
	row.ApplyFields(f)
	if err := r.conn.DB(ctx).Create(&row).Error; err != nil {
		return domgig.Gig{}, fmt.Errorf("create gig: %w", postgres.Wrap(db.OpInsert, err))
	}
	return row.Domain(), nil
}

// Update replaces the seller-editable attributes of a gig.
func (r *Repo) Update(ctx context.Context, id uint, f domgig.Fields) (domgig.Gig, error) {
	var row postgres.GigRow
	row.ID = id
	row.ApplyFields(f)
	res := r.conn.DB(ctx).Model(&row).
		Select("title", "description", "short_desc", "category", "features", "price", "revisions",
			"delivery_time", "time_unit", "city", "state", "down_payment", "quotation_reason",
			"quotation_details", "images", "updated_at").
		Updates(&row)
	if res.Error != nil {
		return domgig.Gig{}, fmt.Errorf("update gig %d: %w", id, postgres.Wrap(db.OpUpdate, res.Error))
	}
	return r.Get(ctx, id)
}

// SetVisibility toggles whether the gig appears in public listings.
func (r *Repo) SetVisibility(ctx context.Context, id uint, visible bool) error {
	res := r.conn.DB(ctx).Model(&postgres.GigRow{ID: id}).Update("visibility", visible)
	if res.Error != nil {
		return fmt.Errorf("set visibility %d: %w", id, postgres.Wrap(db.OpUpdate, res.Error))
	}
	return nil
}

// SoftDelete flags the gig as deleted, keeping its row for order history.
func (r *Repo) SoftDelete(ctx context.Context, id uint) error {
	res := r.conn.DB(ctx).Model(&postgres.GigRow{ID: id}).Update("deleted", true)
	if res.Error != nil {
		return fmt.Errorf("soft delete %d: %w", id, postgres.Wrap(db.OpUpdate, res.Error))
	}
	return nil
}

// Delete removes the gig and its reviews.
func (r *Repo) Delete(ctx context.Context, id uint) error {
	err := r.conn.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gig_id = ?", id).Delete(&postgres.ReviewRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&postgres.GigRow{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete gig %d: %w", id, postgres.Wrap(db.OpDelete, err))
	}
	return nil
}

// CountActiveByOwner counts the owner's gigs that are not deleted.
func (r *Repo) CountActiveByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var n int64
	err := r.conn.DB(ctx).Model(&postgres.GigRow{}).
		Where("user_id = ? AND deleted = ?", ownerID, false).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count gigs of %d: %w", ownerID, postgres.Wrap(db.OpCount, err))
	}
	return n, nil
}

// TitleTaken reports whether the owner already has a gig with title.
// excludeID skips one gig (the one being edited); 0 skips none.
func (r *Repo) TitleTaken(ctx context.Context, ownerID uint, title string, excludeID uint) (bool, error) {
	tx := r.conn.DB(ctx).Model(&postgres.GigRow{}).
		Where("user_id = ? AND title = ? AND deleted = ?", ownerID, title, false)
	if excludeID != 0 {
		tx = tx.Where("id <> ?", excludeID)
	}
	var n int64
	if err := tx.Limit(1).Count(&n).Error; err != nil {
		return false, fmt.Errorf("title lookup: %w", postgres.Wrap(db.OpCount, err))
	}
	return n > 0, nil
}

// Search runs the public filtered search.
func (r *Repo) Search(ctx context.Context, c domgig.Criteria) (domgig.Page, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		tx = visible(tx)
		if term := strings.TrimSpace(c.Term); term != "" {
			tx = tx.Where("title ILIKE ?", "%"+sqlfilter.EscapeLike(term)+"%")
		}
		if c.Category != "" {
			tx = tx.Where("category = ?", c.Category)
		}
		if c.MinBudget != nil {
			tx = tx.Where("price >= ?", *c.MinBudget)
		}
		if c.MaxBudget != nil {
			tx = tx.Where("price <= ?", *c.MaxBudget)
		}
		if c.MinTime != nil {
			tx = tx.Where("delivery_time >= ?", *c.MinTime)
		}
		if c.MaxTime != nil {
			tx = tx.Where("delivery_time <= ?", *c.MaxTime)
		}
		if c.City != "" {
			tx = tx.Where("LOWER(city) = LOWER(?)", c.City)
		}
		if c.State != "" {
			tx = tx.Where("LOWER(state) = LOWER(?)", c.State)
		}
		if c.From != nil {
			tx = tx.Where("created_at >= ?", *c.From)
		}
		return tx
	}
	return r.page(ctx, scope, c.Page, c.Limit)
}

// Browse lists search-visible gigs, excluding those owned by excludeOwner when non-zero.
func (r *Repo) Browse(ctx context.Context, excludeOwner uint, page, limit int) (domgig.Page, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		tx = visible(tx)
		if excludeOwner != 0 {
			tx = tx.Where("user_id <> ?", excludeOwner)
		}
		return tx
	}
	return r.page(ctx, scope, page, limit)
}

func (r *Repo) page(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page, limit int) (domgig.Page, error) {
	var total int64
	if err := r.conn.DB(ctx).Model(&postgres.GigRow{}).Scopes(scope).Count(&total).Error; err != nil {
		return domgig.Page{}, fmt.Errorf("count gigs: %w", postgres.Wrap(db.OpCount, err))
	}

	var rows []postgres.GigRow
	err := r.conn.DB(ctx).
		Scopes(scope, withOwnerAndReviews).
		Order("created_at DESC").
		Offset(domgig.Offset(page, limit)).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return domgig.Page{}, fmt.Errorf("list gigs: %w", postgres.Wrap(db.OpSelect, err))
	}
	return domgig.Page{Gigs: postgres.GigsDomain(rows), Total: total, Page: page, Limit: limit}, nil
}

// Random returns up to limit search-visible gigs in random order and the
// number of search-visible gigs.
func (r *Repo) Random(ctx context.Context, limit int) ([]domgig.Gig, int64, error) {
	var total int64
	if err := r.conn.DB(ctx).Model(&postgres.GigRow{}).Scopes(visible).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count gigs: %w", postgres.Wrap(db.OpCount, err))
	}

	var rows []postgres.GigRow
	err := r.conn.DB(ctx).
		Scopes(visible, withOwnerAndReviews).
		Order("RANDOM()").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("random gigs: %w", postgres.Wrap(db.OpSelect, err))
	}
	return postgres.GigsDomain(rows), total, nil
}

// Since returns search-visible gigs created at or after t, newest first.
func (r *Repo) Since(ctx context.Context, t time.Time) ([]domgig.Gig, error) {
	var rows []postgres.GigRow
	err := r.conn.DB(ctx).
		Scopes(visible).
		Where("created_at >= ?", t).
		Preload("CreatedBy").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("recent gigs: %w", postgres.Wrap(db.OpSelect, err))
	}
	return postgres.GigsDomain(rows), nil
}

// ListByOwner returns the owner's non-deleted gigs; with onlyVisible it also
// drops hidden ones.
func (r *Repo) ListByOwner(ctx context.Context, ownerID uint, onlyVisible bool) ([]domgig.Gig, error) {
	tx := r.conn.DB(ctx).Where("user_id = ?", ownerID)
	if onlyVisible {
		tx = tx.Scopes(visible)
	} else {
		tx = tx.Where("deleted = ?", false)
	}

	var rows []postgres.GigRow
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("gigs of %d: %w", ownerID, postgres.Wrap(db.OpSelect, err))
	}
	return postgres.GigsDomain(rows), nil
}
