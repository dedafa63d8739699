// Package user stores accounts in PostgreSQL.
package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kailas-cloud/gigmarket/internal/db"
	"github.com/kailas-cloud/gigmarket/internal/db/postgres"
	"github.com/kailas-cloud/gigmarket/internal/domain"
	"github.com/kailas-cloud/gigmarket/internal/domain/gig"
	"github.com/kailas-cloud/gigmarket/internal/domain/search/filter"
	domuser "github.com/kailas-cloud/gigmarket/internal/domain/user"
	"github.com/kailas-cloud/gigmarket/internal/repository/sqlfilter"
)

type conn interface {
	DB(ctx context.Context) *gorm.DB
}

// Repo implements the user repositories of usecase/account, usecase/gig
// and usecase/recommend.
type Repo struct {
	conn conn
}

// New creates a user repository.
func New(c conn) *Repo {
	return &Repo{conn: c}
}

// MatchSellers returns users matching any predicate of q, each with their
// search-visible gigs. Users themselves have no visibility constraint.
func (r *Repo) MatchSellers(ctx context.Context, q filter.UserQuery) ([]gig.Seller, error) {
	cond, ok := sqlfilter.Disjunction(q.Match())
	if !ok {
		return []gig.Seller{}, nil
	}

	var rows []postgres.UserRow
	err := r.conn.DB(ctx).
		Where(cond).
		Preload("Gigs", "visibility = ? AND deleted = ?", true, false).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("match sellers: %w", postgres.Wrap(db.OpSelect, err))
	}

	out := make([]gig.Seller, len(rows))
	for i := range rows {
		out[i] = gig.Seller{User: rows[i].Domain(), Gigs: postgres.GigsDomain(rows[i].Gigs)}
	}
	return out, nil
}

// Get returns a user by id.
func (r *Repo) Get(ctx context.Context, id uint) (domuser.User, error) {
	var row postgres.UserRow
	if err := r.conn.DB(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domuser.User{}, domain.ErrUserNotFound
		}
		return domuser.User{}, fmt.Errorf("get user %d: %w", id, postgres.Wrap(db.OpSelect, err))
	}
	return row.Domain(), nil
}

// GetByEmail returns a user by normalised email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (domuser.User, error) {
	var row postgres.UserRow
	if err := r.conn.DB(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domuser.User{}, domain.ErrUserNotFound
		}
		return domuser.User{}, fmt.Errorf("get user by email: %w", postgres.Wrap(db.OpSelect, err))
	}
	return row.Domain(), nil
}

// Create stores a new account. A taken email maps to domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, email, passwordHash string) (domuser.User, error) {
	row := postgres.UserRow{Email: email, Password: passwordHash}
	if err := r.conn.DB(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domuser.User{}, fmt.Errorf("email %s: %w", email, domain.ErrAlreadyExists)
		}
		return domuser.User{}, fmt.Errorf("create user: %w", postgres.Wrap(db.OpInsert, err))
	}
	return row.Domain(), nil
}

// UpdateProfile stores the public profile and marks it as set.
func (r *Repo) UpdateProfile(ctx context.Context, id uint, p domuser.Profile) (domuser.User, error) {
	username := p.Username()
	res := r.conn.DB(ctx).Model(&postgres.UserRow{ID: id}).Updates(map[string]any{
		"username":            username,
		"full_name":           p.FullName(),
		"description":         p.Description(),
		"profile_image":       p.ProfileImage(),
		"is_profile_info_set": true,
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domuser.User{}, fmt.Errorf("username %s: %w", username, domain.ErrAlreadyExists)
		}
		return domuser.User{}, fmt.Errorf("update profile %d: %w", id, postgres.Wrap(db.OpUpdate, res.Error))
	}
	return r.Get(ctx, id)
}

// UsernameTaken reports whether another user already uses username.
func (r *Repo) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	var n int64
	err := r.conn.DB(ctx).Model(&postgres.UserRow{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("username lookup: %w", postgres.Wrap(db.OpCount, err))
	}
	return n > 0, nil
}
