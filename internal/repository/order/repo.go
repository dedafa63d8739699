// Package order reads orders placed on gigs.
package order

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kailas-cloud/gigmarket/internal/db"
	"github.com/kailas-cloud/gigmarket/internal/db/postgres"
	domorder "github.com/kailas-cloud/gigmarket/internal/domain/order"
)

type conn interface {
	DB(ctx context.Context) *gorm.DB
}

// Repo implements the order reader of usecase/gig. Orders are read-only here.
type Repo struct {
	conn conn
}

// New creates an order repository.
func New(c conn) *Repo {
	return &Repo{conn: c}
}

// ListByGig returns every order on a gig with its refund requests.
func (r *Repo) ListByGig(ctx context.Context, gigID uint) ([]domorder.Order, error) {
	var rows []postgres.OrderRow
	err := r.conn.DB(ctx).
		Where("gig_id = ?", gigID).
		Preload("RefundRequests").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("orders of gig %d: %w", gigID, postgres.Wrap(db.OpSelect, err))
	}

	out := make([]domorder.Order, len(rows))
	for i := range rows {
		out[i] = rows[i].Domain()
	}
	return out, nil
}

// HasCompleted reports whether buyerID has a completed order on gigID.
func (r *Repo) HasCompleted(ctx context.Context, buyerID, gigID uint) (bool, error) {
	var n int64
	err := r.conn.DB(ctx).Model(&postgres.OrderRow{}).
		Where("buyer_id = ? AND gig_id = ? AND is_completed = ?", buyerID, gigID, true).
		Limit(1).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("completed order lookup: %w", postgres.Wrap(db.OpCount, err))
	}
	return n > 0, nil
}
