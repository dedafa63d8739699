package postgres

import (
	"encoding/json"

	"github.com/kailas-cloud/gigmarket/internal/domain/gig"
	"github.com/kailas-cloud/gigmarket/internal/domain/order"
	"github.com/kailas-cloud/gigmarket/internal/domain/review"
	"github.com/kailas-cloud/gigmarket/internal/domain/user"
)

// Domain converts the row to a domain user.
func (r *UserRow) Domain() user.User {
	u := user.User{
		ID:             r.ID,
		Email:          r.Email,
		PasswordHash:   r.Password,
		FullName:       r.FullName,
		Description:    r.Description,
		ProfileImage:   r.ProfileImage,
		ProfileInfoSet: r.IsProfileInfoSet,
		EmailConfirmed: r.IsEmailConfirmed,
		CreatedAt:      r.CreatedAt,
	}
	if r.Username != nil {
		u.Username = *r.Username
	}
	return u
}

// Domain converts the row and any loaded associations to a domain gig.
func (r *GigRow) Domain() gig.Gig {
	g := gig.Gig{
		ID:      r.ID,
		OwnerID: r.UserID,
		Fields: gig.Fields{
			Title:           r.Title,
			Description:     r.Description,
			ShortDesc:       r.ShortDesc,
			Category:        r.Category,
			Features:        nonNil(r.Features),
			Price:           r.Price,
			Revisions:       r.Revisions,
			DeliveryTime:    r.DeliveryTime,
			TimeUnit:        r.TimeUnit,
			City:            r.City,
			State:           r.State,
			DownPayment:     r.DownPayment,
			QuotationReason: r.QuotationReason,
			Images:          nonNil(r.Images),
		},
		Visible:   r.Visibility,
		Deleted:   r.Deleted,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.QuotationDetails != nil {
		g.QuotationDetails = json.RawMessage(*r.QuotationDetails)
	}
	if r.CreatedBy != nil {
		owner := r.CreatedBy.Domain()
		g.Owner = &owner
	}
	if r.Reviews != nil {
		g.Reviews = make([]review.Review, len(r.Reviews))
		for i := range r.Reviews {
			g.Reviews[i] = r.Reviews[i].Domain()
		}
	}
	return g
}

// ApplyFields copies seller-editable attributes onto the row.
func (r *GigRow) ApplyFields(f gig.Fields) {
	r.Title = f.Title
	r.Description = f.Description
	r.ShortDesc = f.ShortDesc
	r.Category = f.Category
	r.Features = nonNil(f.Features)
	r.Price = f.Price
	r.Revisions = f.Revisions
	r.DeliveryTime = f.DeliveryTime
	r.TimeUnit = f.TimeUnit
	r.City = f.City
	r.State = f.State
	r.DownPayment = f.DownPayment
	r.QuotationReason = f.QuotationReason
	r.Images = nonNil(f.Images)
	r.QuotationDetails = nil
	if len(f.QuotationDetails) > 0 {
		s := string(f.QuotationDetails)
		r.QuotationDetails = &s
	}
}

// Domain converts the row to a domain review.
func (r *ReviewRow) Domain() review.Review {
	rv := review.Review{
		ID:         r.ID,
		GigID:      r.GigID,
		ReviewerID: r.ReviewerID,
		Rating:     r.Rating,
		Text:       r.ReviewText,
		CreatedAt:  r.CreatedAt,
	}
	if r.Reviewer != nil {
		u := r.Reviewer.Domain()
		rv.Reviewer = &u
	}
	return rv
}

// Domain converts the row to a domain order.
func (r *OrderRow) Domain() order.Order {
	o := order.Order{
		ID:              r.ID,
		GigID:           r.GigID,
		BuyerID:         r.BuyerID,
		Completed:       r.IsCompleted,
		MutualCompleted: r.MutualCompleted,
		CreatedAt:       r.CreatedAt,
	}
	for _, rr := range r.RefundRequests {
		o.Refunds = append(o.Refunds, order.Refund{ID: rr.ID, Status: rr.Status})
	}
	return o
}

// GigsDomain converts a slice of rows.
func GigsDomain(rows []GigRow) []gig.Gig {
	out := make([]gig.Gig, len(rows))
	for i := range rows {
		out[i] = rows[i].Domain()
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
