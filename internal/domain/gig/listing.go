package gig

import (
	"time"

	"github.com/kailas-cloud/gigmarket/internal/domain/review"
	"github.com/kailas-cloud/gigmarket/internal/domain/user"
)

// Page is one page of gigs.
type Page struct {
	Gigs  []Gig
	Total int64
	Page  int
	Limit int
}

// TotalPages returns the number of pages of size Limit covering Total.
func (p Page) TotalPages() int {
	if p.Limit <= 0 || p.Total <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}

// Offset returns the row offset for a 1-based page.
func Offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}

// Criteria filters the public gig search. Zero values are ignored.
type Criteria struct {
	Term      string
	Category  string
	MinBudget *int64
	MaxBudget *int64
	MinTime   *int
	MaxTime   *int
	City      string
	State     string
	From      *time.Time
	Page      int
	Limit     int
}

// Detail is a gig with its latest reviews and rating summaries.
type Detail struct {
	Gig          Gig
	Reviews      []review.Review
	GigRating    review.Summary
	SellerRating review.Summary
}

// Seller is a user together with their listings.
type Seller struct {
	User user.User
	Gigs []Gig
}
