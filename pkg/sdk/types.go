package gigmarket

import "time"

// User is the public part of a marketplace account.
type User struct {
	ID           uint
	Username     string
	FullName     string
	Description  string
	ProfileImage string
}

// Gig is a visible listing.
type Gig struct {
	ID           uint
	OwnerID      uint
	Title        string
	Description  string
	ShortDesc    string
	Category     string
	Features     []string
	Price        int64
	Revisions    int
	DeliveryTime int
	TimeUnit     string
	City         string
	State        string
	Images       []string
	CreatedAt    time.Time
	Owner        *User
}

// Seller is a freelancer with their visible gigs.
type Seller struct {
	User
	Gigs []Gig
}

// Review is a buyer's rating of a gig.
type Review struct {
	ID        uint
	Rating    int
	Text      string
	CreatedAt time.Time
	Reviewer  *User
}

// Rating summarizes reviews. Average is rounded to one decimal.
type Rating struct {
	Count   int64
	Average float64
}

// GigDetail is a gig with its latest reviews and rating summaries.
type GigDetail struct {
	Gig
	Reviews      []Review
	Rating       Rating
	SellerRating Rating
}

// GigPage is one page of search results.
type GigPage struct {
	Gigs       []Gig
	Total      int64
	Page       int
	TotalPages int
}

// SearchQuery filters the public gig search. Zero values are ignored.
type SearchQuery struct {
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

// RecentGigs is the landing feed: gigs from the last 30 days, also grouped
// by bucket ("software", "professional", "creative", "artisan").
type RecentGigs struct {
	All     []Gig
	Buckets map[string][]Gig
}

// Recommendation holds the extracted keywords and both match lists.
type Recommendation struct {
	Keywords []string
	Gigs     []Gig
	Sellers  []Seller
}
