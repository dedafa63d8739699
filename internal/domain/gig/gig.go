// Package gig holds service listings offered by sellers.
package gig

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/gigmarket/internal/domain"
	"github.com/kailas-cloud/gigmarket/internal/domain/review"
	"github.com/kailas-cloud/gigmarket/internal/domain/user"
)

// Limits on gig content.
const (
	MaxTitleLength       = 120
	MaxShortDescLength   = 300
	MaxDescriptionLength = 10000
	MaxFeatures          = 20
	MaxImages            = 10
)

// Fields are the seller-editable attributes of a gig.
type Fields struct {
	Title            string
	Description      string
	ShortDesc        string
	Category         string
	Features         []string
	Price            int64
	Revisions        int
	DeliveryTime     int
	TimeUnit         string
	City             string
	State            string
	DownPayment      bool
	QuotationReason  string
	QuotationDetails json.RawMessage
	Images           []string
}

// Gig is a listing. It is search-visible iff Visible and not Deleted.
type Gig struct {
	ID      uint
	OwnerID uint
	Fields
	Visible   bool
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Owner     *user.User
	Reviews   []review.Review
}

// Searchable reports whether the gig may appear in public listings.
func (g Gig) Searchable() bool { return g.Visible && !g.Deleted }

// Draft is a validated set of Fields ready to be stored.
type Draft struct {
	fields Fields
}

// NewDraft trims and validates gig input.
// Title, description, category and time unit are required; price, revisions
// and delivery time must not be negative. Features are trimmed and de-duplicated.
func NewDraft(f Fields) (Draft, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.ShortDesc = strings.TrimSpace(f.ShortDesc)
	f.Category = strings.TrimSpace(f.Category)
	f.TimeUnit = strings.TrimSpace(f.TimeUnit)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.QuotationReason = strings.TrimSpace(f.QuotationReason)

	switch {
	case f.Title == "":
		return Draft{}, domain.NewValidation("title is required")
	case utf8.RuneCountInString(f.Title) > MaxTitleLength:
		return Draft{}, domain.NewValidationf("title too long (max %d)", MaxTitleLength)
	case f.Description == "":
		return Draft{}, domain.NewValidation("description is required")
	case utf8.RuneCountInString(f.Description) > MaxDescriptionLength:
		return Draft{}, domain.NewValidationf("description too long (max %d)", MaxDescriptionLength)
	case utf8.RuneCountInString(f.ShortDesc) > MaxShortDescLength:
		return Draft{}, domain.NewValidationf("short description too long (max %d)", MaxShortDescLength)
	case f.Category == "":
		return Draft{}, domain.NewValidation("category is required")
	case f.Price < 0:
		return Draft{}, domain.NewValidation("price must not be negative")
	case f.Revisions < 0:
		return Draft{}, domain.NewValidation("revisions must not be negative")
	case f.DeliveryTime < 0:
		return Draft{}, domain.NewValidation("delivery time must not be negative")
	case f.TimeUnit == "":
		return Draft{}, domain.NewValidation("time unit is required")
	case len(f.Images) > MaxImages:
		return Draft{}, domain.NewValidationf("too many images (max %d)", MaxImages)
	}
	if len(f.QuotationDetails) > 0 && !json.Valid(f.QuotationDetails) {
		return Draft{}, domain.NewValidation("quotation details must be valid JSON")
	}

	f.Features = normalizeFeatures(f.Features)
	if len(f.Features) > MaxFeatures {
		return Draft{}, domain.NewValidationf("too many features (max %d)", MaxFeatures)
	}
	return Draft{fields: f}, nil
}

// Fields returns a copy of the validated attributes.
func (d Draft) Fields() Fields {
	f := d.fields
	f.Features = append([]string(nil), d.fields.Features...)
	f.Images = append([]string(nil), d.fields.Images...)
	return f
}

// Title returns the validated title.
func (d Draft) Title() string { return d.fields.Title }

func normalizeFeatures(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, f := range in {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
