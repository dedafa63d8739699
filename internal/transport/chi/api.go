package chi

import (
	"encoding/json"
	"time"

	domgig "github.com/kailas-cloud/gigmarket/internal/domain/gig"
	"github.com/kailas-cloud/gigmarket/internal/domain/review"
	"github.com/kailas-cloud/gigmarket/internal/domain/user"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest             ErrorCode = "bad_request"
	CodeValidationFailed       ErrorCode = "validation_failed"
	CodeUnauthorized           ErrorCode = "unauthorized"
	CodeInvalidCredentials     ErrorCode = "invalid_credentials"
	CodeTokenExpired           ErrorCode = "token_expired"
	CodeTokenInvalid           ErrorCode = "token_invalid"
	CodeForbidden              ErrorCode = "forbidden"
	CodeProfileIncomplete      ErrorCode = "profile_incomplete"
	CodeEmailNotConfirmed      ErrorCode = "email_not_confirmed"
	CodeGigLimitReached        ErrorCode = "gig_limit_reached"
	CodeReviewNotAllowed       ErrorCode = "review_not_allowed"
	CodeOutstandingOrders      ErrorCode = "outstanding_orders"
	CodeNotFound               ErrorCode = "not_found"
	CodeGigNotFound            ErrorCode = "gig_not_found"
	CodeUserNotFound           ErrorCode = "user_not_found"
	CodeAlreadyExists          ErrorCode = "already_exists"
	CodeAssistantQuotaExceeded ErrorCode = "assistant_quota_exceeded"
	CodeAssistantProviderError ErrorCode = "assistant_provider_error"
	CodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// --- Requests ---

// CredentialsRequest is the sign-up and login body.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileRequest is the profile update body.
type ProfileRequest struct {
	Username     string `json:"username" validate:"required"`
	FullName     string `json:"fullName" validate:"required"`
	Description  string `json:"description"`
	ProfileImage string `json:"profileImage" validate:"omitempty,max=2048"`
}

// RecommendationRequest is the natural-language search body.
type RecommendationRequest struct {
	Prompt string `json:"prompt"`
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content"`
}

// ConverseRequest is the assistant conversation body.
type ConverseRequest struct {
	Conversation []ChatMessage `json:"conversation" validate:"required,min=1,dive"`
}

// DescribeRequest is the gig description drafting body.
type DescribeRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// GigRequest is the create and update gig body.
type GigRequest struct {
	Title            string          `json:"title" validate:"required"`
	Description      string          `json:"description" validate:"required"`
	ShortDesc        string          `json:"shortDesc"`
	Category         string          `json:"category" validate:"required"`
	Features         []string        `json:"features" validate:"omitempty,dive,max=100"`
	Price            int64           `json:"price" validate:"gte=0"`
	Revisions        int             `json:"revisions" validate:"gte=0"`
	Time             int             `json:"time" validate:"gte=0"`
	TimeUnit         string          `json:"timeUnit" validate:"required"`
	City             string          `json:"city"`
	State            string          `json:"state"`
	DownPayment      bool            `json:"downPayment"`
	QuotationReason  string          `json:"quotationReason"`
	QuotationDetails json.RawMessage `json:"quotationDetails"`
	Images           []string        `json:"images" validate:"omitempty,dive,max=2048"`
}

func (r GigRequest) fields() domgig.Fields {
	return domgig.Fields{
		Title:            r.Title,
		Description:      r.Description,
		ShortDesc:        r.ShortDesc,
		Category:         r.Category,
		Features:         r.Features,
		Price:            r.Price,
		Revisions:        r.Revisions,
		DeliveryTime:     r.Time,
		TimeUnit:         r.TimeUnit,
		City:             r.City,
		State:            r.State,
		DownPayment:      r.DownPayment,
		QuotationReason:  r.QuotationReason,
		QuotationDetails: r.QuotationDetails,
		Images:           r.Images,
	}
}

// VisibilityRequest toggles gig visibility.
type VisibilityRequest struct {
	Visibility *bool `json:"visibility" validate:"required"`
}

// ReviewRequest is the add review body.
type ReviewRequest struct {
	Rating     int    `json:"rating" validate:"required"`
	ReviewText string `json:"reviewText" validate:"required"`
}

// --- Responses ---

// PublicUser is the part of an account anyone may see.
type PublicUser struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	Description  string `json:"description"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Account is the caller's own account.
type Account struct {
	PublicUser
	Email            string    `json:"email"`
	IsProfileInfoSet bool      `json:"isProfileInfoSet"`
	IsEmailConfirmed bool      `json:"isEmailConfirmed"`
	CreatedAt        time.Time `json:"createdAt"`
}

// SessionResponse is returned by sign-up and login.
type SessionResponse struct {
	User  Account `json:"user"`
	Token string  `json:"token"`
}

// Review is a gig review.
type Review struct {
	ID         uint        `json:"id"`
	Rating     int         `json:"rating"`
	ReviewText string      `json:"reviewText"`
	CreatedAt  time.Time   `json:"createdAt"`
	Reviewer   *PublicUser `json:"reviewer,omitempty"`
}

// Gig is a listing.
type Gig struct {
	ID               uint            `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	ShortDesc        string          `json:"shortDesc"`
	Category         string          `json:"category"`
	Features         []string        `json:"features"`
	Price            int64           `json:"price"`
	Revisions        int             `json:"revisions"`
	Time             int             `json:"time"`
	TimeUnit         string          `json:"timeUnit"`
	City             string          `json:"city"`
	State            string          `json:"state"`
	DownPayment      bool            `json:"downPayment"`
	QuotationReason  string          `json:"quotationReason,omitempty"`
	QuotationDetails json.RawMessage `json:"quotationDetails,omitempty"`
	Images           []string        `json:"images"`
	Visibility       bool            `json:"visibility"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	UserID           uint            `json:"userId"`
	CreatedBy        *PublicUser     `json:"createdBy,omitempty"`
	Reviews          []Review        `json:"reviews,omitempty"`
}

// Rating summarises reviews.
type Rating struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

// GigDetailResponse is a gig page.
type GigDetailResponse struct {
	Gig
	Reviews      []Review `json:"reviews"`
	Rating       Rating   `json:"rating"`
	SellerRating Rating   `json:"sellerRating"`
}

// GigPageResponse is one page of gigs.
type GigPageResponse struct {
	Gigs       []Gig `json:"gigs"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
}

// RandomGigsResponse is a random sample of gigs.
type RandomGigsResponse struct {
	Gigs  []Gig `json:"gigs"`
	Total int64 `json:"total"`
}

// RecentGigsResponse is the landing page feed.
type RecentGigsResponse struct {
	Gigs    []Gig            `json:"gigs"`
	Buckets map[string][]Gig `json:"buckets"`
}

// SellerResponse is a user with their gigs.
type SellerResponse struct {
	User PublicUser `json:"user"`
	Gigs []Gig      `json:"gigs"`
}

// MyGigsResponse is the caller's dashboard.
type MyGigsResponse struct {
	User Account `json:"user"`
	Gigs []Gig   `json:"gigs"`
}

// RecommendedUser is a freelancer match with their visible gigs.
type RecommendedUser struct {
	PublicUser
	Gigs []Gig `json:"gigs"`
}

// RecommendationResponse is the natural-language search result.
type RecommendationResponse struct {
	Keywords []string          `json:"keywords"`
	Gigs     []Gig             `json:"gigs"`
	Users    []RecommendedUser `json:"users"`
}

// ReplyResponse carries a generated text.
type ReplyResponse struct {
	Reply string `json:"reply"`
}

// OrderStatusResponse tells whether the caller completed an order for a gig.
type OrderStatusResponse struct {
	HasOrdered bool `json:"hasOrdered"`
}

// UsageResponse is the assistant usage report.
type UsageResponse struct {
	Period           string     `json:"period"`
	Provider         string     `json:"provider,omitempty"`
	PeriodStartAt    *time.Time `json:"period_start_at,omitempty"`
	PeriodEndAt      *time.Time `json:"period_end_at,omitempty"`
	Requests         int64      `json:"requests"`
	Tokens           int64      `json:"tokens"`
	CostMillidollars *int64     `json:"cost_millidollars,omitempty"`
	Budget           Budget     `json:"budget"`
}

// Budget is the token budget status.
type Budget struct {
	TokensLimit     int64      `json:"tokens_limit"`
	TokensRemaining int64      `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

// HealthResponse is the health check reply.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// --- Converters ---

func publicUserOf(u user.User) PublicUser {
	return PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Description:  u.Description,
		ProfileImage: u.ProfileImage,
	}
}

func accountOf(u user.User) Account {
	return Account{
		PublicUser:       publicUserOf(u),
		Email:            u.Email,
		IsProfileInfoSet: u.ProfileInfoSet,
		IsEmailConfirmed: u.EmailConfirmed,
		CreatedAt:        u.CreatedAt,
	}
}

func reviewOf(r review.Review) Review {
	out := Review{ID: r.ID, Rating: r.Rating, ReviewText: r.Text, CreatedAt: r.CreatedAt}
	if r.Reviewer != nil {
		u := publicUserOf(*r.Reviewer)
		out.Reviewer = &u
	}
	return out
}

func reviewsOf(rs []review.Review) []Review {
	out := make([]Review, len(rs))
	for i, r := range rs {
		out[i] = reviewOf(r)
	}
	return out
}

func gigOf(g domgig.Gig) Gig {
	out := Gig{
		ID:               g.ID,
		Title:            g.Title,
		Description:      g.Description,
		ShortDesc:        g.ShortDesc,
		Category:         g.Category,
		Features:         nonNil(g.Features),
		Price:            g.Price,
		Revisions:        g.Revisions,
		Time:             g.DeliveryTime,
		TimeUnit:         g.TimeUnit,
		City:             g.City,
		State:            g.State,
		DownPayment:      g.DownPayment,
		QuotationReason:  g.QuotationReason,
		QuotationDetails: g.QuotationDetails,
		Images:           nonNil(g.Images),
		Visibility:       g.Visible,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
		UserID:           g.OwnerID,
	}
	if g.Owner != nil {
		u := publicUserOf(*g.Owner)
		out.CreatedBy = &u
	}
	if len(g.Reviews) > 0 {
		out.Reviews = reviewsOf(g.Reviews)
	}
	return out
}

func gigsOf(gs []domgig.Gig) []Gig {
	out := make([]Gig, len(gs))
	for i, g := range gs {
		out[i] = gigOf(g)
	}
	return out
}

func pageOf(p domgig.Page) GigPageResponse {
	return GigPageResponse{Gigs: gigsOf(p.Gigs), Total: p.Total, Page: p.Page, TotalPages: p.TotalPages()}
}

func ratingOf(s review.Summary) Rating {
	return Rating{Count: s.Count, Average: s.Average}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
