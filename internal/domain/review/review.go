// Package review holds buyer reviews of gigs and their rating summaries.
package review

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/gigmarket/internal/domain"
	"github.com/kailas-cloud/gigmarket/internal/domain/user"
)

// MaxTextLength is the maximum review text length in characters.
const MaxTextLength = 2000

// Review is a rating left by a buyer on a gig.
type Review struct {
	ID         uint
	GigID      uint
	ReviewerID uint
	Rating     int
	Text       string
	CreatedAt  time.Time
	Reviewer   *user.User
}

// Input is a validated review submission.
type Input struct {
	rating int
	text   string
}

// NewInput validates a review. Rating: 1-5. Text: required, max MaxTextLength.
func NewInput(rating int, text string) (Input, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Input{}, domain.NewValidation("review text is required")
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return Input{}, domain.NewValidationf("review text too long (max %d)", MaxTextLength)
	}
	if rating < 1 || rating > 5 {
		return Input{}, domain.NewValidation("rating must be between 1 and 5")
	}
	return Input{rating: rating, text: text}, nil
}

// Rating returns the star rating.
func (i Input) Rating() int { return i.rating }

// Text returns the review body.
func (i Input) Text() string { return i.text }

// Summary aggregates ratings.
type Summary struct {
	Count   int64
	Average float64
}

// NewSummary computes the average of count ratings adding up to sum, rounded to one decimal.
func NewSummary(count, sum int64) Summary {
	if count <= 0 {
		return Summary{}
	}
	avg := float64(sum) / float64(count)
	return Summary{Count: count, Average: math.Round(avg*10) / 10}
}
