package chi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	domgig "github.com/kailas-cloud/gigmarket/internal/domain/gig"
)

// SearchParams are the query parameters of GET /gigs/search.
type SearchParams struct {
	SearchTerm *string    `json:"searchTerm,omitempty"`
	Category   *string    `json:"category,omitempty"`
	MinBudget  *int64     `json:"minBudget,omitempty"`
	MaxBudget  *int64     `json:"maxBudget,omitempty"`
	MinTime    *int       `json:"minTime,omitempty"`
	MaxTime    *int       `json:"maxTime,omitempty"`
	City       *string    `json:"city,omitempty"`
	State      *string    `json:"state,omitempty"`
	FromDate   *time.Time `json:"fromDate,omitempty"`
	Page       *int       `json:"page,omitempty"`
	Limit      *int       `json:"limit,omitempty"`
}

func (p SearchParams) criteria() domgig.Criteria {
	return domgig.Criteria{
		Term:      deref(p.SearchTerm),
		Category:  deref(p.Category),
		MinBudget: p.MinBudget,
		MaxBudget: p.MaxBudget,
		MinTime:   p.MinTime,
		MaxTime:   p.MaxTime,
		City:      deref(p.City),
		State:     deref(p.State),
		From:      p.FromDate,
		Page:      deref(p.Page),
		Limit:     deref(p.Limit),
	}
}

// PageParams are the paging query parameters.
type PageParams struct {
	Page  *int `json:"page,omitempty"`
	Limit *int `json:"limit,omitempty"`
}

// idParam binds a positive integer path parameter.
func idParam(r *http.Request, name string) (uint, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("parameter %s must be a positive integer", name)
	}
	return uint(id), nil
}

// bindQuery binds one optional query parameter into dest.
func bindQuery(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

func bindSearchParams(r *http.Request) (SearchParams, error) {
	var p SearchParams
	binds := []struct {
		name string
		dest any
	}{
		{"searchTerm", &p.SearchTerm},
		{"category", &p.Category},
		{"minBudget", &p.MinBudget},
		{"maxBudget", &p.MaxBudget},
		{"minTime", &p.MinTime},
		{"maxTime", &p.MaxTime},
		{"city", &p.City},
		{"state", &p.State},
		{"fromDate", &p.FromDate},
		{"page", &p.Page},
		{"limit", &p.Limit},
	}
	for _, b := range binds {
		if err := bindQuery(r, b.name, b.dest); err != nil {
			return SearchParams{}, err
		}
	}
	return p, nil
}

func bindPageParams(r *http.Request) (PageParams, error) {
	var p PageParams
	if err := bindQuery(r, "page", &p.Page); err != nil {
		return PageParams{}, err
	}
	if err := bindQuery(r, "limit", &p.Limit); err != nil {
		return PageParams{}, err
	}
	return p, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
