package chi

import (
	"fmt"
	"net/http"
	"strconv"
)

// gigID binds the {gigId} path parameter, writing a 400 on failure.
func gigID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := idParam(r, "gigId")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

// CreateGig handles POST /gigs.
func (s *Server) CreateGig(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req GigRequest
	if !s.decode(w, r, &req) {
		return
	}

	g, err := s.gigs.Create(r.Context(), userID, req.fields())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/gigs/%d", g.ID))
	writeJSON(w, http.StatusCreated, gigOf(g))
}

// UpdateGig handles PUT /gigs/{gigId}.
func (s *Server) UpdateGig(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUser(w, r)
	if !ok {
		return
	}
	id, ok := gigID(w, r)
	if !ok {
		return
	}
	var req GigRequest
	if !s.decode(w, r, &req) {
		return
	}

	g, err := s.gigs.Update(r.Context(), userID, id, req.fields())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, gigOf(g))
}

// GetGig handles GET /gigs/{gigId}.
func (s *Server) GetGig(w http.ResponseWriter, r *http.Request) {
	id, ok := gigID(w, r)
	if !ok {
		return
	}

	d, err := s.gigs.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GigDetailResponse{
		Gig:          gigOf(d.Gig),
		Reviews:      reviewsOf(d.Reviews),
		Rating:       ratingOf(d.GigRating),
		SellerRating: ratingOf(d.SellerRating),
	})
}

// DeleteGig handles DELETE /gigs/{gigId}.
func (s *Server) DeleteGig(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUser(w, r)
	if !ok {
		return
	}
	id, ok := gigID(w, r)
	if !ok {
		return
	}

	if err := s.gigs.Delete(r.Context(), userID, id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetGigVisibility handles PATCH /gigs/{gigId}/visibility.
func (s *Server) SetGigVisibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUser(w, r)
	if !ok {
		return
	}
	id, ok := gigID(w, r)
	if !ok {
		return
	}
	var req VisibilityRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.gigs.SetVisibility(r.Context(), userID, id, *req.Visibility); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"visibility": *req.Visibility})
}

// ListReviews handles GET /gigs/{gigId}/reviews.
func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := gigID(w, r)
	if !ok {
		return
	}
	params, err := bindPageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	page := 1
	if params.Page != nil {
		page = *params.Page
	}

	reviews, err := s.gigs.Reviews(r.Context(), id, page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reviewsOf(reviews))
}

// AddReview handles POST /gigs/{gigId}/reviews.
func (s *Server) AddReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUser(w, r)
	if !ok {
		return
	}
	id, ok := gigID(w, r)
	if !ok {
		return
	}
	var req ReviewRequest
	if !s.decode(w, r, &req) {
		return
	}

	rv, err := s.gigs.AddReview(r.Context(), userID, id, req.Rating, req.ReviewText)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, reviewOf(rv))
}

// OrderStatus handles GET /gigs/{gigId}/order-status.
func (s *Server) OrderStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUser(w, r)
	if !ok {
		return
	}
	id, ok := gigID(w, r)
	if !ok {
		return
	}

	ordered, err := s.gigs.HasOrdered(r.Context(), userID, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, OrderStatusResponse{HasOrdered: ordered})
}

// SearchGigs handles GET /gigs/search.
func (s *Server) SearchGigs(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	page, err := s.gigs.Search(r.Context(), params.criteria())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageOf(page))
}

// BrowseGigs handles GET /gigs. Signed-in callers do not see their own gigs.
func (s *Server) BrowseGigs(w http.ResponseWriter, r *http.Request) {
	params, err := bindPageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	viewerID, _ := UserIDFromContext(r.Context())

	page, err := s.gigs.Browse(r.Context(), viewerID, deref(params.Page), deref(params.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageOf(page))
}

// RandomGigs handles GET /gigs/random.
func (s *Server) RandomGigs(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := bindQuery(r, "limit", &limit); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	gigs, total, err := s.gigs.Random(r.Context(), deref(limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	writeJSON(w, http.StatusOK, RandomGigsResponse{Gigs: gigsOf(gigs), Total: total})
}

// RecentGigs handles GET /gigs/recent.
func (s *Server) RecentGigs(w http.ResponseWriter, r *http.Request) {
	recent, err := s.gigs.Recent(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	buckets := make(map[string][]Gig, len(recent.Buckets))
	for b, gs := range recent.Buckets {
		buckets[string(b)] = gigsOf(gs)
	}
	writeJSON(w, http.StatusOK, RecentGigsResponse{Gigs: gigsOf(recent.All), Buckets: buckets})
}

// MyGigs handles GET /gigs/mine.
func (s *Server) MyGigs(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUser(w, r)
	if !ok {
		return
	}

	sl, err := s.gigs.Mine(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MyGigsResponse{User: accountOf(sl.User), Gigs: gigsOf(sl.Gigs)})
}

// UserGigs handles GET /users/{userId}/gigs.
func (s *Server) UserGigs(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	sl, err := s.gigs.PublicProfile(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SellerResponse{User: publicUserOf(sl.User), Gigs: gigsOf(sl.Gigs)})
}

