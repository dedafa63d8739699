package chi

import (
	"net/http"

	"github.com/kailas-cloud/gigmarket/internal/domain"
	"github.com/kailas-cloud/gigmarket/internal/domain/gig"
)

// Recommend handles POST /search/recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.recommend.Recommend(ctx, req.Prompt)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setAssistantHeaders(w, usage)
	writeJSON(w, http.StatusOK, RecommendationResponse{
		Keywords: nonNil(res.Keywords),
		Gigs:     gigsOf(res.Gigs),
		Users:    recommendedUsersOf(res.Sellers),
	})
}

func recommendedUsersOf(sellers []gig.Seller) []RecommendedUser {
	out := make([]RecommendedUser, len(sellers))
	for i, sl := range sellers {
		out[i] = RecommendedUser{PublicUser: publicUserOf(sl.User), Gigs: gigsOf(sl.Gigs)}
	}
	return out
}

// Converse handles POST /assistant/converse.
func (s *Server) Converse(w http.ResponseWriter, r *http.Request) {
	var req ConverseRequest
	if !s.decode(w, r, &req) {
		return
	}

	conv := make([]domain.Message, len(req.Conversation))
	for i, m := range req.Conversation {
		conv[i] = domain.Message{Role: domain.Role(m.Role), Content: m.Content}
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	reply, err := s.assistant.Converse(ctx, conv)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setAssistantHeaders(w, usage)
	writeJSON(w, http.StatusOK, ReplyResponse{Reply: reply})
}

// DescribeGig handles POST /assistant/gig-description.
func (s *Server) DescribeGig(w http.ResponseWriter, r *http.Request) {
	if _, ok := mustUser(w, r); !ok {
		return
	}
	var req DescribeRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	text, err := s.assistant.DescribeGig(ctx, req.Prompt)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setAssistantHeaders(w, usage)
	writeJSON(w, http.StatusOK, ReplyResponse{Reply: text})
}
