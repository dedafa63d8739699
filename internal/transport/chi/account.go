package chi

import (
	"net/http"

	accountuc "github.com/kailas-cloud/gigmarket/internal/usecase/account"
)

func sessionOf(s accountuc.Session) SessionResponse {
	return SessionResponse{User: accountOf(s.User), Token: s.Token}
}

// SignUp handles POST /auth/signup.
func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !s.decode(w, r, &req) {
		return
	}

	sess, err := s.accounts.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionOf(sess))
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !s.decode(w, r, &req) {
		return
	}

	sess, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionOf(sess))
}

// Me handles GET /auth/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUser(w, r)
	if !ok {
		return
	}

	u, err := s.accounts.Me(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, accountOf(u))
}

// UpdateProfile handles PUT /auth/profile.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := mustUser(w, r)
	if !ok {
		return
	}
	var req ProfileRequest
	if !s.decode(w, r, &req) {
		return
	}

	u, err := s.accounts.UpdateProfile(r.Context(), userID, req.Username, req.FullName, req.Description, req.ProfileImage)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, accountOf(u))
}
