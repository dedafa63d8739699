package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// APIPrefix is the mount point of the marketplace API.
const APIPrefix = "/api/v1"

// Mount registers the API and operational routes on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/usage", s.GetUsage)

	r.Route(APIPrefix, func(r chi.Router) {
		requireUser := RequireUser(s.tokens)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.SignUp)
			r.Post("/login", s.Login)
			r.With(requireUser).Get("/me", s.Me)
			r.With(requireUser).Put("/profile", s.UpdateProfile)
		})

		r.Post("/search/recommendations", s.Recommend)

		r.Route("/assistant", func(r chi.Router) {
			r.Post("/converse", s.Converse)
			r.With(requireUser).Post("/gig-description", s.DescribeGig)
		})

		r.Route("/gigs", func(r chi.Router) {
			r.With(OptionalUser(s.tokens)).Get("/", s.BrowseGigs)
			r.Get("/search", s.SearchGigs)
			r.Get("/random", s.RandomGigs)
			r.Get("/recent", s.RecentGigs)
			r.With(requireUser).Get("/mine", s.MyGigs)
			r.With(requireUser).Post("/", s.CreateGig)

			r.Route("/{gigId}", func(r chi.Router) {
				r.Get("/", s.GetGig)
				r.Get("/reviews", s.ListReviews)

				r.Group(func(r chi.Router) {
					r.Use(requireUser)
					r.Put("/", s.UpdateGig)
					r.Delete("/", s.DeleteGig)
					r.Patch("/visibility", s.SetGigVisibility)
					r.Post("/reviews", s.AddReview)
					r.Get("/order-status", s.OrderStatus)
				})
			})
		})

		r.Get("/users/{userId}/gigs", s.UserGigs)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}
