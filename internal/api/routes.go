package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the card and course endpoints on r. generateLimit
// wraps the card generation endpoint only; pass nil to leave it unlimited.
func RegisterRoutes(
	r chi.Router,
	cards *CardHandler,
	courses *CourseHandler,
	generateLimit func(http.Handler) http.Handler,
) {
	r.Route("/courses/{courseID}", func(r chi.Router) {
		r.Post("/cards", cards.CreateCard)
		r.Get("/cards/due", cards.GetDueCards)
		r.Group(func(r chi.Router) {
			if generateLimit != nil {
				r.Use(generateLimit)
			}
			r.Post("/cards/generate", cards.GenerateCards)
		})

		r.Get("/analytics", courses.GetAnalytics)
		r.Get("/recommendations", courses.GetRecommendations)
		r.Post("/study-sessions", courses.RecordStudySession)
	})

	r.Route("/cards/{cardID}", func(r chi.Router) {
		r.Get("/", cards.GetCard)
		r.Get("/reviews", cards.ListReviews)
		r.Post("/reviews", cards.SubmitReview)
	})
}
