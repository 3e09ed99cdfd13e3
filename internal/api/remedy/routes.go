package remedy

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers remedy session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/catalog", h.GetCatalog)
	r.Get("/saved-recipes", h.ListSavedRecipes)
	r.Get("/saved-recipes/{id}", h.GetSavedRecipe)
	r.Delete("/saved-recipes/{id}", h.DeleteSavedRecipe)

	r.Route("/remedy-session", func(r chi.Router) {
		r.Post("/", h.CreateSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.DeleteSession)
			r.Post("/preferences", h.UpdatePreferences)
			r.Post("/submit", h.Submit)
			r.Post("/regenerate", h.Regenerate)
			r.Post("/back", h.Back)
			r.Delete("/error", h.DismissError)

			r.Post("/preparation", h.StartPreparation)
			r.Get("/preparation", h.GetPreparation)
			r.Post("/preparation/done", h.ConfirmStep)
			r.Post("/preparation/exit", h.RequestExit)
			r.Post("/preparation/exit/confirm", h.ConfirmExit)
			r.Post("/preparation/exit/cancel", h.CancelExit)
			r.Post("/complete", h.Complete)

			r.Get("/recipe/export", h.ExportRecipe)
			r.Post("/recipe/save", h.SaveRecipe)
		})
	})
}
