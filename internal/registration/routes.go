package registration

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the registration endpoints on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/activate", h.Activate)
	r.Post("/resend", h.Resend)
}
