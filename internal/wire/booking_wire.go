package wire

import (
	"venue-bot/internal/adaptor"
	"venue-bot/pkg/middleware"
	"venue-bot/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	if config.Admin.TokenHash == "" {
		log.Warn("ADMIN_TOKEN_HASH is empty, operator API disabled")
		return
	}

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AdminToken(config.Admin.TokenHash, log))

		// GET /api/admin/bookings - Pending bookings, paginated
		r.Get("/bookings", bookingHandler.ListPending)

		// GET /api/admin/bookings/{id} - Booking details
		r.Get("/bookings/{id}", bookingHandler.GetBookingByID)

		// PUT /api/admin/bookings/{id}/cancel - Cancel a booking and tell the staff
		r.Put("/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// POST /api/admin/notify/test - Diagnostic broadcast
		r.Post("/notify/test", bookingHandler.TestNotify)
	})
}
