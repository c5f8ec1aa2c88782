package routers

import (
	"net/http"

	"coopfarm/internal/api/handlers/bookings"
)

func bookingsRouter(mux *http.ServeMux) {
	mux.HandleFunc("/api/bookings", bookings.BookingsHandler)
	mux.HandleFunc("/api/bookings/stats", bookings.BookingStatsHandler)
	mux.HandleFunc("/api/bookings/member/{memberId}", bookings.MemberBookingsHandler)
	mux.HandleFunc("/api/bookings/{id}", bookings.BookingHandler)
	mux.HandleFunc("/api/bookings/{id}/confirm", bookings.ConfirmBookingHandler)
}
