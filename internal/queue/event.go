// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "time"

    "github.com/iliyamo/skyvoyage-seatmap/internal/model"
)

// BookingQueueName is the durable queue carrying confirmed bookings.
const BookingQueueName = "booking.confirmed"

// BookingConfirmedEvent is published when a booking has been saved and
// persisted.  It carries enough of the record for downstream consumers to
// log or notify without reading the session's storage.
type BookingConfirmedEvent struct {
    BookingID string   `json:"booking_id"`
    SessionID string   `json:"session_id"`
    Airline   string   `json:"airline,omitempty"`
    FlightNo  string   `json:"flight_no"`
    From      string   `json:"from,omitempty"`
    To        string   `json:"to,omitempty"`
    Seats     []string `json:"seats"`
    CreatedAt string   `json:"created_at"`
}

// NewBookingConfirmedEvent builds the event for a saved reservation.
func NewBookingConfirmedEvent(sessionID string, r model.Reservation) BookingConfirmedEvent {
    seats := make([]string, len(r.Seats))
    for i, s := range r.Seats {
        seats[i] = string(s)
    }
    return BookingConfirmedEvent{
        BookingID: r.ID,
        SessionID: sessionID,
        Airline:   r.Flight.Airline,
        FlightNo:  r.Flight.Flight,
        From:      r.Flight.From,
        To:        r.Flight.To,
        Seats:     seats,
        CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
    }
}
