package repository

import (
    "context"
    "database/sql"
    "strings"
)

// ReservedSeatRepo reads seats already booked on a flight from the Booking
// table of the flight database.  These seats are shown as reserved and can
// never be selected.
type ReservedSeatRepo struct {
    db *sql.DB
}

// NewReservedSeatRepo returns a new ReservedSeatRepo bound to db.
func NewReservedSeatRepo(db *sql.DB) *ReservedSeatRepo { return &ReservedSeatRepo{db: db} }

// ListByFlight returns the distinct seat numbers booked on flightNo, in seat
// order.  Placeholder values such as "TBD" are returned as-is; callers
// filter them against the cabin grid.
func (r *ReservedSeatRepo) ListByFlight(ctx context.Context, flightNo string) ([]string, error) {
    const q = `SELECT DISTINCT seatNo FROM Booking WHERE fNo = ? AND seatNo IS NOT NULL ORDER BY seatNo`
    rows, err := r.db.QueryContext(ctx, q, flightNo)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var seats []string
    for rows.Next() {
        var s string
        if err := rows.Scan(&s); err != nil {
            return nil, err
        }
        if s = strings.TrimSpace(s); s != "" {
            seats = append(seats, strings.ToUpper(s))
        }
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return seats, nil
}
