package model

// SeatID identifies a cabin seat as the row number followed by the column
// label, e.g. "12C".  It is the form stored in the selected-seats key and
// in reservation records.
type SeatID string

// SeatStatus is the derived state of a seat for one browsing session.
//
// Values:
//  available – free to select.
//  selected  – chosen by the current session, not yet booked.
//  reserved  – taken on the flight; never selectable.
type SeatStatus string

const (
    SeatAvailable SeatStatus = "available"
    SeatSelected  SeatStatus = "selected"
    SeatReserved  SeatStatus = "reserved"
)

// Seat is a computed view over the reserved and selected sets.  Seats have
// no lifecycle of their own.
//
// Fields:
//  ID     – composite identifier, e.g. "3D".
//  Row    – 1-based row number.
//  Column – column label from the cabin layout.
//  Status – derived status.
type Seat struct {
    ID     SeatID     `json:"id"`
    Row    int        `json:"row"`
    Column string     `json:"column"`
    Status SeatStatus `json:"status"`
}
