package model

import (
    "encoding/json"
    "time"
)

// Flight is the flight descriptor attached to a booking.  The seat core
// treats it as opaque and copies it verbatim into the record; the fields
// mirror the flight cards shown on the search results page.
//
// Fields:
//  Airline     – operating airline name.
//  Flight      – flight number, e.g. "SV203".
//  From, To    – route airport codes.
//  DepartTime  – local departure time as displayed.
//  ArrivalTime – local arrival time as displayed.
//  Duration    – block time as displayed.
//  Price       – fare in whole currency units.
//  Stops       – stop description ("Non-stop", "1 Stop (CDG)").
//  Aircraft    – equipment type.
//  Extra       – any other field the client sent, kept verbatim.
type Flight struct {
    Airline     string  `json:"airline,omitempty"`
    Flight      string  `json:"flight" validate:"required"`
    From        string  `json:"from,omitempty"`
    To          string  `json:"to,omitempty"`
    DepartTime  string  `json:"departTime,omitempty"`
    ArrivalTime string  `json:"arrivalTime,omitempty"`
    Duration    string  `json:"duration,omitempty"`
    Price       float64 `json:"price,omitempty" validate:"gte=0"`
    Stops       string  `json:"stops,omitempty"`
    Aircraft    string  `json:"aircraft,omitempty"`

    Extra map[string]json.RawMessage `json:"-"`
}

var flightFields = []string{
    "airline", "flight", "from", "to", "departTime",
    "arrivalTime", "duration", "price", "stops", "aircraft",
}

// flightJSON has Flight's fields without its methods.
type flightJSON Flight

// UnmarshalJSON decodes the typed fields and keeps the rest in Extra.
func (f *Flight) UnmarshalJSON(b []byte) error {
    var typed flightJSON
    if err := json.Unmarshal(b, &typed); err != nil {
        return err
    }
    var all map[string]json.RawMessage
    if err := json.Unmarshal(b, &all); err != nil {
        return err
    }
    for _, k := range flightFields {
        delete(all, k)
    }
    typed.Extra = nil
    if len(all) > 0 {
        typed.Extra = all
    }
    *f = Flight(typed)
    return nil
}

// MarshalJSON writes the typed fields plus Extra.  A typed field wins over
// an Extra entry of the same name.
func (f Flight) MarshalJSON() ([]byte, error) {
    typed, err := json.Marshal(flightJSON(f))
    if err != nil || len(f.Extra) == 0 {
        return typed, err
    }
    out := make(map[string]json.RawMessage, len(f.Extra)+len(flightFields))
    for k, v := range f.Extra {
        out[k] = v
    }
    var known map[string]json.RawMessage
    if err := json.Unmarshal(typed, &known); err != nil {
        return nil, err
    }
    for k, v := range known {
        out[k] = v
    }
    return json.Marshal(out)
}

// Reservation is the booking snapshot produced at checkout.  Seats is a
// copy of the selection at creation time; later toggles never reach it.
// A record is immutable once written and can only be deleted whole.
//
// Fields:
//  ID        – opaque unique identifier ("SKY" prefix).
//  CreatedAt – creation timestamp (UTC).
//  Flight    – flight descriptor supplied by the caller.
//  Seats     – seats booked, in selection order.
type Reservation struct {
    ID        string    `json:"id"`
    CreatedAt time.Time `json:"createdAt"`
    Flight    Flight    `json:"flight"`
    Seats     []SeatID  `json:"seats"`
}
