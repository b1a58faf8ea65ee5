package queue

import (
    "encoding/json"
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/skyvoyage-seatmap/internal/model"
)

func TestNewBookingConfirmedEvent(t *testing.T) {
    r := model.Reservation{
        ID:        "SKY42",
        CreatedAt: time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC),
        Flight:    model.Flight{Airline: "SkyVoyage Elite", Flight: "SV203", From: "IST", To: "LAX"},
        Seats:     []model.SeatID{"3C", "3D"},
    }
    ev := NewBookingConfirmedEvent("sess", r)
    assert.Equal(t, "SKY42", ev.BookingID)
    assert.Equal(t, "sess", ev.SessionID)
    assert.Equal(t, "SV203", ev.FlightNo)
    assert.Equal(t, []string{"3C", "3D"}, ev.Seats)
    assert.Equal(t, "2026-05-01T08:30:00Z", ev.CreatedAt)
}

func TestHandleMessageAppends(t *testing.T) {
    dir := filepath.Join(t.TempDir(), "logs")
    for _, id := range []string{"SKY1", "SKY2"} {
        body, err := json.Marshal(BookingConfirmedEvent{
            BookingID: id, SessionID: "s", FlightNo: "SV117", From: "IST", To: "NYC",
            Seats: []string{"1A"}, CreatedAt: "2026-05-01T08:30:00Z",
        })
        require.NoError(t, err)
        require.NoError(t, HandleMessage(dir, body))
    }

    data, err := os.ReadFile(filepath.Join(dir, "booking.log"))
    require.NoError(t, err)
    lines := strings.Split(strings.TrimSpace(string(data)), "\n")
    require.Len(t, lines, 2)
    assert.Contains(t, lines[0], "booking_id=SKY1")
    assert.Contains(t, lines[1], "booking_id=SKY2")
    assert.Contains(t, lines[1], "route=IST-NYC")
    assert.Contains(t, lines[1], "seats=[1A]")
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
    dir := t.TempDir()
    assert.Error(t, HandleMessage(dir, []byte("not json")))
    assert.Error(t, HandleMessage(dir, []byte(`{"flight_no":"SV1"}`)))
    _, err := os.Stat(filepath.Join(dir, "booking.log"))
    assert.True(t, os.IsNotExist(err))
}

func TestFormatLineWithoutRoute(t *testing.T) {
    line := FormatLine(BookingConfirmedEvent{BookingID: "SKY1", FlightNo: "SV1", Seats: []string{"1A", "1B"}})
    assert.Contains(t, line, "route=- |")
    assert.Contains(t, line, "seats=[1A,1B]")
    assert.True(t, strings.HasSuffix(line, "\n"))
}
