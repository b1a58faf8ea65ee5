package model

import (
    "encoding/json"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestFlightKeepsUnknownFields(t *testing.T) {
    in := `{"airline":"SkyVoyage Elite","flight":"SV203","price":749,` +
        `"cabin":"business","legs":[{"from":"IST","to":"CDG"}],"meal":null}`

    var f Flight
    require.NoError(t, json.Unmarshal([]byte(in), &f))
    assert.Equal(t, "SV203", f.Flight)
    assert.Equal(t, 749.0, f.Price)
    require.Len(t, f.Extra, 3)
    assert.JSONEq(t, `"business"`, string(f.Extra["cabin"]))

    out, err := json.Marshal(Reservation{ID: "SKY1", Flight: f, Seats: []SeatID{"1A"}})
    require.NoError(t, err)

    var back Reservation
    require.NoError(t, json.Unmarshal(out, &back))
    assert.Equal(t, f, back.Flight)

    var raw struct {
        Flight json.RawMessage `json:"flight"`
    }
    require.NoError(t, json.Unmarshal(out, &raw))
    assert.JSONEq(t, in, string(raw.Flight))
}

func TestFlightWithoutExtras(t *testing.T) {
    var f Flight
    require.NoError(t, json.Unmarshal([]byte(`{"flight":"SV1","to":"LAX"}`), &f))
    assert.Nil(t, f.Extra)

    out, err := json.Marshal(f)
    require.NoError(t, err)
    assert.JSONEq(t, `{"flight":"SV1","to":"LAX"}`, string(out))
}

func TestFlightExtraCannotShadowTypedFields(t *testing.T) {
    f := Flight{Flight: "SV1", Extra: map[string]json.RawMessage{"flight": json.RawMessage(`"SV999"`)}}
    out, err := json.Marshal(f)
    require.NoError(t, err)
    assert.JSONEq(t, `{"flight":"SV1"}`, string(out))
}
