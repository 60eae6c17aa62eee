package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateAcceptsStringsAndNumbers(t *testing.T) {
	var req SubmissionRequest
	body := `{"name":"Cafe","address":"1 Main St","lat":"40.712800","lng":-74.006,"category":"restaurant"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	lat, err := req.Lat.Float()
	require.NoError(t, err)
	assert.InDelta(t, 40.7128, lat, 1e-9)

	lng, err := req.Lng.Float()
	require.NoError(t, err)
	assert.InDelta(t, -74.006, lng, 1e-9)
}

func TestCoordinateEmpty(t *testing.T) {
	var req SubmissionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"lat":"  ","lng":null}`), &req))
	assert.True(t, req.Lat.Empty())
	assert.True(t, req.Lng.Empty())

	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.True(t, req.Lat.Empty())
}

func TestCoordinateRejectsObjects(t *testing.T) {
	var req SubmissionRequest
	assert.Error(t, json.Unmarshal([]byte(`{"lat":{"value":1}}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"lat":true}`), &req))
}

func TestCoordinateNonNumericString(t *testing.T) {
	c := Coordinate("north")
	_, err := c.Float()
	assert.Error(t, err)
}

func TestPlaceType(t *testing.T) {
	cases := map[string]string{
		"business":   "establishment",
		"restaurant": "restaurant",
		"shop":       "store",
		"landmark":   "point_of_interest",
		"home":       "home_goods_store",
		"other":      "establishment",
		"spaceport":  "establishment",
	}
	for category, want := range cases {
		assert.Equal(t, want, PlaceType(category), category)
	}
}
