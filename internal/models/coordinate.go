package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Coordinate holds a latitude or longitude in its textual form. The form
// posts them as strings ("40.712800"), API clients usually as numbers; both
// decode into the same value.
type Coordinate string

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Coordinate(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("coordinate must be a number or numeric string: %w", err)
		}
		*c = Coordinate(n.String())
	}
	return nil
}

// Empty reports whether no value was supplied.
func (c Coordinate) Empty() bool { return c == "" }

// Float parses the coordinate.
func (c Coordinate) Float() (float64, error) {
	return strconv.ParseFloat(string(c), 64)
}
