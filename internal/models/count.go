package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Count is a head count submitted from the admin forms.
//
// The forms post whatever the input box holds, so decoding is lenient:
// JSON numbers and numeric strings are accepted, fractions are truncated,
// and null, empty, non-numeric or non-finite input decodes to 0. Negative
// values are kept so the caller can clamp them and record that it did.
type Count int64

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*c = 0
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	*c = Count(parseCount(raw))
	return nil
}

// parseCount reads raw as an int64. Values outside the int64 range decode
// to 0 like any other unusable input.
func parseCount(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		return n
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}

// Clamp returns the value floored at zero and whether it had to be floored.
func (c Count) Clamp() (int64, bool) {
	if c < 0 {
		return 0, true
	}
	return int64(c), false
}
