package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	districtSeparator = "||"
	villageSeparator  = ","
	districtDelimiter = ":"
)

// DistrictVillages lists the villages a project covers in one district.
type DistrictVillages struct {
	District string   `json:"district"`
	Villages []string `json:"villages"`
}

// Location is the structured form of a project's coverage area.
//
// The projects table still stores the legacy encoding
// "District: v1, v2 || District2: v3". Scan and Value translate at the
// database boundary so nothing else handles the string form.
type Location []DistrictVillages

// ParseLocation decodes the legacy string form. Empty segments and blank
// village names are dropped. A segment without a colon is a district with
// no villages listed.
func ParseLocation(encoded string) Location {
	loc := Location{}
	for _, segment := range strings.Split(encoded, districtSeparator) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		district, rest, hasVillages := strings.Cut(segment, districtDelimiter)
		entry := DistrictVillages{
			District: strings.TrimSpace(district),
			Villages: []string{},
		}
		if entry.District == "" {
			continue
		}
		if hasVillages {
			for _, v := range strings.Split(rest, villageSeparator) {
				if v = strings.TrimSpace(v); v != "" {
					entry.Villages = append(entry.Villages, v)
				}
			}
		}
		loc = append(loc, entry)
	}
	return loc
}

// String encodes the location in the legacy form.
func (l Location) String() string {
	parts := make([]string, 0, len(l))
	for _, dv := range l {
		district := strings.TrimSpace(dv.District)
		if district == "" {
			continue
		}
		villages := make([]string, 0, len(dv.Villages))
		for _, v := range dv.Villages {
			if v = strings.TrimSpace(v); v != "" {
				villages = append(villages, v)
			}
		}
		if len(villages) == 0 {
			parts = append(parts, district)
			continue
		}
		parts = append(parts, district+districtDelimiter+" "+strings.Join(villages, villageSeparator+" "))
	}
	return strings.Join(parts, " "+districtSeparator+" ")
}

// Scan implements sql.Scanner for the legacy TEXT column.
func (l *Location) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = Location{}
	case string:
		*l = ParseLocation(v)
	case []byte:
		*l = ParseLocation(string(v))
	default:
		return fmt.Errorf("failed to scan Location: expected string, got %T", value)
	}
	return nil
}

// Value implements driver.Valuer, writing the legacy encoding.
func (l Location) Value() (driver.Value, error) {
	return l.String(), nil
}

// MarshalJSON always emits an array, never null.
func (l Location) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]DistrictVillages(l))
}

// UnmarshalJSON accepts either the structured array or a legacy string.
func (l *Location) UnmarshalJSON(data []byte) error {
	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		*l = ParseLocation(encoded)
		return nil
	}

	var entries []DistrictVillages
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to unmarshal location: %w", err)
	}
	*l = Location(entries)
	return nil
}
