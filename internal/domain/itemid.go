package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidItemID is returned when a raw identifier cannot be normalised.
var ErrInvalidItemID = errors.New("domain: invalid item id")

// ItemID is the canonical identifier for cart and menu documents. Inputs
// arrive either as a numeric legacy id or as an opaque textual id; both
// normalise to a single canonical form so that different encodings of the
// same id always compare equal. The zero value is invalid.
type ItemID struct {
	text    string
	value   uint64
	numeric bool
}

// NumericID builds a canonical ItemID from a legacy numeric identifier.
func NumericID(value uint64) ItemID {
	return ItemID{text: strconv.FormatUint(value, 10), value: value, numeric: true}
}

// ParseItemID normalises a raw identifier. A non-empty string of ASCII digits
// that fits uint64 becomes a Numeric id with leading zeros stripped; any other
// non-empty string is kept verbatim as a Text id. Empty input fails closed.
func ParseItemID(raw string) (ItemID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ItemID{}, fmt.Errorf("%w: empty identifier", ErrInvalidItemID)
	}
	if isDigits(trimmed) {
		if value, err := strconv.ParseUint(trimmed, 10, 64); err == nil {
			return NumericID(value), nil
		}
		// Digit runs beyond uint64 range stay textual; normalisation must be
		// total and deterministic rather than rejecting long opaque ids.
	}
	return ItemID{text: trimmed}, nil
}

// ParseItemIDs normalises a batch of raw identifiers, failing closed on the
// first entry that cannot be normalised.
func ParseItemIDs(raw []string) ([]ItemID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]ItemID, 0, len(raw))
	for i, entry := range raw {
		id, err := ParseItemID(entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// String returns the canonical encoding: the decimal form for numeric ids,
// the verbatim text otherwise.
func (id ItemID) String() string {
	return id.text
}

// IsZero reports whether the id is the invalid zero value.
func (id ItemID) IsZero() bool {
	return id.text == ""
}

// Numeric returns the legacy numeric value when the id is numeric.
func (id ItemID) Numeric() (uint64, bool) {
	return id.value, id.numeric
}

// MarshalJSON encodes the id as its canonical string form.
func (id ItemID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return nil, ErrInvalidItemID
	}
	return json.Marshal(id.text)
}

// UnmarshalJSON accepts either a JSON number or a JSON string and normalises it.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if len(raw) >= 2 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidItemID, err)
		}
		raw = s
	}
	parsed, err := ParseItemID(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ItemIDStrings renders a sequence of ids in canonical form, preserving order.
func ItemIDStrings(ids []ItemID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
