package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Fields holds the members of one backend object, decoded one at a time so a
// wrongly typed member only loses itself, never its record or batch.
type Fields map[string]json.RawMessage

// DecodeFields splits a JSON object into its members. Anything that is not an
// object yields no members, so every field falls back to its default.
func DecodeFields(data []byte) Fields {
	var fields Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}

// Text returns a string member. Numbers keep their literal text; other kinds are absent.
func (f Fields) Text(key string) *string {
	raw := bytes.TrimSpace(f[key])
	if len(raw) == 0 {
		return nil
	}
	switch {
	case raw[0] == '"':
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return nil
		}
		return &s
	case isNumberStart(raw[0]):
		var n json.Number
		if json.Unmarshal(raw, &n) != nil {
			return nil
		}
		s := n.String()
		return &s
	default:
		return nil
	}
}

// Scalar returns a string or number member; other kinds are absent
func (f Fields) Scalar(key string) Scalar {
	var s Scalar
	if raw, ok := f[key]; ok && s.UnmarshalJSON(raw) == nil {
		return s
	}
	return Scalar{}
}

// Quantity returns a whole-number member given as a number or numeric string
func (f Fields) Quantity(key string) *int {
	text := f.Text(key)
	if text == nil {
		return nil
	}
	return ParseQuantity(*text)
}

// Number returns a numeric member given as a number or numeric string
func (f Fields) Number(key string) *float64 {
	text := f.Text(key)
	if text == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ParseQuantity reads a whole number, accepting "3.0" as spreadsheets and JSON
// encoders write it. Fractions, overflow and non-numbers yield nil.
func ParseQuantity(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return nil
	}
	if v < math.MinInt || v >= math.MaxInt {
		return nil
	}
	n := int(v)
	return &n
}

// UnmarshalJSON decodes each field on its own; malformed fields are left at their default
func (r *RawProductRecord) UnmarshalJSON(data []byte) error {
	f := DecodeFields(data)
	*r = RawProductRecord{
		ID:                f.Scalar("id"),
		Title:             f.Text("title"),
		Description:       f.Text("description"),
		Price:             f.Scalar("price"),
		OriginalPrice:     f.Scalar("originalPrice"),
		OfferPrice:        f.Scalar("offerPrice"),
		ImageURL:          f.Text("imageUrl"),
		Badge:             f.Text("badge"),
		Subcategory:       f.Text("subcategory"),
		AvailableQuantity: f.Quantity("availableQuantity"),
	}
	return nil
}

func isNumberStart(b byte) bool {
	return b == '-' || (b >= '0' && b <= '9')
}
