package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"3", intPtr(3)},
		{" 4 ", intPtr(4)},
		{"3.0", intPtr(3)},
		{"0", intPtr(0)},
		{"-2", intPtr(-2)},
		{"2.5", nil},
		{"1e30", nil},
		{"-1e30", nil},
		{fmt.Sprintf("%.0f", math.Pow(2, 63)), nil},
		{"NaN", nil},
		{"Inf", nil},
		{"many", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuantity(tt.in))
		})
	}
}

func TestFieldsText(t *testing.T) {
	f := DecodeFields([]byte(`{"s": "Rose", "n": 42, "b": true, "o": {"x": 1}, "a": [1], "z": null}`))

	assert.Equal(t, strPtr("Rose"), f.Text("s"))
	assert.Equal(t, strPtr("42"), f.Text("n"))
	for _, key := range []string{"b", "o", "a", "z", "missing"} {
		assert.Nil(t, f.Text(key), key)
	}
}

func TestFieldsNumber(t *testing.T) {
	f := DecodeFields([]byte(`{"n": 1.5, "s": "2", "bad": "x"}`))

	require.NotNil(t, f.Number("n"))
	assert.Equal(t, 1.5, *f.Number("n"))
	assert.Equal(t, 2.0, *f.Number("s"))
	assert.Nil(t, f.Number("bad"))
}

func TestDecodeFieldsNonObject(t *testing.T) {
	for _, payload := range []string{`"just text"`, `42`, `[1, 2]`, `null`} {
		var rec RawProductRecord
		require.NoError(t, json.Unmarshal([]byte(payload), &rec), payload)
		assert.Equal(t, RawProductRecord{}, rec, payload)
	}
}

func TestRawRecordToleratesBadFields(t *testing.T) {
	payload := `[
		{"title": "Rose Bouquet", "price": "1200"},
		{"id": {"oid": 1}, "title": 7, "description": false, "price": [1], "offerPrice": "99",
		 "imageUrl": 3, "subcategory": {}, "availableQuantity": "3.0"}
	]`

	var records []RawProductRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &records))
	require.Len(t, records, 2)

	bad := records[1]
	assert.False(t, bad.ID.Present())
	assert.Equal(t, "7", *bad.Title)
	assert.Nil(t, bad.Description)
	assert.False(t, bad.Price.Present())
	assert.Equal(t, "99", bad.OfferPrice.String())
	assert.Equal(t, "3", *bad.ImageURL)
	assert.Nil(t, bad.Subcategory)
	assert.Equal(t, 3, *bad.AvailableQuantity)

	products := NormalizeBatch(records)
	assert.Equal(t, "Rose Bouquet", products[0].Name)
	assert.Equal(t, "99", products[1].EffectivePrice())
}
