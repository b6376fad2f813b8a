package spacex

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeDoc(t *testing.T, raw string) Document {
	t.Helper()
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestDocument_Lookup(t *testing.T) {
	doc := decodeDoc(t, nextLaunchBody)

	tests := []struct {
		path   string
		want   any
		wantOK bool
	}{
		{path: "name", want: "Crew-9", wantOK: true},
		{path: "links.patch.large", want: "https://images2.imgbox.com/crew9.png", wantOK: true},
		{path: "payloads.0.name", want: "Dragon C212", wantOK: true},
		{path: "payloads.1.name", wantOK: false},
		{path: "payloads.x.name", wantOK: false},
		{path: "links.reddit", wantOK: false},
		{path: "name.first", wantOK: false},
		{path: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := doc.Lookup(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDocument_NullIsMissing(t *testing.T) {
	doc := decodeDoc(t, `{"details": null}`)
	_, ok := doc.String("details")
	assert.False(t, ok)
}

func TestDocument_NilDocument(t *testing.T) {
	var doc Document
	_, ok := doc.Lookup("name")
	assert.False(t, ok)
	_, ok = doc.Float("date_unix")
	assert.False(t, ok)
}

func TestDocument_TypedAccessors(t *testing.T) {
	doc := decodeDoc(t, `{"tbd": true, "speed_kph": 1235.5, "count": 3, "name": 7}`)

	tbd, ok := doc.Bool("tbd")
	assert.True(t, ok)
	assert.True(t, tbd)

	speed, ok := doc.Float("speed_kph")
	assert.True(t, ok)
	assert.InDelta(t, 1235.5, speed, 1e-9)

	count, ok := doc.Float("count")
	assert.True(t, ok)
	assert.Equal(t, 3.0, count)

	_, ok = doc.String("name")
	assert.False(t, ok, "numbers are not strings")

	_, ok = doc.Bool("count")
	assert.False(t, ok, "numbers are not booleans")
}

func TestDocument_FloatRejectsNonNumbers(t *testing.T) {
	doc := Document{
		"quoted":  "1235.5",
		"nan_str": "NaN",
		"inf_str": "Infinity",
		"nan":     math.NaN(),
		"pos_inf": math.Inf(1),
		"neg_inf": math.Inf(-1),
		"flag":    true,
	}

	for _, path := range []string{"quoted", "nan_str", "inf_str", "nan", "pos_inf", "neg_inf", "flag"} {
		t.Run(path, func(t *testing.T) {
			got, ok := doc.Float(path)
			assert.False(t, ok)
			assert.Equal(t, 0.0, got)
		})
	}
}
