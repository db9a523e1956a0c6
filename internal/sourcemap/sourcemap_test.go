package sourcemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendVLQ(t *testing.T) {
	tests := []struct {
		name  string
		value int
		want  string
	}{
		{name: "zero", value: 0, want: "A"},
		{name: "one", value: 1, want: "C"},
		{name: "negative one", value: -1, want: "D"},
		{name: "ten", value: 10, want: "U"},
		{name: "fifteen", value: 15, want: "e"},
		{name: "sixteen needs continuation", value: 16, want: "gB"},
		{name: "large", value: 1200, want: "grC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(appendVLQ(nil, tt.value)))
		})
	}
}

func TestDecodeVLQ_RoundTrip(t *testing.T) {
	for _, v := range []int{0, 1, -1, 5, -5, 16, 31, 32, 1023, -1024, 123456} {
		encoded := string(appendVLQ(nil, v))
		got, next, err := decodeVLQ(encoded, 0)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(encoded), next)
	}
}

func TestDecodeVLQ_Invalid(t *testing.T) {
	_, _, err := decodeVLQ("", 0)
	assert.Error(t, err)

	// Continuation bit set on the final character.
	_, _, err = decodeVLQ("g", 0)
	assert.Error(t, err)

	_, _, err = decodeVLQ("!", 0)
	assert.Error(t, err)
}

func TestDecodeMappings(t *testing.T) {
	// Two generated lines, each mapping column 0 to source 0,
	// original lines 0 and 1.
	lines, err := DecodeMappings("AAAA;AACA")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	require.Len(t, lines[0], 1)
	assert.Equal(t, Segment{GenCol: 0, Source: 0, OrigLine: 0, OrigCol: 0, Name: -1}, lines[0][0])

	require.Len(t, lines[1], 1)
	assert.Equal(t, Segment{GenCol: 0, Source: 0, OrigLine: 1, OrigCol: 0, Name: -1}, lines[1][0])
}

func TestDecodeMappings_NameField(t *testing.T) {
	// Single segment carrying all five fields.
	lines, err := DecodeMappings("AAAAA")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, Segment{GenCol: 0, Source: 0, OrigLine: 0, OrigCol: 0, Name: 0}, lines[0][0])
}

func TestDecodeMappings_EmptyLines(t *testing.T) {
	lines, err := DecodeMappings(";;AAAA")
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Empty(t, lines[0])
	assert.Empty(t, lines[1])
	require.Len(t, lines[2], 1)
}

func TestDecodeMappings_InvalidFieldCount(t *testing.T) {
	// Two fields is not a legal segment arity.
	_, err := DecodeMappings("AA")
	assert.Error(t, err)
}

func TestEncodeMappings_RoundTrip(t *testing.T) {
	for _, mappings := range []string{
		"AAAA",
		"AAAA;AACA",
		";;AAAA",
		"AAAA,SAASA;AACA",
		"AAAAA,CACCC",
		"A",
	} {
		lines, err := DecodeMappings(mappings)
		require.NoError(t, err)
		assert.Equal(t, mappings, EncodeMappings(lines), "mappings %q", mappings)
	}
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(`{"version":3,"file":"out.js","sources":["a.js"],"names":[],"mappings":"AAAA"}`))
	require.NoError(t, err)
	assert.Equal(t, "out.js", m.File)
	assert.Equal(t, []string{"a.js"}, m.Sources)
}

func TestParse_WrongVersion(t *testing.T) {
	_, err := Parse([]byte(`{"version":2,"sources":[],"names":[],"mappings":""}`))
	assert.Error(t, err)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`{"version":`))
	assert.Error(t, err)
}

func TestEncode_RoundTrip(t *testing.T) {
	m := &Map{Version: 3, File: "out.js", Sources: []string{"a.js"}, Names: []string{}, Mappings: "AAAA"}
	data, err := m.Encode()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, m, back)
}
