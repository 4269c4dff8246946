package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSliceValue(t *testing.T) {
	v, err := StringSlice(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringSlice{"PEK", "TPE"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["PEK","TPE"]`, v)
}

func TestStringSliceScan(t *testing.T) {
	var s StringSlice
	require.NoError(t, s.Scan([]byte(`["SIN"]`)))
	assert.Equal(t, StringSlice{"SIN"}, s)

	require.NoError(t, s.Scan(nil))
	assert.Equal(t, StringSlice{}, s)

	assert.Error(t, s.Scan(42))
	assert.Error(t, s.Scan("not json"))
}

func TestJSONBRoundTrip(t *testing.T) {
	type row struct {
		Hub   string `json:"hub"`
		Count int    `json:"count"`
	}
	in := JSONB[row]{V: row{Hub: "HKG", Count: 3}}
	v, err := in.Value()
	require.NoError(t, err)

	var out JSONB[row]
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in.V, out.V)
}
