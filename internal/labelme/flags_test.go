package labelme

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlags_PreservesDocumentOrder(t *testing.T) {
	var f Flags
	require.NoError(t, json.Unmarshal([]byte(`{"zeta": true, "alpha": false, "mid": true}`), &f))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, f.Names())
	assert.Equal(t, 3, f.Len())
	assert.True(t, f.IsTrue("zeta"))
	assert.False(t, f.IsTrue("alpha"))
}

func TestFlags_MarshalRoundTrip(t *testing.T) {
	var f Flags
	require.NoError(t, json.Unmarshal([]byte(`{"b": true, "a": false}`), &f))

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"b":true,"a":false}`, string(out))
}

func TestFlags_Empty(t *testing.T) {
	var f Flags
	require.NoError(t, json.Unmarshal([]byte(`{}`), &f))
	assert.Equal(t, 0, f.Len())

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))

	// The zero value marshals as an empty object too.
	out, err = json.Marshal(Flags{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}

func TestFlags_DuplicateKeyKeepsLastValue(t *testing.T) {
	var f Flags
	require.NoError(t, json.Unmarshal([]byte(`{"a": true, "b": true, "a": false}`), &f))

	assert.Equal(t, []string{"a", "b"}, f.Names())
	assert.False(t, f.IsTrue("a"))
}

func TestFlags_RejectsNonObject(t *testing.T) {
	var f Flags
	assert.Error(t, json.Unmarshal([]byte(`[true]`), &f))
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &f))
}

func TestFlags_RejectsNonBoolValue(t *testing.T) {
	var f Flags
	err := json.Unmarshal([]byte(`{"a": 1}`), &f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `flag "a"`)
}

func TestFlags_True(t *testing.T) {
	var f Flags
	require.NoError(t, json.Unmarshal([]byte(`{"on": true, "off": false, "also": true}`), &f))

	set := f.True()
	assert.True(t, set.Has("on"))
	assert.True(t, set.Has("also"))
	assert.False(t, set.Has("off"))
}
