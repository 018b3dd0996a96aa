package api

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalToMap(t *testing.T, v any) map[string]any {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestEnvelopeTransformer_Success(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "ses-123"})
	require.NoError(t, err)

	out := marshalToMap(t, result)
	assert.InDelta(t, float64(EnvelopeVersion), out["v"], 0)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, map[string]any{"id": "ses-123"}, out["data"])
	assert.NotContains(t, out, "error")
}

func TestEnvelopeTransformer_CodedError(t *testing.T) {
	apiErr := &APIError{status: 400, Code: "CONFIGURATION", Message: "unknown window kind \"month\""}

	result, err := EnvelopeTransformer(nil, "400", apiErr)
	require.NoError(t, err)

	out := marshalToMap(t, result)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "CONFIGURATION", out["code"])
	assert.Equal(t, "unknown window kind \"month\"", out["message"])
	assert.NotContains(t, out, "details")
}

func TestEnvelopeTransformer_PlainError(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "500", errors.New("boom"))
	require.NoError(t, err)

	env, ok := result.(APIEnvelope)
	require.True(t, ok)
	assert.False(t, env.Success)
	assert.Equal(t, "boom", env.Error)
	assert.Nil(t, env.Data)
}
