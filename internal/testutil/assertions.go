// Package testutil provides common test utilities and assertions for the
// capability host tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalmysore/ucpexample/domain/entities"
)

// AssertJSONEqual compares two JSON strings for equality, ignoring formatting
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedJSON, actualJSON interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expectedJSON), "expected JSON is invalid")
	require.NoError(t, json.Unmarshal([]byte(actual), &actualJSON), "actual JSON is invalid")

	assert.Equal(t, expectedJSON, actualJSON, msgAndArgs...)
}

// DecodeEnvelope decodes a JSON-encoded ResultEnvelope. Numbers stay
// json.Number so integer results compare exactly.
func DecodeEnvelope(t *testing.T, data []byte) entities.ResultEnvelope {
	t.Helper()

	var env entities.ResultEnvelope
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&env), "envelope JSON is invalid: %s", data)
	return env
}

// AssertEnvelope asserts that actual carries the expected value and message.
// Metadata is ignored.
func AssertEnvelope(t *testing.T, expected, actual entities.ResultEnvelope, msgAndArgs ...interface{}) {
	t.Helper()

	assert.Equal(t, expected.Value, actual.Value, msgAndArgs...)
	assert.Equal(t, expected.Message, actual.Message, msgAndArgs...)
}
