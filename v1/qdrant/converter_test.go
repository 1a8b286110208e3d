package qdrant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadConversion(t *testing.T) {
	in := map[string]any{
		"title":  "doc",
		"count":  json.Number("3"),
		"ratio":  json.Number("0.5"),
		"flag":   true,
		"none":   nil,
		"nested": map[string]any{"depth": json.Number("2")},
		"tags":   []any{"a", json.Number("1")},
	}

	payload, err := NewPayload(in)
	require.NoError(t, err)
	assert.Equal(t, int64(3), payload["count"].GetIntegerValue())
	assert.Equal(t, 0.5, payload["ratio"].GetDoubleValue())

	out := PayloadMap(payload)
	assert.Equal(t, map[string]any{
		"title":  "doc",
		"count":  int64(3),
		"ratio":  0.5,
		"flag":   true,
		"none":   nil,
		"nested": map[string]any{"depth": int64(2)},
		"tags":   []any{"a", int64(1)},
	}, out)
}

func TestNewPayload_Empty(t *testing.T) {
	payload, err := NewPayload(nil)
	require.NoError(t, err)
	assert.NotNil(t, payload)
	assert.Empty(t, payload)

	assert.Nil(t, PayloadMap(nil))
}

func TestNewPayload_UnsupportedType(t *testing.T) {
	_, err := NewPayload(map[string]any{"ch": make(chan int)})
	assert.ErrorContains(t, err, `payload field "ch"`)
}
