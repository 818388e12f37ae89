//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(v.(string)), &out))
	return out
}

func TestSetupAndStats(t *testing.T) {
	require.NoError(t, setup())
	require.NotNil(t, splitter)

	res := decode(t, splitContent(js.Undefined(), []js.Value{
		js.ValueOf("a.txt"),
		js.ValueOf("Example text. More example text. Even more text to illustrate."),
	}))
	assert.Nil(t, res["error"])
	assert.Equal(t, float64(1), res["chunks"])

	stats := decode(t, getStats(js.Undefined(), nil))
	assert.Nil(t, stats["error"])
	assert.Equal(t, float64(1), stats["totalDocs"])
	assert.Equal(t, []interface{}{"a.txt"}, stats["files"])
}

func TestSplitContent_Usage(t *testing.T) {
	require.NoError(t, setup())

	res := decode(t, splitContent(js.Undefined(), nil))
	assert.Contains(t, res["error"], "usage")
}
