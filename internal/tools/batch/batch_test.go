package batch

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringOrArray(t *testing.T) {
	ids, err := ParseStringOrArray("m1", "messageIds")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, ids)

	ids, err = ParseStringOrArray([]interface{}{"m1", "m2"}, "messageIds")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, ids)
}

func TestParseStringOrArrayErrors(t *testing.T) {
	tests := []struct {
		name  string
		param interface{}
	}{
		{"nil", nil},
		{"empty string", ""},
		{"empty array", []interface{}{}},
		{"non-string element", []interface{}{"m1", 42}},
		{"empty element", []interface{}{"m1", ""}},
		{"wrong type", 42},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseStringOrArray(tc.param, "messageIds")
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "messageIds")
		})
	}
}

func TestProcessCollectsPerItemFailures(t *testing.T) {
	results := Process([]string{"a", "b", "c"}, func(id string) (string, error) {
		if id == "b" {
			return "", fmt.Errorf("boom")
		}
		return "done " + id, nil
	})

	require.Len(t, results, 3)
	assert.Equal(t, "success", results[0].Status)
	assert.Equal(t, "done a", results[0].Result)
	assert.Equal(t, "error", results[1].Status)
	assert.Equal(t, "boom", results[1].Error)
	assert.Equal(t, "success", results[2].Status)
}

func TestFormatResults(t *testing.T) {
	out := FormatResults([]Result{
		{ID: "a", Status: "success", Result: "ok"},
		{ID: "b", Status: "error", Error: "boom"},
	})

	var summary Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, 2)
	assert.Equal(t, "b", summary.Results[1].ID)
}
