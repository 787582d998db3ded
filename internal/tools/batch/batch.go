package batch

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of one operation in a batch.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "success" or "error"
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Summary aggregates the results of a batch operation.
type Summary struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseStringOrArray parses a tool argument that may be a single
// string or an array of strings. Empty values are rejected so a typo
// never turns into a silent no-op batch.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		return []string{v}, nil
	case []interface{}:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		ids := make([]string, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			ids = append(ids, str)
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}

// Process runs fn over each ID sequentially and collects per-item
// results. A failing item does not stop the rest of the batch.
func Process(ids []string, fn func(id string) (string, error)) []Result {
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		res, err := fn(id)
		if err != nil {
			results = append(results, Result{ID: id, Status: "error", Error: err.Error()})
			continue
		}
		results = append(results, Result{ID: id, Status: "success", Result: res})
	}
	return results
}

// FormatResults renders the batch summary as indented JSON.
func FormatResults(results []Result) string {
	summary := Summary{
		Total:   len(results),
		Results: results,
	}
	for _, r := range results {
		if r.Status == "success" {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	return string(out)
}
