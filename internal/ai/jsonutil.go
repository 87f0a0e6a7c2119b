package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripFences removes a surrounding markdown code fence, with or without a
// language tag, from a model response.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ExtractJSON returns the outermost JSON object or array embedded in s, so
// that prose around the payload does not break decoding.
func ExtractJSON(s string) (string, error) {
	s = StripFences(s)

	objStart := strings.IndexByte(s, '{')
	arrStart := strings.IndexByte(s, '[')

	start, end := objStart, strings.LastIndexByte(s, '}')
	if objStart == -1 || (arrStart != -1 && arrStart < objStart) {
		start, end = arrStart, strings.LastIndexByte(s, ']')
	}
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON payload found in response")
	}
	return s[start : end+1], nil
}

// DecodeJSON extracts and unmarshals the JSON payload of a model response
// into v. The response is untrusted; callers still validate the decoded
// structure before use.
func DecodeJSON(raw string, v interface{}) error {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("parse model response: %w", err)
	}
	return nil
}
