package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare object", `{"score": 7}`, `{"score": 7}`, false},
		{"prose around object", `Sure! Here you go: {"score": 7} Hope that helps.`, `{"score": 7}`, false},
		{"fenced object", "```json\n{\"score\": 7}\n```", `{"score": 7}`, false},
		{"bare array", `[1, 2, 3]`, `[1, 2, 3]`, false},
		{"array before object", `[{"a":1}] trailing`, `[{"a":1}]`, false},
		{"no payload", "I could not generate that.", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Score    int    `json:"score"`
		Feedback string `json:"feedback"`
	}
	err := DecodeJSON("Here is the evaluation:\n```json\n{\"score\": 8, \"feedback\": \"solid\"}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, 8, out.Score)
	assert.Equal(t, "solid", out.Feedback)

	err = DecodeJSON(`{"score": "not a number"}`, &out)
	assert.Error(t, err)
}
