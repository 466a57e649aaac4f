package bedrockai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMalformedInput(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		malformed bool
		parseErr  string
	}{
		{
			name:      "sentinel input",
			input:     `{"_raw":"{\"city\": \"Osl","_parse_error":"unexpected end of JSON input"}`,
			malformed: true,
			parseErr:  "unexpected end of JSON input",
		},
		{
			name:  "well formed input",
			input: `{"city":"Oslo"}`,
		},
		{
			name:  "empty object",
			input: `{}`,
		},
		{
			name:  "raw key without parse error is ordinary input",
			input: `{"_raw":"something"}`,
		},
		{
			name:  "non object input",
			input: `[1,2,3]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu := ToolUse{ID: "x", Name: "y", Input: json.RawMessage(tt.input)}
			parseErr, ok := tu.MalformedInput()
			assert.Equal(t, tt.malformed, ok)
			if tt.malformed {
				assert.Equal(t, tt.parseErr, parseErr)
			}
		})
	}
}
