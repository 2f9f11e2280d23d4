package strand

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlanValue(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  []string
		valid bool
	}{
		{
			name:  "bare array",
			raw:   `["collect underpants", "?", "profit!"]`,
			want:  []string{"collect underpants", "?", "profit!"},
			valid: true,
		},
		{
			name:  "steps object",
			raw:   `{"steps": ["step1", "step2"]}`,
			want:  []string{"step1", "step2"},
			valid: true,
		},
		{
			name:  "empty array",
			raw:   `[]`,
			want:  []string{},
			valid: true,
		},
		{
			name:  "object without steps",
			raw:   `{"other": 1}`,
			valid: false,
		},
		{
			name:  "scalar",
			raw:   `42`,
			valid: false,
		},
		{
			name:  "array of non-strings",
			raw:   `[1, 2, 3]`,
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, ok := DecodePlanValue(json.RawMessage(tt.raw))
			require.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, steps)
			}
		})
	}
}
