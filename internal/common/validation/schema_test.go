package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "purchase-advisor/internal/common/errors"
)

const querySchema = `{
  "type": "object",
  "required": ["queries"],
  "properties": {
    "queries": {"type": "array", "items": {"type": "string"}},
    "reasoning": {"type": "string"}
  }
}`

type plan struct {
	Queries   []string `json:"queries"`
	Reasoning string   `json:"reasoning"`
}

func TestSchema_Decode(t *testing.T) {
	s := MustCompile(querySchema)

	tests := []struct {
		name      string
		text      string
		wantErr   bool
		wantCount int
	}{
		{
			name:      "plain object",
			text:      `{"queries":["a4 paper","stapler"],"reasoning":"two items"}`,
			wantCount: 2,
		},
		{
			name:      "fenced reply",
			text:      "```json\n{\"queries\":[\"toner\"]}\n```",
			wantCount: 1,
		},
		{
			name:    "queries not an array",
			text:    `{"queries":"toner"}`,
			wantErr: true,
		},
		{
			name:    "missing queries",
			text:    `{"reasoning":"nothing"}`,
			wantErr: true,
		},
		{
			name:    "no json at all",
			text:    "Sorry, I cannot help with that.",
			wantErr: true,
		},
		{
			name:    "truncated",
			text:    `{"queries":["a", }`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out plan
			err := s.Decode(tt.text, &out)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrMalformedOutput)
				return
			}
			require.NoError(t, err)
			assert.Len(t, out.Queries, tt.wantCount)
		})
	}
}

func TestSchema_Validate_ReportsFields(t *testing.T) {
	s := MustCompile(querySchema)

	result, err := s.Validate([]byte(`{"queries":[1]}`))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Error(), "queries")
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
}
