package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONResponse(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain json untouched",
			input: `{"score": 90}`,
			want:  `{"score": 90}`,
		},
		{
			name:  "markdown json fence",
			input: "```json\n{\"score\": 90}\n```",
			want:  `{"score": 90}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"score\": 90}\n```",
			want:  `{"score": 90}`,
		},
		{
			name:  "prose around the object",
			input: `Here is the analysis: {"score": 90} hope that helps!`,
			want:  `{"score": 90}`,
		},
		{
			name:  "nested objects stay balanced",
			input: `{"a": {"b": 1}, "c": 2} trailing prose`,
			want:  `{"a": {"b": 1}, "c": 2}`,
		},
		{
			name:  "trailing comma repaired",
			input: `{"skills": ["go", "redis",], "score": 80,}`,
			want:  `{"skills": ["go", "redis"], "score": 80}`,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := rc.CleanJSONResponse(tc.input)
			assert.Equal(t, tc.want, got)
			assert.True(t, rc.IsValidJSON(got))
		})
	}
}

func TestCleanJSONResponse_NoObjectPresent(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()
	got := rc.CleanJSONResponse("no json here")
	assert.False(t, rc.IsValidJSON(got))
}

func TestIsValidJSON(t *testing.T) {
	t.Parallel()
	rc := NewResponseCleaner()
	assert.True(t, rc.IsValidJSON(`{"a":1}`))
	assert.True(t, rc.IsValidJSON(`[1,2]`))
	assert.False(t, rc.IsValidJSON(`{`))
}
