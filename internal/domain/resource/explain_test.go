package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchKeywords(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"rehab for co-occurring disorders", ExplainCoOccurring},
		{"Rehab that takes MENTAL HEALTH clients", ExplainCoOccurring},
		{"rehab mental-health", ExplainCoOccurring},
		{"rehab near downtown", ExplainDefault},
		{"bed tonight", ExplainEmergency},
		{"Emergency shelter", ExplainEmergency},
		{"rehab emergency", ExplainEmergency},
		{"free meal", ExplainFood},
		{"FOOD pantry", ExplainFood},
		{"emergency food", ExplainEmergency},
		{"legal aid", ExplainDefault},
		{"", ExplainDefault},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchKeywords(tt.query))
		})
	}
}

func TestExplain_ShortQueriesHaveNoExplanation(t *testing.T) {
	assert.Empty(t, Explain(""))
	assert.Empty(t, Explain("  bed  "))
	assert.Empty(t, Explain("abc"))
	assert.Equal(t, ExplainFood, Explain("food"))
}
