package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-coach/internal/models"
)

func TestNormalizeResponseFencedJSON(t *testing.T) {
	raw := "```json\n{\"score\":87,\"evaluation\":\"Good pacing\",\"metrics\":{\"pacing\":\"steady\"}}\n```"

	result, err := NormalizeResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, &models.EvaluationResult{
		Score:      87,
		Evaluation: "Good pacing",
		Metrics:    map[string]string{"pacing": "steady"},
	}, result)
}

func TestNormalizeResponseVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *models.EvaluationResult
	}{
		{
			name: "bare json",
			raw:  `{"score": 0, "evaluation": ""}`,
			want: &models.EvaluationResult{Score: 0, Evaluation: ""},
		},
		{
			name: "plain fence with whitespace",
			raw:  "  ```\n{\"score\":100,\"evaluation\":\"Perfect\"}\n```  \n",
			want: &models.EvaluationResult{Score: 100, Evaluation: "Perfect"},
		},
		{
			name: "upper case fence",
			raw:  "```JSON\n{\"score\":42,\"evaluation\":\"ok\"}```",
			want: &models.EvaluationResult{Score: 42, Evaluation: "ok"},
		},
		{
			name: "integral float score",
			raw:  `{"score":70.0,"evaluation":"fine"}`,
			want: &models.EvaluationResult{Score: 70, Evaluation: "fine"},
		},
		{
			name: "unknown and non-string metrics pass through",
			raw:  `{"score":55,"evaluation":"x","metrics":{"filler_word_count":3,"eye_contact":"good","stutters":null,"extra":{"a": 1}}}`,
			want: &models.EvaluationResult{
				Score:      55,
				Evaluation: "x",
				Metrics: map[string]string{
					"filler_word_count": "3",
					"eye_contact":       "good",
					"extra":             `{"a":1}`,
				},
			},
		},
		{
			name: "metrics array is ignored",
			raw:  `{"score":80,"evaluation":"ok","metrics":[]}`,
			want: &models.EvaluationResult{Score: 80, Evaluation: "ok"},
		},
		{
			name: "metrics string is ignored",
			raw:  `{"score":80,"evaluation":"ok","metrics":"n/a"}`,
			want: &models.EvaluationResult{Score: 80, Evaluation: "ok"},
		},
		{
			name: "null metrics",
			raw:  `{"score":12,"evaluation":"weak","metrics":null}`,
			want: &models.EvaluationResult{Score: 12, Evaluation: "weak"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeResponse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeResponseContractViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "not json"},
		{"empty", "   "},
		{"only fences", "```json\n```"},
		{"array", `[{"score": 50, "evaluation": "x"}]`},
		{"missing score", `{"evaluation":"x"}`},
		{"missing evaluation", `{"score":50}`},
		{"score too high", `{"score":101,"evaluation":"x"}`},
		{"negative score", `{"score":-1,"evaluation":"x"}`},
		{"fractional score", `{"score":87.5,"evaluation":"x"}`},
		{"string score", `{"score":"87","evaluation":"x"}`},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizeResponse(tt.raw)
			assert.Nil(t, result)
			var malformed *MalformedResponseError
			assert.True(t, errors.As(err, &malformed), "got %v", err)
		})
	}
}
