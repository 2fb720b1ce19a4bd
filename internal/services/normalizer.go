package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"alfredoptarigan/interview-coach/internal/models"
)

// Code fence markers stripped from model output before parsing. Openers are
// matched longest first at the start of the trimmed text, the closer at its end.
var (
	fenceOpeners = []string{"```json", "```JSON", "```"}
	fenceCloser  = "```"
)

type rawEvaluation struct {
	Score      *float64        `json:"score"`
	Evaluation *string         `json:"evaluation"`
	Metrics    json.RawMessage `json:"metrics"`
}

// NormalizeResponse parses raw model output into an EvaluationResult.
func NormalizeResponse(raw string) (*models.EvaluationResult, error) {
	payload := stripCodeFence(raw)
	if payload == "" {
		return nil, malformedResponse("empty output", nil)
	}

	var parsed rawEvaluation
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, malformedResponse("invalid JSON", err)
	}

	if parsed.Score == nil {
		return nil, malformedResponse("missing score", nil)
	}
	score := *parsed.Score
	if score != math.Trunc(score) {
		return nil, malformedResponse(fmt.Sprintf("score %v is not an integer", score), nil)
	}
	if score < models.MinScore || score > models.MaxScore {
		return nil, malformedResponse(fmt.Sprintf("score %v out of range %d-%d", score, models.MinScore, models.MaxScore), nil)
	}
	if parsed.Evaluation == nil {
		return nil, malformedResponse("missing evaluation", nil)
	}

	result := &models.EvaluationResult{
		Score:      int(score),
		Evaluation: *parsed.Evaluation,
	}

	if metrics := metricFields(parsed.Metrics); len(metrics) > 0 {
		result.Metrics = make(map[string]string, len(metrics))
		for key, value := range metrics {
			text, ok := metricText(value)
			if !ok {
				continue
			}
			result.Metrics[key] = text
		}
	}

	return result, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	for _, opener := range fenceOpeners {
		if strings.HasPrefix(text, opener) {
			text = strings.TrimPrefix(text, opener)
			break
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), fenceCloser)

	return strings.TrimSpace(text)
}

// metricFields returns the members of a metrics object. Anything that is not
// a JSON object is ignored.
func metricFields(raw json.RawMessage) map[string]json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	return fields
}

// metricText keeps strings as they are and passes any other JSON value
// through as its compact JSON text. Null values are dropped.
func metricText(value json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s, true
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed), true
	}
	return buf.String(), true
}
