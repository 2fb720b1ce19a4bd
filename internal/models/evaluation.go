package models

// Metric keys the model is asked to fill. Absent keys are allowed and
// unknown keys are passed through untouched.
const (
	MetricFillerWordCount     = "filler_word_count"
	MetricToneAnalysis        = "tone_analysis"
	MetricPacing              = "pacing"
	MetricConfidence          = "confidence"
	MetricClarity             = "clarity"
	MetricStutters            = "stutters"
	MetricEngagement          = "engagement"
	MetricProfessionalism     = "professionalism"
	MetricAdditionalQualities = "additional_qualities"
)

// MetricKeys lists the documented metric keys in prompt order.
var MetricKeys = []string{
	MetricFillerWordCount,
	MetricToneAnalysis,
	MetricPacing,
	MetricConfidence,
	MetricClarity,
	MetricStutters,
	MetricEngagement,
	MetricProfessionalism,
	MetricAdditionalQualities,
}

const (
	MinScore = 0
	MaxScore = 100
)

// EvaluationResult is the normalized evaluation returned to callers.
type EvaluationResult struct {
	Score      int               `json:"score"`
	Evaluation string            `json:"evaluation"`
	Metrics    map[string]string `json:"metrics,omitempty"`
}
