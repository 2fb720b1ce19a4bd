package models

// ErrorResponse is the terminal body for rejected or failed evaluations.
type ErrorResponse struct {
	Score      int    `json:"score"`
	Evaluation string `json:"evaluation"`
}

type QuotaStatus struct {
	Used  int    `json:"used"`
	Limit int    `json:"limit"`
	Day   string `json:"day"`
}

type HealthResponse struct {
	Status string      `json:"status"`
	Time   string      `json:"time"`
	Quota  QuotaStatus `json:"quota"`
}
