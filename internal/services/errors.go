package services

import (
	"errors"
	"fmt"
)

// ErrQuotaExceeded is returned when the daily admission ceiling is reached.
var ErrQuotaExceeded = errors.New("daily evaluation limit reached")

// ErrNotConfigured marks a missing inference credential.
var ErrNotConfigured = &ConfigurationError{Setting: "GEMINI_API_KEY"}

// MalformedRequestError is raised while decoding or validating a submission.
type MalformedRequestError struct {
	Reason string
	Err    error
}

func (e *MalformedRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed request: %s: %v", e.Reason, e.Err)
	}
	return "malformed request: " + e.Reason
}

func (e *MalformedRequestError) Unwrap() error { return e.Err }

type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return e.Setting + " not configured"
}

// InferenceError wraps any failure talking to the generative service.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return "inference service: " + e.Err.Error()
}

func (e *InferenceError) Unwrap() error { return e.Err }

// MalformedResponseError means the model output broke the JSON contract.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed model response: %s: %v", e.Reason, e.Err)
	}
	return "malformed model response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func malformedRequest(reason string, err error) error {
	return &MalformedRequestError{Reason: reason, Err: err}
}

func malformedResponse(reason string, err error) error {
	return &MalformedResponseError{Reason: reason, Err: err}
}
