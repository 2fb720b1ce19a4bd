package models

import "strings"

type FileKind string

const (
	FileKindResume FileKind = "resume"
	FileKindAudio  FileKind = "audio"
)

// TransientFile is an uploaded part spooled to disk for the lifetime of a
// single pipeline invocation.
type TransientFile struct {
	Kind         FileKind
	Path         string
	OriginalName string
	MIMEType     string
	Size         int64
}

// Submission is one decoded practice attempt.
type Submission struct {
	AgeGroup     string
	Goal         string
	SubType      string
	TextResponse string
	ContextText  string
	ResumeFile   *TransientFile
	AudioFile    *TransientFile
}

// Eligible reports whether the submission carries something to evaluate.
func (s *Submission) Eligible() bool {
	return strings.TrimSpace(s.TextResponse) != "" || s.AudioFile != nil
}
