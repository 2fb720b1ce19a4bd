package services

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"alfredoptarigan/interview-coach/internal/models"
)

// Form field names accepted by the evaluate endpoint.
const (
	FieldAgeGroup    = "age_group"
	FieldGoal        = "goal"
	FieldSubType     = "sub_type"
	FieldTextInput   = "text_input"
	FieldContextText = "context_text"
	FieldResumeFile  = "file"
	FieldAudioFile   = "audio_response"
)

const (
	DefaultGoal    = "General"
	DefaultSubType = "Interview"
)

type Ingestor struct {
	storage     TransientStorage
	maxPartSize int64
}

func NewIngestor(storage TransientStorage, maxPartSize int64) *Ingestor {
	return &Ingestor{
		storage:     storage,
		maxPartSize: maxPartSize,
	}
}

// Decode streams a multipart/form-data body into a Submission. File parts
// are spooled to transient storage and registered with reaper, including
// when decoding fails halfway.
func (i *Ingestor) Decode(contentType string, body io.Reader, reaper *Reaper) (*models.Submission, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, malformedRequest("invalid content type", err)
	}
	if mediaType != "multipart/form-data" {
		return nil, malformedRequest(fmt.Sprintf("unsupported content type %q", mediaType), nil)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, malformedRequest("missing multipart boundary", nil)
	}

	fields := make(map[string]string)
	var resume, audio *models.TransientFile

	reader := multipart.NewReader(body, boundary)
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformedRequest("failed to parse multipart body", err)
		}

		name := part.FormName()
		switch name {
		case FieldResumeFile, FieldAudioFile:
			kind := models.FileKindResume
			if name == FieldAudioFile {
				kind = models.FileKindAudio
			}
			if (kind == models.FileKindResume && resume != nil) || (kind == models.FileKindAudio && audio != nil) {
				if err := i.discard(part, name); err != nil {
					return nil, err
				}
				break
			}

			file, err := i.storage.Spool(kind, part.FileName(), part.Header.Get("Content-Type"), part, i.maxPartSize, reaper)
			if errors.Is(err, errPartTooLarge) {
				part.Close()
				return nil, malformedRequest(fmt.Sprintf("field %s exceeds %d bytes", name, i.maxPartSize), nil)
			}
			if err != nil {
				part.Close()
				return nil, malformedRequest(fmt.Sprintf("failed to store field %s", name), err)
			}
			if file.Size == 0 {
				break
			}
			if kind == models.FileKindResume {
				resume = file
			} else {
				audio = file
			}

		case FieldAgeGroup, FieldGoal, FieldSubType, FieldTextInput, FieldContextText:
			if _, seen := fields[name]; seen {
				if err := i.discard(part, name); err != nil {
					return nil, err
				}
				break
			}
			value, err := io.ReadAll(io.LimitReader(part, i.maxPartSize+1))
			if err != nil {
				part.Close()
				return nil, malformedRequest(fmt.Sprintf("failed to read field %s", name), err)
			}
			if int64(len(value)) > i.maxPartSize {
				part.Close()
				return nil, malformedRequest(fmt.Sprintf("field %s exceeds %d bytes", name, i.maxPartSize), nil)
			}
			fields[name] = string(value)
		}

		part.Close()
	}

	return &models.Submission{
		AgeGroup:     strings.TrimSpace(fields[FieldAgeGroup]),
		Goal:         withDefault(fields[FieldGoal], DefaultGoal),
		SubType:      withDefault(fields[FieldSubType], DefaultSubType),
		TextResponse: fields[FieldTextInput],
		ContextText:  fields[FieldContextText],
		ResumeFile:   resume,
		AudioFile:    audio,
	}, nil
}

// discard drains a repeated part while still holding it to the per-part limit.
func (i *Ingestor) discard(part *multipart.Part, name string) error {
	defer part.Close()

	n, err := io.CopyN(io.Discard, part, i.maxPartSize+1)
	if err != nil && !errors.Is(err, io.EOF) {
		return malformedRequest(fmt.Sprintf("failed to read field %s", name), err)
	}
	if n > i.maxPartSize {
		return malformedRequest(fmt.Sprintf("field %s exceeds %d bytes", name, i.maxPartSize), nil)
	}
	return nil
}

func withDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
