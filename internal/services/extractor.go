package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	mimePDF   = "application/pdf"
	mimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePlain = "text/plain"
)

// DocumentExtractor turns uploaded résumé/context bytes into plain text.
type DocumentExtractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType, fileName string) (string, error)
}

type documentExtractor struct{}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractor{}
}

func (d *documentExtractor) ExtractText(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty document")
	}

	switch documentType(mimeType, fileName) {
	case mimePDF:
		return extractPDFText(data)
	case mimeDOCX:
		return extractDOCXText(data)
	case mimePlain:
		if !utf8.Valid(data) {
			return "", errors.New("text document is not valid UTF-8")
		}
		return CleanText(string(data)), nil
	default:
		return "", fmt.Errorf("unsupported document type: %s", mimeType)
	}
}

// documentType prefers the file extension since browsers often send a
// generic application/octet-stream for résumé uploads.
func documentType(mimeType, fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDOCX
	case ".txt", ".md":
		return mimePlain
	}

	media, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return ""
	}
	return media
}

func extractDOCXText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml not found in DOCX")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read DOCX body: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				buf.WriteString("\n")
			}
		}
	}

	text := CleanText(buf.String())
	if text == "" {
		return "", errors.New("no text content found in DOCX")
	}
	return text, nil
}

// extractWithTimeout runs the extractor in its own goroutine so a stuck
// parser cannot hold the request past timeout.
func extractWithTimeout(ctx context.Context, extractor DocumentExtractor, timeout time.Duration, data []byte, mimeType, fileName string) Result[string] {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type extraction struct {
		text string
		err  error
	}
	done := make(chan extraction, 1)

	go func() {
		defer func() {
			// ledongthuc/pdf panics on some malformed files.
			if r := recover(); r != nil {
				done <- extraction{err: fmt.Errorf("document extraction panicked: %v", r)}
			}
		}()
		text, err := extractor.ExtractText(ctx, data, mimeType, fileName)
		done <- extraction{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return Degraded[string](fmt.Sprintf("document extraction timed out: %v", ctx.Err()))
	case res := <-done:
		if res.err != nil {
			return Degraded[string](res.err.Error())
		}
		if strings.TrimSpace(res.text) == "" {
			return Degraded[string]("document contained no text")
		}
		return Ok(res.text)
	}
}
