package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type testFile struct {
	field    string
	filename string
	mimeType string
	data     []byte
}

func buildForm(t *testing.T, fields map[string]string, files ...testFile) (string, io.Reader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		if f.mimeType != "" {
			header.Set("Content-Type", f.mimeType)
		}
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return w.FormDataContentType(), &buf
}

// fakeInvoker records requests and returns a canned response.
type fakeInvoker struct {
	mu       sync.Mutex
	calls    int
	requests []*InferenceRequest
	response string
	err      error
	// onInvoke runs during the call, while transient files still exist.
	onInvoke func()
}

func (f *fakeInvoker) Invoke(ctx context.Context, req *InferenceRequest) (string, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.onInvoke != nil {
		f.onInvoke()
	}
	return f.response, f.err
}

func (f *fakeInvoker) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	return string(data), err
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}
