package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"alfredoptarigan/interview-coach/internal/goals"
	"alfredoptarigan/interview-coach/internal/models"
)

const validReply = "```json\n{\"score\":87,\"evaluation\":\"Good pacing\",\"metrics\":{\"pacing\":\"steady\"}}\n```"

type EvaluatorTestSuite struct {
	suite.Suite
	spoolDir string
	now      time.Time
	invoker  *fakeInvoker
	opts     []PromptOption
}

func TestEvaluatorTestSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}

func (ts *EvaluatorTestSuite) SetupTest() {
	ts.spoolDir = filepath.Join(ts.T().TempDir(), "spool")
	ts.now = time.Date(2026, time.May, 1, 10, 0, 0, 0, time.Local)
	ts.invoker = &fakeInvoker{response: validReply}
	ts.opts = nil
}

func (ts *EvaluatorTestSuite) evaluator(limit int) EvaluatorService {
	storage := NewTransientStorage(ts.spoolDir)
	ts.Require().NoError(storage.EnsureDir())

	admission := NewAdmissionController(&QuotaState{}, limit, func() time.Time { return ts.now })
	prompts := NewPromptBuilder(goals.Default(), &stubExtractor{text: "Resume text"}, time.Second, ts.opts...)

	return NewEvaluatorService(admission, NewIngestor(storage, 1<<20), prompts, ts.invoker)
}

func (ts *EvaluatorTestSuite) fullForm() (string, *strings.Reader) {
	contentType, body := buildForm(ts.T(), map[string]string{
		FieldGoal:      "job_tech",
		FieldTextInput: "I shipped the payments service.",
	},
		testFile{field: FieldResumeFile, filename: "cv.pdf", mimeType: "application/pdf", data: []byte("%PDF-1.4")},
		testFile{field: FieldAudioFile, filename: "answer.wav", mimeType: "audio/wav", data: []byte("RIFF....WAVE")},
	)
	data, err := readAll(body)
	ts.Require().NoError(err)
	return contentType, strings.NewReader(data)
}

func (ts *EvaluatorTestSuite) assertSpoolEmpty() {
	entries, err := os.ReadDir(ts.spoolDir)
	ts.Require().NoError(err)
	assert.Empty(ts.T(), entries, "transient files left behind")
}

func (ts *EvaluatorTestSuite) TestSuccessfulEvaluation() {
	var seen []string
	ts.invoker.onInvoke = func() {
		entries, _ := os.ReadDir(ts.spoolDir)
		for _, e := range entries {
			seen = append(seen, e.Name())
		}
	}

	contentType, body := ts.fullForm()
	evaluation, err := ts.evaluator(100).Evaluate(ContextWithRequestID(context.Background(), "req-1"), contentType, body)
	ts.Require().NoError(err)

	assert.Equal(ts.T(), "req-1", evaluation.RequestID)
	assert.Equal(ts.T(), &models.EvaluationResult{
		Score:      87,
		Evaluation: "Good pacing",
		Metrics:    map[string]string{"pacing": "steady"},
	}, evaluation.Result)
	assert.Empty(ts.T(), evaluation.Degradations)

	ts.Require().Equal(1, ts.invoker.Calls())
	req := ts.invoker.requests[0]
	assert.Contains(ts.T(), req.Instruction, "Resume text")
	ts.Require().NotNil(req.Audio)
	assert.Equal(ts.T(), []byte("RIFF....WAVE"), req.Audio.Data)

	assert.Len(ts.T(), seen, 2, "both transient files exist during inference")
	ts.assertSpoolEmpty()
}

func (ts *EvaluatorTestSuite) TestQuotaExhaustedSkipsDecoding() {
	evaluator := ts.evaluator(100)

	for i := 0; i < 100; i++ {
		contentType, body := buildForm(ts.T(), map[string]string{FieldTextInput: "answer"})
		_, err := evaluator.Evaluate(context.Background(), contentType, body)
		ts.Require().NoError(err)
	}

	body := &countingReader{r: strings.NewReader("irrelevant")}
	_, err := evaluator.Evaluate(context.Background(), "multipart/form-data; boundary=x", body)

	assert.ErrorIs(ts.T(), err, ErrQuotaExceeded)
	assert.Contains(ts.T(), err.Error(), "limit reached")
	assert.Zero(ts.T(), body.n, "body must not be read after rejection")
	assert.Equal(ts.T(), 100, ts.invoker.Calls())

	ts.now = ts.now.Add(24 * time.Hour)
	contentType, form := buildForm(ts.T(), map[string]string{FieldTextInput: "answer"})
	_, err = evaluator.Evaluate(context.Background(), contentType, form)
	assert.NoError(ts.T(), err, "new day resets the quota")
}

func (ts *EvaluatorTestSuite) TestEmptySubmissionNeverInvokes() {
	contentType, body := buildForm(ts.T(), map[string]string{FieldGoal: "club", FieldTextInput: "   ", FieldContextText: "notes"},
		testFile{field: FieldResumeFile, filename: "cv.pdf", data: []byte("%PDF")},
	)

	_, err := ts.evaluator(100).Evaluate(context.Background(), contentType, body)

	var malformed *MalformedRequestError
	ts.Require().True(errors.As(err, &malformed))
	assert.Zero(ts.T(), ts.invoker.Calls())
	ts.assertSpoolEmpty()
}

func (ts *EvaluatorTestSuite) TestInferenceFailureCleansUp() {
	ts.invoker.err = &InferenceError{Err: errors.New("quota exhausted upstream")}

	contentType, body := ts.fullForm()
	_, err := ts.evaluator(100).Evaluate(context.Background(), contentType, body)

	var inferErr *InferenceError
	ts.Require().True(errors.As(err, &inferErr))
	assert.Equal(ts.T(), 1, ts.invoker.Calls())
	ts.assertSpoolEmpty()
}

func (ts *EvaluatorTestSuite) TestMalformedResponseCleansUp() {
	ts.invoker.response = "not json"

	contentType, body := ts.fullForm()
	_, err := ts.evaluator(100).Evaluate(context.Background(), contentType, body)

	var malformed *MalformedResponseError
	ts.Require().True(errors.As(err, &malformed))
	ts.assertSpoolEmpty()
}

func (ts *EvaluatorTestSuite) TestOversizedPartCleansUp() {
	contentType, body := buildForm(ts.T(), map[string]string{FieldTextInput: "hi"},
		testFile{field: FieldAudioFile, filename: "long.wav", data: make([]byte, 1<<20+1)},
	)

	_, err := ts.evaluator(100).Evaluate(context.Background(), contentType, body)

	var malformed *MalformedRequestError
	ts.Require().True(errors.As(err, &malformed))
	assert.Zero(ts.T(), ts.invoker.Calls())
	ts.assertSpoolEmpty()
}

func (ts *EvaluatorTestSuite) TestPanicInInvokerStillCleansUp() {
	ts.invoker.onInvoke = func() { panic("boom") }

	contentType, body := ts.fullForm()
	assert.Panics(ts.T(), func() {
		_, _ = ts.evaluator(100).Evaluate(context.Background(), contentType, body)
	})
	ts.assertSpoolEmpty()
}

func (ts *EvaluatorTestSuite) TestAudioReadFailureStillEvaluates() {
	ts.opts = []PromptOption{WithFileReader(func(path string) ([]byte, error) {
		if strings.HasSuffix(path, ".wav") {
			return nil, errors.New("input/output error")
		}
		return os.ReadFile(path)
	})}

	contentType, body := ts.fullForm()
	evaluation, err := ts.evaluator(100).Evaluate(context.Background(), contentType, body)
	ts.Require().NoError(err)

	assert.Equal(ts.T(), 87, evaluation.Result.Score)
	ts.Require().Len(evaluation.Degradations, 1)
	assert.Equal(ts.T(), "audio", evaluation.Degradations[0].Input)

	ts.Require().Equal(1, ts.invoker.Calls())
	assert.Nil(ts.T(), ts.invoker.requests[0].Audio)
	assert.Contains(ts.T(), ts.invoker.requests[0].Instruction, "I shipped the payments service.")
	ts.assertSpoolEmpty()
}

func TestRequestIDFromContextGeneratesWhenMissing(t *testing.T) {
	id := RequestIDFromContext(context.Background())
	require.NotEmpty(t, id)
	assert.NotEqual(t, id, RequestIDFromContext(context.Background()))
	assert.Equal(t, "abc", RequestIDFromContext(ContextWithRequestID(context.Background(), "abc")))
}
