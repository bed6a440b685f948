package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/proofline/proofline/errors"
	"github.com/proofline/proofline/internal/domain/entities"
	"github.com/proofline/proofline/internal/infrastructure/http/middleware"
	correctionUsecase "github.com/proofline/proofline/internal/usecase/correction"
	"github.com/proofline/proofline/internal/usecase/textdiff"
	"github.com/proofline/proofline/pkg/validator"
)

type fakeTranscriptService struct {
	transcripts map[uuid.UUID]*entities.Transcript
	uploadErr   error
}

func (f *fakeTranscriptService) Upload(_ context.Context, userID uuid.UUID, title, filename, content string) (*entities.Transcript, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	t := entities.NewTranscript(userID, title, filename, content)
	f.transcripts[t.ID] = t
	return t, nil
}

func (f *fakeTranscriptService) Get(_ context.Context, userID, id uuid.UUID) (*entities.Transcript, error) {
	t, ok := f.transcripts[id]
	if !ok {
		return nil, apperrors.ErrNotFound("transcript")
	}
	if t.UserID != userID {
		return nil, apperrors.ErrPermissionDenied("access transcript")
	}
	return t, nil
}

func (f *fakeTranscriptService) List(_ context.Context, userID uuid.UUID) ([]entities.Transcript, error) {
	var out []entities.Transcript
	for _, t := range f.transcripts {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTranscriptService) Rename(_ context.Context, userID, id uuid.UUID, title string) (*entities.Transcript, error) {
	t, err := f.Get(context.Background(), userID, id)
	if err != nil {
		return nil, err
	}
	t.Title = title
	return t, nil
}

func (f *fakeTranscriptService) Revisions(context.Context, uuid.UUID, uuid.UUID) ([]entities.TranscriptRevision, error) {
	return nil, nil
}

type fakeCorrectionService struct {
	lastInput correctionUsecase.SubmitInput
	job       *entities.CorrectionJob
	segments  []textdiff.Segment
	diffErr   error
}

func (f *fakeCorrectionService) Submit(_ context.Context, user *entities.User, input correctionUsecase.SubmitInput) (*entities.CorrectionJob, error) {
	f.lastInput = input
	job := entities.NewCorrectionJob(user.ID, input.TranscriptID, input.Mode, input.Model)
	job.MarkAsCompleted("corrected")
	f.job = job
	return job, nil
}

func (f *fakeCorrectionService) GetStatus(_ context.Context, _, jobID uuid.UUID) (*entities.CorrectionJob, error) {
	if f.job == nil || f.job.ID != jobID {
		return nil, apperrors.ErrNotFound("correction job")
	}
	return f.job, nil
}

func (f *fakeCorrectionService) GetDiff(context.Context, uuid.UUID, uuid.UUID) ([]textdiff.Segment, error) {
	if f.diffErr != nil {
		return nil, f.diffErr
	}
	return f.segments, nil
}

func (f *fakeCorrectionService) Finalize(context.Context, uuid.UUID, uuid.UUID) (*entities.TranscriptRevision, error) {
	return nil, apperrors.ErrNotFound("correction job")
}

func (f *fakeCorrectionService) ListByTranscript(context.Context, uuid.UUID, uuid.UUID) ([]entities.CorrectionJob, error) {
	return nil, nil
}

func (f *fakeCorrectionService) SweepInterrupted(context.Context) (int64, error) {
	return 0, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	return e
}

func doRequest(e *echo.Echo, method, path, body string, user *entities.User, handle echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	if len(names) > 0 {
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if user != nil {
		middleware.SetCurrentUser(c, user)
	}
	_ = handle(c)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "success", envelope.Message)
	return envelope.Data
}

func testUser() *entities.User {
	return &entities.User{ID: uuid.New(), Email: "a@example.com"}
}

func TestTranscriptUpload(t *testing.T) {
	e := newEcho()
	svc := &fakeTranscriptService{transcripts: make(map[uuid.UUID]*entities.Transcript)}
	h := NewTranscriptHandler(svc, &fakeCorrectionService{}, zap.NewNop())

	rec := doRequest(e, http.MethodPost, "/v1/transcripts",
		`{"title":"Standup","filename":"standup.txt","content":"Alice: hello"}`,
		testUser(), h.Upload)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "Standup", data["title"])
	assert.NotEmpty(t, data["id"])
	// Raw content is not echoed back on upload.
	assert.NotContains(t, data, "content")
}

func TestTranscriptUploadRejectsEmptyBody(t *testing.T) {
	e := newEcho()
	svc := &fakeTranscriptService{transcripts: make(map[uuid.UUID]*entities.Transcript)}
	h := NewTranscriptHandler(svc, &fakeCorrectionService{}, zap.NewNop())

	rec := doRequest(e, http.MethodPost, "/v1/transcripts",
		`{"title":"Standup"}`, testUser(), h.Upload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscriptGetRequiresAuth(t *testing.T) {
	e := newEcho()
	svc := &fakeTranscriptService{transcripts: make(map[uuid.UUID]*entities.Transcript)}
	h := NewTranscriptHandler(svc, &fakeCorrectionService{}, zap.NewNop())

	rec := doRequest(e, http.MethodGet, "/v1/transcripts/"+uuid.NewString(), "",
		nil, h.Get, "id", uuid.NewString())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTranscriptGetInvalidID(t *testing.T) {
	e := newEcho()
	svc := &fakeTranscriptService{transcripts: make(map[uuid.UUID]*entities.Transcript)}
	h := NewTranscriptHandler(svc, &fakeCorrectionService{}, zap.NewNop())

	rec := doRequest(e, http.MethodGet, "/v1/transcripts/nope", "",
		testUser(), h.Get, "id", "nope")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCorrectionSubmitAppliesDefaultModel(t *testing.T) {
	e := newEcho()
	svc := &fakeCorrectionService{}
	h := NewCorrectionHandler(svc, "gpt-4o-mini", zap.NewNop())

	body := `{"transcript_id":"` + uuid.NewString() + `","mode":"proofreading"}`
	rec := doRequest(e, http.MethodPost, "/v1/corrections", body, testUser(), h.Submit)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gpt-4o-mini", svc.lastInput.Model)
	assert.Equal(t, entities.ModeProofreading, svc.lastInput.Mode)

	data := decodeData(t, rec)
	assert.Equal(t, "completed", data["status"])
}

func TestCorrectionSubmitKeepsExplicitModel(t *testing.T) {
	e := newEcho()
	svc := &fakeCorrectionService{}
	h := NewCorrectionHandler(svc, "gpt-4o-mini", zap.NewNop())

	body := `{"transcript_id":"` + uuid.NewString() + `","mode":"grammar","model":"gpt-4o"}`
	rec := doRequest(e, http.MethodPost, "/v1/corrections", body, testUser(), h.Submit)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gpt-4o", svc.lastInput.Model)
}

func TestCorrectionGetDiff(t *testing.T) {
	e := newEcho()
	svc := &fakeCorrectionService{segments: []textdiff.Segment{
		{Op: textdiff.OpRemoved, Text: "teh "},
		{Op: textdiff.OpAdded, Text: "the "},
		{Op: textdiff.OpUnchanged, Text: "plan"},
	}}
	h := NewCorrectionHandler(svc, "gpt-4o-mini", zap.NewNop())

	jobID := uuid.NewString()
	rec := doRequest(e, http.MethodGet, "/v1/corrections/"+jobID+"/diff", "",
		testUser(), h.GetDiff, "id", jobID)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	segments, ok := data["segments"].([]interface{})
	require.True(t, ok)
	require.Len(t, segments, 3)
	first := segments[0].(map[string]interface{})
	assert.Equal(t, "removed", first["op"])
	assert.Equal(t, "teh ", first["text"])
}

func TestCorrectionGetDiffIncompleteJob(t *testing.T) {
	e := newEcho()
	svc := &fakeCorrectionService{
		diffErr: apperrors.ErrInvalidState("get_diff", "processing", "completed"),
	}
	h := NewCorrectionHandler(svc, "gpt-4o-mini", zap.NewNop())

	jobID := uuid.NewString()
	rec := doRequest(e, http.MethodGet, "/v1/corrections/"+jobID+"/diff", "",
		testUser(), h.GetDiff, "id", jobID)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
