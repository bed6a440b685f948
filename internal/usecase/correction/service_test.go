package correction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/proofline/proofline/errors"
	"github.com/proofline/proofline/internal/domain/entities"
	"github.com/proofline/proofline/internal/infrastructure/cache"
	"github.com/proofline/proofline/internal/usecase/revision"
	"github.com/proofline/proofline/internal/usecase/textdiff"
	pkgai "github.com/proofline/proofline/pkg/ai"
	"github.com/proofline/proofline/pkg/config"
)

// ---- in-memory repository fakes ----

type fakeJobRepo struct {
	jobs map[uuid.UUID]*entities.CorrectionJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[uuid.UUID]*entities.CorrectionJob)}
}

func (r *fakeJobRepo) Create(_ context.Context, job *entities.CorrectionJob) error {
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeJobRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.CorrectionJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, apperrors.ErrNotFound("correction job")
	}
	copied := *job
	return &copied, nil
}

func (r *fakeJobRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]entities.CorrectionJob, error) {
	var out []entities.CorrectionJob
	for _, j := range r.jobs {
		if j.UserID == userID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) ListByTranscript(_ context.Context, transcriptID uuid.UUID) ([]entities.CorrectionJob, error) {
	var out []entities.CorrectionJob
	for _, j := range r.jobs {
		if j.TranscriptID == transcriptID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) MarkProcessing(_ context.Context, job *entities.CorrectionJob) error {
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeJobRepo) MarkCompleted(_ context.Context, job *entities.CorrectionJob) error {
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeJobRepo) MarkFailed(_ context.Context, job *entities.CorrectionJob) error {
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeJobRepo) UpdateRetryCount(_ context.Context, jobID uuid.UUID, retryCount int) error {
	if j, ok := r.jobs[jobID]; ok {
		j.RetryCount = retryCount
	}
	return nil
}

func (r *fakeJobRepo) CountCompletedByWordList(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeJobRepo) FailInterrupted(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, j := range r.jobs {
		if j.Status == entities.JobStatusProcessing && j.UpdatedAt.Before(cutoff) {
			kind := entities.ErrKindInterrupted
			j.ErrorKind = &kind
			j.MarkAsFailed("process interrupted before job finished")
			n++
		}
	}
	return n, nil
}

type fakeTranscriptRepo struct {
	transcripts map[uuid.UUID]*entities.Transcript
	processed   map[uuid.UUID]bool
}

func newFakeTranscriptRepo() *fakeTranscriptRepo {
	return &fakeTranscriptRepo{
		transcripts: make(map[uuid.UUID]*entities.Transcript),
		processed:   make(map[uuid.UUID]bool),
	}
}

func (r *fakeTranscriptRepo) Create(_ context.Context, t *entities.Transcript) error {
	r.transcripts[t.ID] = t
	return nil
}

func (r *fakeTranscriptRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Transcript, error) {
	t, ok := r.transcripts[id]
	if !ok {
		return nil, apperrors.ErrNotFound("transcript")
	}
	return t, nil
}

func (r *fakeTranscriptRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]entities.Transcript, error) {
	var out []entities.Transcript
	for _, t := range r.transcripts {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTranscriptRepo) UpdateTitle(_ context.Context, id uuid.UUID, title string) error {
	if t, ok := r.transcripts[id]; ok {
		t.Title = title
	}
	return nil
}

func (r *fakeTranscriptRepo) MarkProcessed(_ context.Context, id uuid.UUID) error {
	r.processed[id] = true
	return nil
}

type fakeWordListRepo struct {
	lists    map[uuid.UUID]*entities.WordList
	versions map[uuid.UUID]*entities.WordListVersion
	shares   map[uuid.UUID]map[uuid.UUID]bool
	usage    int
}

func newFakeWordListRepo() *fakeWordListRepo {
	return &fakeWordListRepo{
		lists:    make(map[uuid.UUID]*entities.WordList),
		versions: make(map[uuid.UUID]*entities.WordListVersion),
		shares:   make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (r *fakeWordListRepo) Create(_ context.Context, l *entities.WordList) error {
	r.lists[l.ID] = l
	return nil
}

func (r *fakeWordListRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.WordList, error) {
	l, ok := r.lists[id]
	if !ok {
		return nil, apperrors.ErrNotFound("word list")
	}
	return l, nil
}

func (r *fakeWordListRepo) FindByName(_ context.Context, userID uuid.UUID, name string) (*entities.WordList, error) {
	for _, l := range r.lists {
		if l.UserID == userID && l.Name == name {
			return l, nil
		}
	}
	return nil, apperrors.ErrNotFound("word list")
}

func (r *fakeWordListRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]entities.WordList, error) {
	var out []entities.WordList
	for _, l := range r.lists {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeWordListRepo) AppendVersion(_ context.Context, l *entities.WordList, v *entities.WordListVersion) error {
	r.versions[v.ID] = v
	l.CurrentVersionID = &v.ID
	r.lists[l.ID] = l
	return nil
}

func (r *fakeWordListRepo) FindVersion(_ context.Context, id uuid.UUID) (*entities.WordListVersion, error) {
	v, ok := r.versions[id]
	if !ok {
		return nil, apperrors.ErrNotFound("word list version")
	}
	return v, nil
}

func (r *fakeWordListRepo) ListVersions(_ context.Context, wordListID uuid.UUID) ([]entities.WordListVersion, error) {
	var out []entities.WordListVersion
	for _, v := range r.versions {
		if v.WordListID == wordListID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeWordListRepo) Update(_ context.Context, l *entities.WordList) error {
	r.lists[l.ID] = l
	return nil
}

func (r *fakeWordListRepo) RecordUsage(_ context.Context, l *entities.WordList) error {
	r.usage++
	r.lists[l.ID] = l
	return nil
}

func (r *fakeWordListRepo) Share(_ context.Context, s *entities.SharedWordList) error {
	if r.shares[s.WordListID] == nil {
		r.shares[s.WordListID] = make(map[uuid.UUID]bool)
	}
	r.shares[s.WordListID][s.UserID] = true
	return nil
}

func (r *fakeWordListRepo) Unshare(_ context.Context, listID, userID uuid.UUID) error {
	delete(r.shares[listID], userID)
	return nil
}

func (r *fakeWordListRepo) HasShare(_ context.Context, listID, userID uuid.UUID) (bool, error) {
	return r.shares[listID][userID], nil
}

func (r *fakeWordListRepo) Delete(_ context.Context, l *entities.WordList) error {
	delete(r.lists, l.ID)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound("user")
	}
	return u, nil
}

func (r *fakeUserRepo) FindByAPIKey(_ context.Context, apiKey string) (*entities.User, error) {
	for _, u := range r.users {
		if u.APIKey == apiKey {
			return u, nil
		}
	}
	return nil, apperrors.ErrUnauthenticated()
}

func (r *fakeUserRepo) AddAPICost(_ context.Context, userID uuid.UUID, cost float64) error {
	if u, ok := r.users[userID]; ok {
		u.TotalAPICost += cost
	}
	return nil
}

type fakeRevisionRepo struct {
	revisions []entities.TranscriptRevision
}

func (r *fakeRevisionRepo) Append(_ context.Context, rev *entities.TranscriptRevision) error {
	r.revisions = append(r.revisions, *rev)
	return nil
}

func (r *fakeRevisionRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.TranscriptRevision, error) {
	for i := range r.revisions {
		if r.revisions[i].ID == id {
			return &r.revisions[i], nil
		}
	}
	return nil, apperrors.ErrNotFound("revision")
}

func (r *fakeRevisionRepo) ListByTranscript(_ context.Context, transcriptID uuid.UUID) ([]entities.TranscriptRevision, error) {
	var out []entities.TranscriptRevision
	for _, rev := range r.revisions {
		if rev.TranscriptID == transcriptID {
			out = append(out, rev)
		}
	}
	return out, nil
}

// ---- fixture ----

type fixture struct {
	svc          Service
	user         *entities.User
	transcript   *entities.Transcript
	jobRepo      *fakeJobRepo
	userRepo     *fakeUserRepo
	wordListRepo *fakeWordListRepo
	tRepo        *fakeTranscriptRepo
	revRepo      *fakeRevisionRepo
	completer    *fakeCompleter
}

func newFixture(t *testing.T, responses ...fakeResponse) *fixture {
	t.Helper()

	cfg := &config.Config{
		Engine: config.EngineConfig{
			ChunkTokenBudget: 4000,
			MaxPromptTerms:   200,
			MaxAttempts:      3,
			JobTimeout:       time.Minute,
			DefaultSpendCap:  10.0,
			Pricing:          config.DefaultPricing(),
		},
	}

	user := &entities.User{
		ID: uuid.New(), Email: "dev@example.com", Name: "Dev",
		APIKey: "key", IsActive: true, APIUsageLimit: 10,
	}
	transcript := entities.NewTranscript(user.ID, "standup", "standup.txt", "teh quick brown fox.")

	jobRepo := newFakeJobRepo()
	tRepo := newFakeTranscriptRepo()
	wlRepo := newFakeWordListRepo()
	userRepo := newFakeUserRepo()
	revRepo := &fakeRevisionRepo{}

	// store a copy so AddAPICost mutates the repo's row, not the fixture's
	// user; chargeUser mirrors the increment onto the request-scoped user.
	repoUser := *user
	userRepo.users[user.ID] = &repoUser
	tRepo.transcripts[transcript.ID] = transcript

	completer := &fakeCompleter{responses: responses}
	engine := NewEngine(completer, cfg.Engine.MaxAttempts, zap.NewNop())
	engine.initialBackoff = 0

	ledger := revision.NewLedger(revRepo, zap.NewNop())
	svc := NewService(jobRepo, tRepo, wlRepo, userRepo, ledger, engine, cache.NewMemoryStore(), cfg, zap.NewNop())

	return &fixture{
		svc: svc, user: user, transcript: transcript,
		jobRepo: jobRepo, userRepo: userRepo, wordListRepo: wlRepo,
		tRepo: tRepo, revRepo: revRepo, completer: completer,
	}
}

func (f *fixture) submit(t *testing.T, input SubmitInput) *entities.CorrectionJob {
	t.Helper()
	if input.TranscriptID == uuid.Nil {
		input.TranscriptID = f.transcript.ID
	}
	if input.Mode == "" {
		input.Mode = entities.ModeProofreading
	}
	if input.Model == "" {
		input.Model = "gpt-4o"
	}
	job, err := f.svc.Submit(context.Background(), f.user, input)
	require.NoError(t, err)
	return job
}

// ---- tests ----

func TestService_SubmitCompletesJob(t *testing.T) {
	f := newFixture(t, fakeResponse{
		completion: pkgai.Completion{Text: "the quick brown fox.", PromptTokens: 200, CompletionTokens: 100},
	})

	job := f.submit(t, SubmitInput{})

	assert.Equal(t, entities.JobStatusCompleted, job.Status)
	require.NotNil(t, job.CorrectedContent)
	assert.Equal(t, "the quick brown fox.", *job.CorrectedContent)
	assert.Equal(t, 200, job.PromptTokens)
	assert.Equal(t, 100, job.CompletionTokens)
	assert.Equal(t, 1, job.ChunkCount)

	price := config.DefaultPricing()["gpt-4o"]
	want := float64(200)/1000*price.PromptPer1K + float64(100)/1000*price.CompletionPer1K
	assert.Equal(t, want, job.Cost)
	assert.Equal(t, want, f.user.TotalAPICost)
	assert.True(t, f.tRepo.processed[f.transcript.ID])
}

func TestService_SubmitUnknownModel(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), f.user, SubmitInput{
		TranscriptID: f.transcript.ID,
		Mode:         entities.ModeProofreading,
		Model:        "unknown-model",
	})

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_INVALID_CONFIGURATION, appErr.Code)
	assert.Equal(t, 0, f.completer.calls, "no provider call may happen")
	assert.Empty(t, f.jobRepo.jobs, "no job row may be created")
	assert.Zero(t, f.user.TotalAPICost)
}

func TestService_SubmitUnknownMode(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), f.user, SubmitInput{
		TranscriptID: f.transcript.ID,
		Mode:         "translate",
		Model:        "gpt-4o",
	})

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_INVALID_CONFIGURATION, appErr.Code)
}

func TestService_SubmitQuotaExceeded(t *testing.T) {
	f := newFixture(t)
	f.user.TotalAPICost = f.user.APIUsageLimit

	_, err := f.svc.Submit(context.Background(), f.user, SubmitInput{
		TranscriptID: f.transcript.ID,
		Mode:         entities.ModeProofreading,
		Model:        "gpt-4o",
	})

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_QUOTA_EXCEEDED, appErr.Code)
	assert.Empty(t, f.jobRepo.jobs, "job is never created on quota rejection")
}

func TestService_SubmitForeignTranscript(t *testing.T) {
	f := newFixture(t)
	stranger := &entities.User{ID: uuid.New(), APIUsageLimit: 10}
	f.userRepo.users[stranger.ID] = stranger

	_, err := f.svc.Submit(context.Background(), stranger, SubmitInput{
		TranscriptID: f.transcript.ID,
		Mode:         entities.ModeProofreading,
		Model:        "gpt-4o",
	})

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_PERMISSION_DENIED, appErr.Code)
}

func TestService_ProviderFailureIsAbsorbedIntoJobState(t *testing.T) {
	f := newFixture(t, fakeResponse{err: pkgai.Permanent(errors.New("model refused"))})

	job, err := f.svc.Submit(context.Background(), f.user, SubmitInput{
		TranscriptID: f.transcript.ID,
		Mode:         entities.ModeProofreading,
		Model:        "gpt-4o",
	})
	require.NoError(t, err, "provider errors must not surface from submit")

	assert.Equal(t, entities.JobStatusFailed, job.Status)
	require.NotNil(t, job.ErrorDetail)
	assert.Contains(t, *job.ErrorDetail, "chunk 0")
	require.NotNil(t, job.ErrorKind)
	assert.Equal(t, "permanent", *job.ErrorKind)
	assert.Nil(t, job.CorrectedContent)
}

func TestService_FailedJobKeepsPartialAccounting(t *testing.T) {
	transient := pkgai.Transient(errors.New("overloaded"))
	f := newFixture(t,
		fakeResponse{completion: pkgai.Completion{Text: "ok.", PromptTokens: 50, CompletionTokens: 20}},
		fakeResponse{err: transient}, fakeResponse{err: transient}, fakeResponse{err: transient},
	)
	// two paragraphs, tiny budget, so the second chunk fails
	f.transcript.Content = "alpha beta gamma delta.\n\nepsilon zeta eta theta."
	cfgBudget := 7
	svc := f.svc.(*service)
	svc.chunker = NewChunker(cfgBudget)

	job := f.submit(t, SubmitInput{})

	assert.Equal(t, entities.JobStatusFailed, job.Status)
	assert.Contains(t, *job.ErrorDetail, "chunk 1")
	assert.Equal(t, "transient", *job.ErrorKind)
	assert.Equal(t, 50, job.PromptTokens)
	assert.Equal(t, 20, job.CompletionTokens)
	assert.Equal(t, 2, job.RetryCount)
	assert.Greater(t, job.Cost, 0.0)
	assert.Equal(t, job.Cost, f.user.TotalAPICost, "spend before the failure is still billed")
}

func TestService_WordListTermsReachPromptAndUsageIsRecorded(t *testing.T) {
	f := newFixture(t, fakeResponse{
		completion: pkgai.Completion{Text: "the address is wrong", PromptTokens: 10, CompletionTokens: 5},
	})
	f.transcript.Content = "teh adress is wrong"

	list := entities.NewWordList(f.user.ID, "glossary", "")
	version, err := entities.NewWordListVersion(list.ID, 1, []entities.WordPair{
		{Incorrect: "teh", Correct: "the"},
		{Incorrect: "adress", Correct: "address"},
	})
	require.NoError(t, err)
	require.NoError(t, f.wordListRepo.Create(context.Background(), list))
	require.NoError(t, f.wordListRepo.AppendVersion(context.Background(), list, version))

	job := f.submit(t, SubmitInput{WordListID: &list.ID})

	assert.Equal(t, entities.JobStatusCompleted, job.Status)
	require.NotNil(t, job.WordListVersionID)
	assert.Equal(t, version.ID, *job.WordListVersionID)
	assert.Equal(t, 1, f.wordListRepo.usage)
	assert.Equal(t, 1, list.UsageCount)

	usage := list.TermUsage.Data()
	assert.Contains(t, usage, "teh")
	assert.Contains(t, usage, "adress")

	// the diff marks both replacements
	segs, err := f.svc.GetDiff(context.Background(), f.user.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, []textdiff.Segment{
		{Op: textdiff.OpRemoved, Text: "teh adress "},
		{Op: textdiff.OpAdded, Text: "the address "},
		{Op: textdiff.OpUnchanged, Text: "is wrong"},
	}, segs)
}

func TestService_GetDiffRequiresCompletedJob(t *testing.T) {
	f := newFixture(t, fakeResponse{err: pkgai.Permanent(errors.New("boom"))})

	job := f.submit(t, SubmitInput{})
	require.Equal(t, entities.JobStatusFailed, job.Status)

	_, err := f.svc.GetDiff(context.Background(), f.user.ID, job.ID)

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_INVALID_STATE, appErr.Code)
}

func TestService_FinalizeAppendsRevision(t *testing.T) {
	f := newFixture(t, fakeResponse{
		completion: pkgai.Completion{Text: "clean text.", PromptTokens: 10, CompletionTokens: 5},
	})

	job := f.submit(t, SubmitInput{})

	rev, err := f.svc.Finalize(context.Background(), f.user.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "clean text.", rev.Content)
	assert.Equal(t, job.ID, rev.CorrectionJobID)
	assert.Len(t, f.revRepo.revisions, 1)

	// finalizing again appends another row, never mutates the first
	rev2, err := f.svc.Finalize(context.Background(), f.user.ID, job.ID)
	require.NoError(t, err)
	assert.NotEqual(t, rev.ID, rev2.ID)
	assert.Len(t, f.revRepo.revisions, 2)
}

func TestService_FinalizeFailedJobIsInvalidState(t *testing.T) {
	f := newFixture(t, fakeResponse{err: pkgai.Permanent(errors.New("boom"))})

	job := f.submit(t, SubmitInput{})

	_, err := f.svc.Finalize(context.Background(), f.user.ID, job.ID)

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_INVALID_STATE, appErr.Code)
	assert.Empty(t, f.revRepo.revisions)
}

func TestService_GetStatusChecksOwnership(t *testing.T) {
	f := newFixture(t, fakeResponse{
		completion: pkgai.Completion{Text: "done", PromptTokens: 1, CompletionTokens: 1},
	})
	job := f.submit(t, SubmitInput{})

	_, err := f.svc.GetStatus(context.Background(), uuid.New(), job.ID)

	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_PERMISSION_DENIED, appErr.Code)
}

func TestService_SweepInterrupted(t *testing.T) {
	f := newFixture(t)

	stale := entities.NewCorrectionJob(f.user.ID, f.transcript.ID, entities.ModeProofreading, "gpt-4o")
	stale.MarkAsProcessing()
	stale.UpdatedAt = time.Now().Add(-time.Hour)
	f.jobRepo.jobs[stale.ID] = stale

	count, err := f.svc.SweepInterrupted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	swept := f.jobRepo.jobs[stale.ID]
	assert.Equal(t, entities.JobStatusFailed, swept.Status)
	require.NotNil(t, swept.ErrorKind)
	assert.Equal(t, entities.ErrKindInterrupted, *swept.ErrorKind)
}
