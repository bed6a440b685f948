package correction

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/proofline/proofline/errors"
	"github.com/proofline/proofline/internal/domain/entities"
	"github.com/proofline/proofline/internal/domain/repositories"
	"github.com/proofline/proofline/internal/infrastructure/cache"
	"github.com/proofline/proofline/internal/usecase/revision"
	"github.com/proofline/proofline/internal/usecase/textdiff"
	pkgai "github.com/proofline/proofline/pkg/ai"
	"github.com/proofline/proofline/pkg/config"
	"github.com/proofline/proofline/pkg/jobcontext"
)

// statusCacheTTL bounds how long a terminal job row is served from cache.
const statusCacheTTL = 10 * time.Minute

// SubmitInput carries everything needed to start a correction job. Exactly
// one of WordListID / WordListVersionID may be set; WordListID resolves to
// the list's current version.
type SubmitInput struct {
	TranscriptID      uuid.UUID
	Mode              entities.ProcessingMode
	CustomPrompt      string
	Model             string
	WordListID        *uuid.UUID
	WordListVersionID *uuid.UUID
}

// Service orchestrates the correction pipeline: chunking, prompt assembly,
// provider calls, cost accounting and job state transitions.
type Service interface {
	Submit(ctx context.Context, user *entities.User, input SubmitInput) (*entities.CorrectionJob, error)
	GetStatus(ctx context.Context, userID, jobID uuid.UUID) (*entities.CorrectionJob, error)
	GetDiff(ctx context.Context, userID, jobID uuid.UUID) ([]textdiff.Segment, error)
	Finalize(ctx context.Context, userID, jobID uuid.UUID) (*entities.TranscriptRevision, error)
	ListByTranscript(ctx context.Context, userID, transcriptID uuid.UUID) ([]entities.CorrectionJob, error)
	// SweepInterrupted fails jobs left in processing by a dead process. Run
	// once at startup before the server accepts traffic.
	SweepInterrupted(ctx context.Context) (int64, error)
}

type service struct {
	jobRepo        repositories.CorrectionJobRepository
	transcriptRepo repositories.TranscriptRepository
	wordListRepo   repositories.WordListRepository
	userRepo       repositories.UserRepository
	ledger         *revision.Ledger
	chunker        *Chunker
	assembler      *PromptAssembler
	engine         *Engine
	statusCache    cache.Store
	cfg            *config.Config
	logger         *zap.Logger
}

func NewService(
	jobRepo repositories.CorrectionJobRepository,
	transcriptRepo repositories.TranscriptRepository,
	wordListRepo repositories.WordListRepository,
	userRepo repositories.UserRepository,
	ledger *revision.Ledger,
	engine *Engine,
	statusCache cache.Store,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &service{
		jobRepo:        jobRepo,
		transcriptRepo: transcriptRepo,
		wordListRepo:   wordListRepo,
		userRepo:       userRepo,
		ledger:         ledger,
		chunker:        NewChunker(cfg.Engine.ChunkTokenBudget),
		assembler:      NewPromptAssembler(cfg.Engine.MaxPromptTerms),
		engine:         engine,
		statusCache:    statusCache,
		cfg:            cfg,
		logger:         logger,
	}
}

// Submit validates configuration and quota, creates the job row, then runs
// it to a terminal state within this call. Provider failures are absorbed
// into the job's status rather than returned; configuration and quota
// problems surface before any row is written or token is spent.
func (s *service) Submit(ctx context.Context, user *entities.User, input SubmitInput) (*entities.CorrectionJob, error) {
	if !input.Mode.IsValid() {
		return nil, apperrors.ErrInvalidConfiguration(fmt.Sprintf("unknown processing mode %q", input.Mode))
	}
	price, ok := s.cfg.Engine.Pricing[input.Model]
	if !ok {
		return nil, apperrors.ErrInvalidConfiguration(fmt.Sprintf("unknown model %q", input.Model))
	}

	transcript, err := s.transcriptRepo.FindByID(ctx, input.TranscriptID)
	if err != nil {
		return nil, err
	}
	if transcript.UserID != user.ID {
		return nil, apperrors.ErrPermissionDenied("access transcript")
	}

	if !user.CanSpend() {
		return nil, apperrors.ErrQuotaExceeded(
			fmt.Sprintf("%.6f", user.TotalAPICost),
			fmt.Sprintf("%.6f", user.APIUsageLimit),
		)
	}

	list, version, err := s.resolveWordList(ctx, user, input)
	if err != nil {
		return nil, err
	}

	job := entities.NewCorrectionJob(user.ID, transcript.ID, input.Mode, input.Model)
	job.CustomPrompt = input.CustomPrompt
	if version != nil {
		job.WordListVersionID = &version.ID
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.execute(ctx, user, job, transcript, list, version, price)
	return job, nil
}

// resolveWordList loads the glossary the job will use, if any. A list ID
// resolves to its current version; a version ID is used as-is. Shared lists
// are readable by any user; per-user grants also pass.
func (s *service) resolveWordList(ctx context.Context, user *entities.User, input SubmitInput) (*entities.WordList, *entities.WordListVersion, error) {
	var versionID uuid.UUID
	switch {
	case input.WordListVersionID != nil:
		versionID = *input.WordListVersionID
	case input.WordListID != nil:
		list, err := s.wordListRepo.FindByID(ctx, *input.WordListID)
		if err != nil {
			return nil, nil, err
		}
		if list.CurrentVersionID == nil {
			return nil, nil, apperrors.ErrInvalidArgument("word list has no versions")
		}
		versionID = *list.CurrentVersionID
	default:
		return nil, nil, nil
	}

	version, err := s.wordListRepo.FindVersion(ctx, versionID)
	if err != nil {
		return nil, nil, err
	}
	list, err := s.wordListRepo.FindByID(ctx, version.WordListID)
	if err != nil {
		return nil, nil, err
	}
	if list.UserID != user.ID && !list.IsShared {
		granted, err := s.wordListRepo.HasShare(ctx, list.ID, user.ID)
		if err != nil {
			return nil, nil, err
		}
		if !granted {
			return nil, nil, apperrors.ErrPermissionDenied("access word list")
		}
	}
	return list, version, nil
}

// execute drives one job from pending to a terminal state. All provider
// errors end in the job row; only the logs see them otherwise.
func (s *service) execute(ctx context.Context, user *entities.User, job *entities.CorrectionJob, transcript *entities.Transcript, list *entities.WordList, version *entities.WordListVersion, price config.ModelPrice) {
	jobCtx, cancel := jobcontext.Begin(ctx, job.ID, string(job.Mode), s.cfg.Engine.JobTimeout)
	defer cancel()

	job.MarkAsProcessing()
	if err := s.jobRepo.MarkProcessing(jobCtx, job); err != nil {
		s.failJob(jobCtx, job, "internal", fmt.Sprintf("mark processing: %v", err))
		return
	}

	chunks, err := s.chunker.Split(transcript.Content)
	if err != nil {
		s.failJob(jobCtx, job, "internal", fmt.Sprintf("chunking: %v", err))
		return
	}
	job.ChunkCount = len(chunks)

	var (
		terms    []entities.WordPair
		lastUsed map[string]time.Time
	)
	if version != nil {
		terms = version.Terms.Data()
		lastUsed = list.TermUsage.Data()
	}
	prompt, err := s.assembler.Assemble(job.Mode, job.CustomPrompt, terms, lastUsed)
	if err != nil {
		s.failJob(jobCtx, job, "internal", fmt.Sprintf("prompt assembly: %v", err))
		return
	}
	if prompt.Truncated {
		job.Warnings = append(job.Warnings, fmt.Sprintf(
			"word list truncated: %d of %d terms included in prompt", len(prompt.Terms), len(terms)))
	}

	result, runErr := s.engine.Run(jobCtx, prompt.Instruction, chunks, job.Model)

	// accounting survives failure for audit
	job.PromptTokens = result.PromptTokens
	job.CompletionTokens = result.CompletionTokens
	job.RetryCount = result.Retries
	job.Cost = price.Cost(result.PromptTokens, result.CompletionTokens)

	if runErr != nil {
		kind := "permanent"
		if pkgai.IsTransient(runErr) {
			kind = "transient"
		}
		s.failJob(jobCtx, job, kind, runErr.Error())
		s.chargeUser(jobCtx, user, job)
		return
	}

	job.MarkAsCompleted(result.Corrected)
	if err := s.jobRepo.MarkCompleted(jobCtx, job); err != nil {
		s.logger.Error("failed to persist completed job",
			zap.String("job_id", job.ID.String()), zap.Error(err))
		return
	}
	s.cacheStatus(jobCtx, job)
	s.chargeUser(jobCtx, user, job)

	if list != nil && len(prompt.Terms) > 0 {
		list.MarkUsed(prompt.Terms, time.Now())
		if err := s.wordListRepo.RecordUsage(jobCtx, list); err != nil {
			s.logger.Warn("failed to record word list usage",
				zap.String("wordlist_id", list.ID.String()), zap.Error(err))
		}
	}
	if err := s.transcriptRepo.MarkProcessed(jobCtx, transcript.ID); err != nil {
		s.logger.Warn("failed to mark transcript processed",
			zap.String("transcript_id", transcript.ID.String()), zap.Error(err))
	}

	s.logger.Info("correction job completed",
		zap.String("job_id", job.ID.String()),
		zap.Int("chunks", job.ChunkCount),
		zap.Int("prompt_tokens", job.PromptTokens),
		zap.Int("completion_tokens", job.CompletionTokens),
		zap.Float64("cost", job.Cost),
		zap.Duration("elapsed", jobcontext.Elapsed(jobCtx)),
	)
}

func (s *service) failJob(ctx context.Context, job *entities.CorrectionJob, kind, detail string) {
	job.ErrorKind = &kind
	job.MarkAsFailed(detail)
	if err := s.jobRepo.MarkFailed(ctx, job); err != nil {
		s.logger.Error("failed to persist failed job",
			zap.String("job_id", job.ID.String()), zap.Error(err))
		return
	}
	s.cacheStatus(ctx, job)
	s.logger.Warn("correction job failed",
		zap.String("job_id", job.ID.String()),
		zap.String("kind", kind),
		zap.String("detail", detail),
	)
}

// chargeUser books the job's cost, successful or not: tokens the provider
// reported were spent either way.
func (s *service) chargeUser(ctx context.Context, user *entities.User, job *entities.CorrectionJob) {
	if job.Cost <= 0 {
		return
	}
	if err := s.userRepo.AddAPICost(ctx, user.ID, job.Cost); err != nil {
		s.logger.Error("failed to record api cost",
			zap.String("user_id", user.ID.String()),
			zap.Float64("cost", job.Cost),
			zap.Error(err),
		)
		return
	}
	user.TotalAPICost += job.Cost
}

// GetStatus returns the job, serving terminal jobs from cache when possible.
func (s *service) GetStatus(ctx context.Context, userID, jobID uuid.UUID) (*entities.CorrectionJob, error) {
	if cached, ok := s.statusCache.Get(ctx, statusKey(jobID)); ok {
		var job entities.CorrectionJob
		if err := json.Unmarshal([]byte(cached), &job); err == nil {
			if job.UserID != userID {
				return nil, apperrors.ErrPermissionDenied("access correction job")
			}
			return &job, nil
		}
	}

	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, apperrors.ErrPermissionDenied("access correction job")
	}
	if job.IsTerminal() {
		s.cacheStatus(ctx, job)
	}
	return job, nil
}

// GetDiff builds the reviewable diff for a completed job.
func (s *service) GetDiff(ctx context.Context, userID, jobID uuid.UUID) ([]textdiff.Segment, error) {
	job, err := s.GetStatus(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != entities.JobStatusCompleted || job.CorrectedContent == nil {
		return nil, apperrors.ErrInvalidState("get_diff", string(job.Status), string(entities.JobStatusCompleted))
	}

	transcript, err := s.transcriptRepo.FindByID(ctx, job.TranscriptID)
	if err != nil {
		return nil, err
	}
	return textdiff.Diff(transcript.Content, *job.CorrectedContent), nil
}

// Finalize appends the completed job's output to the revision ledger.
func (s *service) Finalize(ctx context.Context, userID, jobID uuid.UUID) (*entities.TranscriptRevision, error) {
	job, err := s.GetStatus(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	return s.ledger.Record(ctx, job)
}

func (s *service) ListByTranscript(ctx context.Context, userID, transcriptID uuid.UUID) ([]entities.CorrectionJob, error) {
	transcript, err := s.transcriptRepo.FindByID(ctx, transcriptID)
	if err != nil {
		return nil, err
	}
	if transcript.UserID != userID {
		return nil, apperrors.ErrPermissionDenied("access transcript")
	}
	return s.jobRepo.ListByTranscript(ctx, transcriptID)
}

func (s *service) SweepInterrupted(ctx context.Context) (int64, error) {
	count, err := s.jobRepo.FailInterrupted(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Warn("marked interrupted jobs as failed", zap.Int64("count", count))
	}
	return count, nil
}

func (s *service) cacheStatus(ctx context.Context, job *entities.CorrectionJob) {
	payload, err := json.Marshal(job)
	if err != nil {
		return
	}
	s.statusCache.Set(ctx, statusKey(job.ID), string(payload), statusCacheTTL)
}

func statusKey(jobID uuid.UUID) string {
	return "correction:job:" + jobID.String()
}
