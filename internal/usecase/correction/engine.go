package correction

import (
	"context"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	pkgai "github.com/proofline/proofline/pkg/ai"
	"github.com/proofline/proofline/pkg/jobcontext"
)

// EngineResult aggregates the outcome of a full correction run. Tokens are
// summed across every chunk request, retries included.
type EngineResult struct {
	Corrected        string
	PromptTokens     int
	CompletionTokens int
	Retries          int
}

// ChunkError reports which chunk sank the job. The run is all-or-nothing:
// one failed chunk fails the whole job and no partial output is kept.
type ChunkError struct {
	Index int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

// Engine sends chunks to the completion provider in order and joins the
// corrected pieces.
type Engine struct {
	completer   pkgai.Completer
	maxAttempts int
	logger      *zap.Logger

	// initialBackoff is the first retry delay; tests zero it out.
	initialBackoff time.Duration
}

func NewEngine(completer pkgai.Completer, maxAttempts int, logger *zap.Logger) *Engine {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Engine{
		completer:      completer,
		maxAttempts:    maxAttempts,
		logger:         logger,
		initialBackoff: 2 * time.Second,
	}
}

// Run corrects every chunk under the given instruction. Transient provider
// errors are retried with exponential backoff up to maxAttempts per chunk;
// the first chunk that still fails aborts the run with a ChunkError. On
// failure the partial token counts are still returned so the job keeps them
// for audit.
func (e *Engine) Run(ctx context.Context, instruction string, chunks []Chunk, model string) (EngineResult, error) {
	var (
		result EngineResult
		parts  = make([]string, 0, len(chunks))
	)

	for _, chunk := range chunks {
		chunkCtx := jobcontext.WithChunk(ctx, chunk.Index)
		attempt := 0

		call := func() error {
			attempt++
			completion, err := e.completer.Complete(
				jobcontext.WithAttempt(chunkCtx, attempt),
				instruction, chunk.Text, model,
			)
			if err != nil {
				if e.logger != nil {
					e.logger.Warn("chunk completion failed",
						zap.Int("chunk", chunk.Index),
						zap.Int("attempt", attempt),
						zap.Bool("transient", pkgai.IsTransient(err)),
						zap.Error(err),
					)
				}
				if !pkgai.IsTransient(err) {
					return backoff.Permanent(err)
				}
				return err
			}

			result.PromptTokens += completion.PromptTokens
			result.CompletionTokens += completion.CompletionTokens
			parts = append(parts, completion.Text)
			return nil
		}

		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = e.initialBackoff
		bo.MaxInterval = 10 * time.Second
		bo.MaxElapsedTime = 0 // attempts are the bound, not wall time

		policy := backoff.WithMaxRetries(backoff.WithContext(bo, chunkCtx), uint64(e.maxAttempts-1))
		if err := backoff.Retry(call, policy); err != nil {
			result.Retries += attempt - 1
			return result, &ChunkError{Index: chunk.Index, Err: err}
		}
		result.Retries += attempt - 1
	}

	result.Corrected = strings.Join(parts, "\n\n")
	return result, nil
}
