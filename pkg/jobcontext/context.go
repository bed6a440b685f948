package jobcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

var (
	keyJobID      contextKey = "job_id"
	keyMode       contextKey = "mode"
	keyChunkIndex contextKey = "chunk_index"
	keyAttempt    contextKey = "attempt"
	keyStartTime  contextKey = "start_time"
)

// Metadata describes the correction job a context belongs to. Handlers and
// loggers read it back when reporting progress or failures.
type Metadata struct {
	JobID      uuid.UUID
	Mode       string
	ChunkIndex int
	Attempt    int
	StartTime  time.Time
}

// Begin derives a context for one correction job run. The timeout bounds the
// whole job, including every chunk call and its retries.
func Begin(parent context.Context, jobID uuid.UUID, mode string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)

	ctx = context.WithValue(ctx, keyJobID, jobID)
	ctx = context.WithValue(ctx, keyMode, mode)
	ctx = context.WithValue(ctx, keyChunkIndex, 0)
	ctx = context.WithValue(ctx, keyAttempt, 0)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())

	return ctx, cancel
}

// WithChunk marks the chunk currently being processed.
func WithChunk(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, keyChunkIndex, index)
}

// WithAttempt marks the retry attempt for the current chunk.
func WithAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, keyAttempt, attempt)
}

// JobID extracts the job ID from context.
func JobID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyJobID).(uuid.UUID)
	return id, ok
}

// Mode extracts the processing mode from context.
func Mode(ctx context.Context) string {
	mode, _ := ctx.Value(keyMode).(string)
	return mode
}

// ChunkIndex extracts the current chunk index from context.
func ChunkIndex(ctx context.Context) int {
	index, ok := ctx.Value(keyChunkIndex).(int)
	if !ok {
		return -1
	}
	return index
}

// Attempt extracts the current retry attempt from context.
func Attempt(ctx context.Context) int {
	attempt, _ := ctx.Value(keyAttempt).(int)
	return attempt
}

// Elapsed reports how long the job has been running. Zero when the context
// was not started through Begin.
func Elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(keyStartTime).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(start)
}

// Get extracts all job metadata from context.
func Get(ctx context.Context) Metadata {
	id, _ := JobID(ctx)
	start, _ := ctx.Value(keyStartTime).(time.Time)

	return Metadata{
		JobID:      id,
		Mode:       Mode(ctx),
		ChunkIndex: ChunkIndex(ctx),
		Attempt:    Attempt(ctx),
		StartTime:  start,
	}
}
