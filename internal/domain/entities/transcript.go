package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Transcript is an uploaded meeting transcript. The raw content is immutable
// after creation; only the title may change. Corrected versions live in
// TranscriptRevision rows, never here.
type Transcript struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`

	Title            string `json:"title" gorm:"type:varchar(255);not null"`
	OriginalFilename string `json:"original_filename" gorm:"type:varchar(255)"`
	Content          string `json:"content" gorm:"type:text;not null"`

	// File metadata
	FileSize       int `json:"file_size" gorm:"type:integer;not null"`
	CharacterCount int `json:"character_count" gorm:"type:integer;not null"`
	WordCount      int `json:"word_count" gorm:"type:integer;not null"`

	IsProcessed bool `json:"is_processed" gorm:"default:false;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewTranscript creates a transcript and derives the content counts.
// Character count is in runes, matching how budgets are estimated.
func NewTranscript(userID uuid.UUID, title, filename, content string) *Transcript {
	return &Transcript{
		ID:               uuid.New(),
		UserID:           userID,
		Title:            title,
		OriginalFilename: filename,
		Content:          content,
		FileSize:         len(content),
		CharacterCount:   len([]rune(content)),
		WordCount:        len(strings.Fields(content)),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

// EstimatedTokens approximates the provider token count as
// max(character_count/4, word_count), floored. This is a heuristic, not a
// tokenizer; billing reconciliation uses the provider-reported usage.
func (t *Transcript) EstimatedTokens() int {
	return EstimateTokens(t.CharacterCount, t.WordCount)
}

// EstimateTokens is the shared token heuristic used by the transcript model
// and the chunker.
func EstimateTokens(characterCount, wordCount int) int {
	estimate := characterCount / 4
	if wordCount > estimate {
		estimate = wordCount
	}
	return estimate
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}
