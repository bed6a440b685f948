package correction

import (
	"github.com/google/uuid"

	"github.com/proofline/proofline/internal/domain/entities"
	"github.com/proofline/proofline/internal/usecase/correction"
)

// SubmitCorrectionRequest starts a correction job against a transcript.
// WordListID selects the list's current version; WordListVersionID pins an
// explicit historical version and wins when both are set.
type SubmitCorrectionRequest struct {
	TranscriptID      uuid.UUID  `json:"transcript_id" validate:"required"`
	Mode              string     `json:"mode" validate:"required"`
	CustomPrompt      string     `json:"custom_prompt,omitempty"`
	Model             string     `json:"model,omitempty"`
	WordListID        *uuid.UUID `json:"wordlist_id,omitempty"`
	WordListVersionID *uuid.UUID `json:"wordlist_version_id,omitempty"`
}

// ToInput maps the request to the usecase input, applying the default model
// when the caller left it blank.
func (r *SubmitCorrectionRequest) ToInput(defaultModel string) correction.SubmitInput {
	model := r.Model
	if model == "" {
		model = defaultModel
	}
	return correction.SubmitInput{
		TranscriptID:      r.TranscriptID,
		Mode:              entities.ProcessingMode(r.Mode),
		CustomPrompt:      r.CustomPrompt,
		Model:             model,
		WordListID:        r.WordListID,
		WordListVersionID: r.WordListVersionID,
	}
}
