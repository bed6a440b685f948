package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WordPair is one correction mapping: replace Incorrect with Correct
// wherever it appears.
type WordPair struct {
	Incorrect string `json:"incorrect"`
	Correct   string `json:"correct"`
}

// WordList is a named, versioned dictionary of term substitutions. Edits
// never touch an existing version: they append a WordListVersion and advance
// CurrentVersionID, so every prompt ever assembled stays reproducible.
type WordList struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_wordlists_user_name,priority:1"`

	Name        string `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_wordlists_user_name,priority:2"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	IsShared    bool   `json:"is_shared" gorm:"default:false;not null"`

	CurrentVersionID *uuid.UUID `json:"current_version_id,omitempty" gorm:"type:uuid"`

	// Usage tracking. TermUsage records when each incorrect term was last
	// serialized into a prompt; it drives most-recently-used truncation when
	// a list exceeds the per-prompt term cap.
	UsageCount int                                      `json:"usage_count" gorm:"type:integer;default:0;not null"`
	LastUsedAt *time.Time                               `json:"last_used_at,omitempty" gorm:"type:timestamp"`
	TermUsage  datatypes.JSONType[map[string]time.Time] `json:"-" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// WordListVersion is an immutable snapshot of a word list's terms. Rows are
// append-only; the owning list's CurrentVersionID points at the newest one.
type WordListVersion struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	WordListID uuid.UUID `json:"wordlist_id" gorm:"type:uuid;not null;index"`
	Version    int       `json:"version" gorm:"type:integer;not null"`

	Terms     datatypes.JSONType[[]WordPair] `json:"terms" gorm:"type:jsonb;not null"`
	TermCount int                            `json:"term_count" gorm:"type:integer;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// SharedWordList grants another user read access to a word list. Grants are
// read-only; CanEdit is reserved.
type SharedWordList struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	WordListID uuid.UUID `json:"wordlist_id" gorm:"column:wordlist_id;type:uuid;not null;uniqueIndex:idx_shared_wordlist_user,priority:1"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_shared_wordlist_user,priority:2"`
	CanEdit    bool      `json:"can_edit" gorm:"default:false;not null"`
	SharedAt   time.Time `json:"shared_at" gorm:"autoCreateTime"`
}

// NewSharedWordList records a read grant of wordListID to userID.
func NewSharedWordList(wordListID, userID uuid.UUID) *SharedWordList {
	return &SharedWordList{
		ID:         uuid.New(),
		WordListID: wordListID,
		UserID:     userID,
		SharedAt:   time.Now(),
	}
}

// NewWordList creates an empty word list owned by userID.
func NewWordList(userID uuid.UUID, name, description string) *WordList {
	return &WordList{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// NewWordListVersion validates terms and builds the next immutable version.
// Incorrect terms must be unique within a version (case-sensitive) and both
// sides of every pair must be non-empty.
func NewWordListVersion(wordListID uuid.UUID, version int, terms []WordPair) (*WordListVersion, error) {
	seen := make(map[string]struct{}, len(terms))
	for i, pair := range terms {
		if pair.Incorrect == "" || pair.Correct == "" {
			return nil, fmt.Errorf("term %d: both incorrect and correct values are required", i+1)
		}
		if _, dup := seen[pair.Incorrect]; dup {
			return nil, fmt.Errorf("term %d: duplicate incorrect term %q", i+1, pair.Incorrect)
		}
		seen[pair.Incorrect] = struct{}{}
	}
	return &WordListVersion{
		ID:         uuid.New(),
		WordListID: wordListID,
		Version:    version,
		Terms:      datatypes.NewJSONType(terms),
		TermCount:  len(terms),
		CreatedAt:  time.Now(),
	}, nil
}

// MarkUsed bumps usage counters and records prompt inclusion time for the
// given incorrect terms.
func (w *WordList) MarkUsed(included []WordPair, at time.Time) {
	w.UsageCount++
	w.LastUsedAt = &at
	usage := w.TermUsage.Data()
	if usage == nil {
		usage = make(map[string]time.Time, len(included))
	}
	for _, pair := range included {
		usage[pair.Incorrect] = at
	}
	w.TermUsage = datatypes.NewJSONType(usage)
	w.UpdatedAt = at
}

// TableName specifies the table name for GORM
func (WordList) TableName() string {
	return "wordlists"
}

// TableName specifies the table name for GORM
func (WordListVersion) TableName() string {
	return "wordlist_versions"
}

// TableName specifies the table name for GORM
func (SharedWordList) TableName() string {
	return "shared_wordlists"
}
