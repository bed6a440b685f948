package entities

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that owns transcripts, word lists and jobs.
// Authentication is handled by an external collaborator; this model only
// carries what the pipeline needs: identity and the API spend cap.
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email    string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name     string    `json:"name" gorm:"type:varchar(255);not null"`
	APIKey   string    `json:"-" gorm:"type:varchar(255);uniqueIndex;not null"`
	IsActive bool      `json:"is_active" gorm:"default:true;not null"`

	// API usage management
	APIUsageLimit float64 `json:"api_usage_limit" gorm:"type:numeric(10,4);not null;default:10.0"`
	TotalAPICost  float64 `json:"total_api_cost" gorm:"type:numeric(10,4);not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// RemainingBudget returns the unspent part of the user's API budget.
func (u *User) RemainingBudget() float64 {
	return u.APIUsageLimit - u.TotalAPICost
}

// CanSpend reports whether a new job may be started. The cap is inclusive:
// a user at or above the limit is rejected.
func (u *User) CanSpend() bool {
	return u.TotalAPICost < u.APIUsageLimit
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
