package healthcase

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const StatusOpen = "open"

// HealthCase is one symptom episode reported by a user, optionally
// annotated with an AI analysis blob.
type HealthCase struct {
	ID         uuid.UUID        `json:"id"`
	UserID     uuid.UUID        `json:"user_id"`
	Symptoms   string           `json:"symptoms"`
	AIAnalysis *json.RawMessage `json:"ai_analysis,omitempty"`
	Severity   *string          `json:"severity,omitempty"`
	Category   *string          `json:"category,omitempty"`
	Status     string           `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type createRequest struct {
	Symptoms   string           `json:"symptoms"`
	AIAnalysis *json.RawMessage `json:"ai_analysis"`
	Severity   *string          `json:"severity"`
	Category   *string          `json:"category"`
}

// Patch carries the updatable subset of a case. Nil means "leave alone".
type Patch struct {
	Symptoms   *string          `json:"symptoms"`
	Severity   *string          `json:"severity"`
	Category   *string          `json:"category"`
	Status     *string          `json:"status"`
	AIAnalysis *json.RawMessage `json:"ai_analysis"`
}

func (p Patch) empty() bool {
	return p.Symptoms == nil && p.Severity == nil && p.Category == nil &&
		p.Status == nil && p.AIAnalysis == nil
}
