package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StartupProfile represents a stored startup and its most recent raw
// questionnaire submission. The raw metrics are kept verbatim so the
// startup can be rescored whenever curves or personas change.
type StartupProfile struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	StartupID   string     `json:"startup_id" db:"startup_id"`
	CompanyName string     `json:"company_name" db:"company_name"`
	Sector      string     `json:"sector" db:"sector"`
	RawMetrics  RawMetrics `json:"raw_metrics" db:"raw_metrics"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// RawMetrics is the questionnaire payload stored as JSONB
type RawMetrics map[string]interface{}

// Value implements driver.Valuer for RawMetrics
func (m RawMetrics) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for RawMetrics
func (m *RawMetrics) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into RawMetrics", value)
	}
	return json.Unmarshal(bytes, m)
}

// ScoreSnapshot represents one persisted scoring run for a startup. The
// score columns are derived data: the source of truth is always the raw
// metrics plus the engine version that scored them.
type ScoreSnapshot struct {
	ID             uuid.UUID `json:"id" db:"id"`
	StartupID      string    `json:"startup_id" db:"startup_id"`
	SubScores      JSONText  `json:"sub_scores" db:"sub_scores"`
	AggregateScore float64   `json:"aggregate_score" db:"aggregate_score"`
	Recommendation string    `json:"recommendation" db:"recommendation"`
	VetoReasons    JSONText  `json:"veto_reasons" db:"veto_reasons"`
	Risks          JSONText  `json:"risks" db:"risks"`
	ScoredAt       time.Time `json:"scored_at" db:"scored_at"`
}

// JSONText stores pre-marshaled JSON in a JSONB column without forcing a
// concrete shape on the repository layer.
type JSONText []byte

// Value implements driver.Valuer for JSONText
func (j JSONText) Value() (driver.Value, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner for JSONText
func (j *JSONText) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into JSONText", value)
	}
	*j = append((*j)[:0], bytes...)
	return nil
}

// MarshalJSON emits the stored JSON verbatim
func (j JSONText) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON stores the raw JSON verbatim
func (j *JSONText) UnmarshalJSON(data []byte) error {
	*j = append((*j)[:0], data...)
	return nil
}
