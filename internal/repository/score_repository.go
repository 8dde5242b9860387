package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/venturelens/diligence-api/internal/models"
)

// scoreRepository implements ScoreRepository
type scoreRepository struct {
	db dbExecutor
}

// NewScoreRepository creates a new score snapshot repository
func NewScoreRepository(db dbExecutor) ScoreRepository {
	return &scoreRepository{db: db}
}

// Store persists one scoring run
func (r *scoreRepository) Store(snapshot *models.ScoreSnapshot) error {
	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}
	if snapshot.ScoredAt.IsZero() {
		snapshot.ScoredAt = time.Now()
	}

	query := `
		INSERT INTO score_snapshots (
			id, startup_id, sub_scores, aggregate_score, recommendation,
			veto_reasons, risks, scored_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(query,
		snapshot.ID, snapshot.StartupID, snapshot.SubScores, snapshot.AggregateScore,
		snapshot.Recommendation, snapshot.VetoReasons, snapshot.Risks, snapshot.ScoredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store score snapshot: %w", err)
	}
	return nil
}

// GetLatestByStartup retrieves the most recent snapshot for a startup
func (r *scoreRepository) GetLatestByStartup(startupID string) (*models.ScoreSnapshot, error) {
	query := `
		SELECT id, startup_id, sub_scores, aggregate_score, recommendation,
			   veto_reasons, risks, scored_at
		FROM score_snapshots
		WHERE startup_id = $1
		ORDER BY scored_at DESC
		LIMIT 1
	`

	snapshot := &models.ScoreSnapshot{}
	err := r.db.QueryRow(query, startupID).Scan(
		&snapshot.ID, &snapshot.StartupID, &snapshot.SubScores, &snapshot.AggregateScore,
		&snapshot.Recommendation, &snapshot.VetoReasons, &snapshot.Risks, &snapshot.ScoredAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest score: %w", err)
	}
	return snapshot, nil
}

// GetHistoryByStartup retrieves snapshots for a startup, newest first
func (r *scoreRepository) GetHistoryByStartup(startupID string, limit int) ([]models.ScoreSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, startup_id, sub_scores, aggregate_score, recommendation,
			   veto_reasons, risks, scored_at
		FROM score_snapshots
		WHERE startup_id = $1
		ORDER BY scored_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, startupID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query score history: %w", err)
	}
	defer rows.Close()

	var snapshots []models.ScoreSnapshot
	for rows.Next() {
		var s models.ScoreSnapshot
		if err := rows.Scan(&s.ID, &s.StartupID, &s.SubScores, &s.AggregateScore,
			&s.Recommendation, &s.VetoReasons, &s.Risks, &s.ScoredAt); err != nil {
			return nil, fmt.Errorf("failed to scan score snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// DeleteByStartup removes all snapshots for a startup
func (r *scoreRepository) DeleteByStartup(startupID string) error {
	_, err := r.db.Exec(`DELETE FROM score_snapshots WHERE startup_id = $1`, startupID)
	if err != nil {
		return fmt.Errorf("failed to delete score snapshots: %w", err)
	}
	return nil
}
