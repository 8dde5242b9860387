package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/venturelens/diligence-api/internal/models"
)

// startupRepository implements StartupRepository
type startupRepository struct {
	db dbExecutor
}

// NewStartupRepository creates a new startup repository
func NewStartupRepository(db dbExecutor) StartupRepository {
	return &startupRepository{db: db}
}

const startupColumns = `id, startup_id, company_name, sector, raw_metrics, created_at, updated_at`

// GetByID retrieves a startup profile by internal ID
func (r *startupRepository) GetByID(id uuid.UUID) (*models.StartupProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM startups WHERE id = $1`, startupColumns)
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByStartupID retrieves a startup profile by its business key
func (r *startupRepository) GetByStartupID(startupID string) (*models.StartupProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM startups WHERE startup_id = $1`, startupColumns)
	return r.scanOne(r.db.QueryRow(query, startupID))
}

func (r *startupRepository) scanOne(row *sql.Row) (*models.StartupProfile, error) {
	profile := &models.StartupProfile{}
	err := row.Scan(
		&profile.ID, &profile.StartupID, &profile.CompanyName, &profile.Sector,
		&profile.RawMetrics, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get startup: %w", err)
	}
	return profile, nil
}

// Upsert inserts the profile or replaces the stored metrics for an existing
// startup_id. Resubmitting a questionnaire is the normal update path.
func (r *startupRepository) Upsert(profile *models.StartupProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	query := `
		INSERT INTO startups (id, startup_id, company_name, sector, raw_metrics, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (startup_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			sector = EXCLUDED.sector,
			raw_metrics = EXCLUDED.raw_metrics,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(query,
		profile.ID, profile.StartupID, profile.CompanyName, profile.Sector,
		profile.RawMetrics, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert startup: %w", err)
	}
	return nil
}

// Delete removes a startup profile by business key
func (r *startupRepository) Delete(startupID string) error {
	result, err := r.db.Exec(`DELETE FROM startups WHERE startup_id = $1`, startupID)
	if err != nil {
		return fmt.Errorf("failed to delete startup: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAll retrieves startup profiles matching the filters
func (r *startupRepository) GetAll(filters StartupFilters) ([]models.StartupProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM startups WHERE 1=1`, startupColumns)
	args := []interface{}{}
	argIdx := 1

	if filters.Sector != "" {
		query += fmt.Sprintf(" AND sector = $%d", argIdx)
		args = append(args, filters.Sector)
		argIdx++
	}
	if filters.UpdatedAfter != nil {
		query += fmt.Sprintf(" AND updated_at > $%d", argIdx)
		args = append(args, *filters.UpdatedAfter)
		argIdx++
	}

	query += " ORDER BY updated_at DESC"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filters.Limit)
		argIdx++
	}
	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query startups: %w", err)
	}
	defer rows.Close()

	var profiles []models.StartupProfile
	for rows.Next() {
		var p models.StartupProfile
		if err := rows.Scan(&p.ID, &p.StartupID, &p.CompanyName, &p.Sector,
			&p.RawMetrics, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan startup: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// GetAllStartupIDs retrieves every stored business key, for batch rescoring
func (r *startupRepository) GetAllStartupIDs() ([]string, error) {
	rows, err := r.db.Query(`SELECT startup_id FROM startups ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query startup ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan startup id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
