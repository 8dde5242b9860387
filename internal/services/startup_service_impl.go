package services

import (
	"fmt"

	"github.com/venturelens/diligence-api/internal/errors"
	"github.com/venturelens/diligence-api/internal/logger"
	"github.com/venturelens/diligence-api/internal/models"
	"github.com/venturelens/diligence-api/internal/repository"
	"github.com/venturelens/diligence-api/internal/scoring"
)

// startupServiceImpl implements StartupService
type startupServiceImpl struct {
	repos  *repository.Repositories
	logger logger.Logger
}

// newStartupService creates a new startup service implementation
func newStartupService(repos *repository.Repositories) StartupService {
	return &startupServiceImpl{
		repos:  repos,
		logger: logger.New("startups"),
	}
}

// SubmitMetrics validates and stores a questionnaire payload. The payload
// must normalize cleanly before anything is written, so the store never
// holds metrics the engine cannot score.
func (s *startupServiceImpl) SubmitMetrics(startupID string, raw models.RawMetrics) (*models.StartupProfile, error) {
	if raw == nil {
		return nil, errors.ValidationError("metrics payload is required", nil).WithField("metrics")
	}

	// The path parameter is authoritative for the business key.
	raw["startup_id"] = startupID

	record, err := scoring.Normalize(raw)
	if err != nil {
		return nil, err
	}

	profile := &models.StartupProfile{
		StartupID:   record.StartupID,
		CompanyName: record.CompanyName,
		Sector:      record.Sector,
		RawMetrics:  raw,
	}

	if err := s.repos.Startup.Upsert(profile); err != nil {
		s.logger.Error("Failed to store startup metrics", err, "startup_id", startupID)
		return nil, errors.DatabaseError("failed to store startup metrics", err).WithOperation("SubmitMetrics")
	}

	s.logger.Info("Stored questionnaire metrics", "startup_id", startupID, "company", record.CompanyName)
	return profile, nil
}

// Get retrieves a stored startup profile
func (s *startupServiceImpl) Get(startupID string) (*models.StartupProfile, error) {
	profile, err := s.repos.Startup.GetByStartupID(startupID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound(fmt.Sprintf("startup %q not found", startupID), err)
		}
		return nil, errors.DatabaseError("failed to get startup", err).WithOperation("Get")
	}
	return profile, nil
}

// GetAll retrieves startup profiles matching the filters
func (s *startupServiceImpl) GetAll(filters repository.StartupFilters) ([]models.StartupProfile, error) {
	profiles, err := s.repos.Startup.GetAll(filters)
	if err != nil {
		return nil, errors.DatabaseError("failed to list startups", err).WithOperation("GetAll")
	}
	return profiles, nil
}

// GetLatestScore retrieves the most recent score snapshot for a startup
func (s *startupServiceImpl) GetLatestScore(startupID string) (*models.ScoreSnapshot, error) {
	snapshot, err := s.repos.Score.GetLatestByStartup(startupID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound(fmt.Sprintf("no scores recorded for startup %q", startupID), err)
		}
		return nil, errors.DatabaseError("failed to get latest score", err).WithOperation("GetLatestScore")
	}
	return snapshot, nil
}

// GetScoreHistory retrieves score snapshots for a startup, newest first
func (s *startupServiceImpl) GetScoreHistory(startupID string, limit int) ([]models.ScoreSnapshot, error) {
	snapshots, err := s.repos.Score.GetHistoryByStartup(startupID, limit)
	if err != nil {
		return nil, errors.DatabaseError("failed to get score history", err).WithOperation("GetScoreHistory")
	}
	return snapshots, nil
}

// Delete removes a startup profile and its score history
func (s *startupServiceImpl) Delete(startupID string) error {
	// Remove score history and the profile together
	err := s.repos.Tx.WithTransaction(func(repos *repository.Repositories) error {
		if err := repos.Score.DeleteByStartup(startupID); err != nil {
			return err
		}
		return repos.Startup.Delete(startupID)
	})
	if err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFound(fmt.Sprintf("startup %q not found", startupID), err)
		}
		return errors.DatabaseError("failed to delete startup", err).WithOperation("Delete")
	}
	return nil
}
