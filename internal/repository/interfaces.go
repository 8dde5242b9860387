package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/venturelens/diligence-api/internal/models"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// StartupRepository defines the interface for startup profile data access
type StartupRepository interface {
	// Basic CRUD operations
	GetByID(id uuid.UUID) (*models.StartupProfile, error)
	GetByStartupID(startupID string) (*models.StartupProfile, error)
	Upsert(profile *models.StartupProfile) error
	Delete(startupID string) error

	// Bulk operations
	GetAll(filters StartupFilters) ([]models.StartupProfile, error)
	GetAllStartupIDs() ([]string, error)
}

// ScoreRepository defines the interface for score snapshot data access
type ScoreRepository interface {
	Store(snapshot *models.ScoreSnapshot) error
	GetLatestByStartup(startupID string) (*models.ScoreSnapshot, error)
	GetHistoryByStartup(startupID string, limit int) ([]models.ScoreSnapshot, error)
	DeleteByStartup(startupID string) error
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	Startup StartupRepository
	Score   ScoreRepository
	Tx      TransactionManager
}

// StartupFilters defines filters for querying startup profiles
type StartupFilters struct {
	Sector       string
	UpdatedAfter *time.Time
	Limit        int
	Offset       int
}
