package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/shopupgh/shopup-api/internal/models"
)

// CampusRepository handles read access to campus reference data.
type CampusRepository struct {
	db *sqlx.DB
}

// NewCampusRepository creates a new CampusRepository.
func NewCampusRepository(db *sqlx.DB) *CampusRepository {
	return &CampusRepository{db: db}
}

// ListActive returns all active campuses ordered by name.
func (r *CampusRepository) ListActive() ([]models.Campus, error) {
	const q = `SELECT * FROM campuses WHERE is_active = true ORDER BY name`

	var campuses []models.Campus
	if err := r.db.Select(&campuses, q); err != nil {
		return nil, err
	}
	return campuses, nil
}
