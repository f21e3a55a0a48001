package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shopupgh/shopup-api/internal/models"
)

// SellerRepository handles data access for sellers.
type SellerRepository struct {
	db *sqlx.DB
}

// NewSellerRepository creates a new SellerRepository.
func NewSellerRepository(db *sqlx.DB) *SellerRepository {
	return &SellerRepository{db: db}
}

// Create inserts a new seller and fills store-assigned fields.
func (r *SellerRepository) Create(s *models.Seller) error {
	const q = `
        INSERT INTO sellers (name, email, password_hash, phone, campus_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, is_active, created_at, updated_at`

	return r.db.QueryRowx(q,
		s.Name,
		s.Email,
		s.PasswordHash,
		s.Phone,
		s.CampusID,
	).Scan(&s.ID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
}

// GetByEmail returns a seller by email.
func (r *SellerRepository) GetByEmail(email string) (*models.Seller, error) {
	const q = `SELECT * FROM sellers WHERE email = $1 LIMIT 1`

	var s models.Seller
	if err := r.db.Get(&s, q, email); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID returns a seller by id.
func (r *SellerRepository) GetByID(id string) (*models.Seller, error) {
	const q = `SELECT * FROM sellers WHERE id = $1 LIMIT 1`

	var s models.Seller
	if err := r.db.Get(&s, q, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (duplicate email on registration).
func IsUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
