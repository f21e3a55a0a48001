package models

// Campus is read-only reference data used for feed filtering and as an
// optional product attribute. A product with no campus is visible across all
// campuses.
type Campus struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	City     string `db:"city" json:"city"`
	IsActive bool   `db:"is_active" json:"-"`
}
