package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shopupgh/shopup-api/internal/models"
)

// ProductRepository handles data access for products. Every mutating query
// except Create is scoped by (id, seller_id) so ownership is enforced by the
// statement itself, not by application checks. Zero rows affected is reported
// as sql.ErrNoRows regardless of whether the row is missing, owned by another
// seller, or in the wrong lifecycle state; callers cannot tell these apart.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// campusJoin expands the optional campus reference for list views.
const campusJoin = `
        LEFT JOIN campuses c ON c.id = p.campus_id`

const productColumns = `p.*, c.name AS campus_name, c.city AS campus_city`

// Create inserts a new product and fills store-assigned fields.
func (r *ProductRepository) Create(p *models.Product) error {
	const q = `
        INSERT INTO products (seller_id, title, description, category, campus_id,
                              price_ghs, currency, status, is_available, image_paths, image_urls)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, is_deleted, created_at, updated_at`

	return r.db.QueryRowx(q,
		p.SellerID,
		p.Title,
		p.Description,
		p.Category,
		p.CampusID,
		p.PriceGHS,
		p.Currency,
		p.Status,
		p.IsAvailable,
		p.ImagePaths,
		p.ImageURLs,
	).Scan(&p.ID, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID returns a single product owned by the seller, deleted or not.
func (r *ProductRepository) GetByID(id, sellerID string) (*models.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products p` + campusJoin + `
        WHERE p.id = $1 AND p.seller_id = $2 LIMIT 1`

	var p models.Product
	if err := r.db.Get(&p, q, id, sellerID); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update overwrites the editable fields of an active product. Image paths are
// deliberately not part of this statement; they only grow via AppendImagePaths
// so an edit can never silently drop previously stored paths.
func (r *ProductRepository) Update(p *models.Product) error {
	const q = `
        UPDATE products
        SET title = $3, description = $4, category = $5, campus_id = $6,
            price_ghs = $7, status = $8, is_available = $9, updated_at = NOW()
        WHERE id = $1 AND seller_id = $2 AND is_deleted = false
        RETURNING updated_at`

	err := r.db.QueryRowx(q,
		p.ID,
		p.SellerID,
		p.Title,
		p.Description,
		p.Category,
		p.CampusID,
		p.PriceGHS,
		p.Status,
		p.IsAvailable,
	).Scan(&p.UpdatedAt)
	return err
}

// SetStatus publishes or unpublishes an active product.
func (r *ProductRepository) SetStatus(id, sellerID string, status models.ProductStatus) error {
	const q = `UPDATE products SET status = $3, updated_at = NOW()
        WHERE id = $1 AND seller_id = $2 AND is_deleted = false`
	return r.exec(q, id, sellerID, status)
}

// SetAvailability toggles the availability flag of an active product.
func (r *ProductRepository) SetAvailability(id, sellerID string, available bool) error {
	const q = `UPDATE products SET is_available = $3, updated_at = NOW()
        WHERE id = $1 AND seller_id = $2 AND is_deleted = false`
	return r.exec(q, id, sellerID, available)
}

// SetCoverImage sets the cover image. The predicate requires the path to be
// one of the product's stored image paths.
func (r *ProductRepository) SetCoverImage(id, sellerID, path string) error {
	const q = `UPDATE products SET cover_image_path = $3, updated_at = NOW()
        WHERE id = $1 AND seller_id = $2 AND is_deleted = false
        AND $3 = ANY(image_paths)`
	return r.exec(q, id, sellerID, path)
}

// AppendImagePaths appends newly uploaded object keys (and optional cached
// public URLs) to an active product. Existing paths are preserved; the cover
// is set to the first path when none was chosen before. Returns the updated
// path list and cover.
func (r *ProductRepository) AppendImagePaths(id, sellerID string, paths, urls []string) (*models.Product, error) {
	const q = `
        UPDATE products
        SET image_paths = image_paths || $3,
            image_urls = image_urls || $4,
            cover_image_path = COALESCE(cover_image_path, (image_paths || $3)[1]),
            updated_at = NOW()
        WHERE id = $1 AND seller_id = $2 AND is_deleted = false
        RETURNING *`

	var p models.Product
	err := r.db.Get(&p, q, id, sellerID, pq.StringArray(paths), pq.StringArray(urls))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SoftDelete moves an active product to the trash.
func (r *ProductRepository) SoftDelete(id, sellerID string) error {
	const q = `UPDATE products SET is_deleted = true, deleted_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND seller_id = $2 AND is_deleted = false`
	return r.exec(q, id, sellerID)
}

// Restore brings a trashed product back. Restoring a product that is not in
// the trash matches zero rows and fails; the no-op transition is rejected.
func (r *ProductRepository) Restore(id, sellerID string) error {
	const q = `UPDATE products SET is_deleted = false, deleted_at = NULL, updated_at = NOW()
        WHERE id = $1 AND seller_id = $2 AND is_deleted = true`
	return r.exec(q, id, sellerID)
}

// Purge permanently removes a trashed product and returns its image paths so
// the caller can cascade-delete the stored objects. Only rows already in the
// trash can be purged.
func (r *ProductRepository) Purge(id, sellerID string) ([]string, error) {
	const q = `DELETE FROM products
        WHERE id = $1 AND seller_id = $2 AND is_deleted = true
        RETURNING image_paths`

	var paths pq.StringArray
	if err := r.db.QueryRowx(q, id, sellerID).Scan(&paths); err != nil {
		return nil, err
	}
	return []string(paths), nil
}

// ListActive returns the seller's non-deleted products, newest first.
func (r *ProductRepository) ListActive(sellerID string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + productColumns + ` FROM products p` + campusJoin + `
        WHERE p.seller_id = $1 AND p.is_deleted = false
        ORDER BY p.created_at DESC LIMIT $2`

	var products []models.Product
	if err := r.db.Select(&products, q, sellerID, limit); err != nil {
		return nil, err
	}
	return products, nil
}

// ListTrashed returns the seller's trashed products, most recently deleted first.
func (r *ProductRepository) ListTrashed(sellerID string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + productColumns + ` FROM products p` + campusJoin + `
        WHERE p.seller_id = $1 AND p.is_deleted = true
        ORDER BY p.deleted_at DESC LIMIT $2`

	var products []models.Product
	if err := r.db.Select(&products, q, sellerID, limit); err != nil {
		return nil, err
	}
	return products, nil
}

// FeedFilter holds filters for the public feed query.
type FeedFilter struct {
	CampusID string
	Search   string
	Page     int
	Limit    int
}

// ListPublicFeed returns publicly visible products with pagination and total
// count. A campus filter matches the exact campus or a null (global) campus;
// search is a case-insensitive substring match on title or category.
func (r *ProductRepository) ListPublicFeed(filter *FeedFilter) ([]models.Product, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	offset := (filter.Page - 1) * filter.Limit

	baseWhere := `WHERE ` + models.PublicVisibilitySQL
	args := []interface{}{}
	argIdx := 1

	if filter.CampusID != "" {
		baseWhere += fmt.Sprintf(" AND (p.campus_id = $%d OR p.campus_id IS NULL)", argIdx)
		args = append(args, filter.CampusID)
		argIdx++
	}
	if filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (p.title ILIKE $%d OR p.category ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	countQuery := `SELECT COUNT(1) FROM products p ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`SELECT `+productColumns+` FROM products p`+campusJoin+`
        %s
        ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var products []models.Product
	if err := r.db.Select(&products, listQuery, args...); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// exec runs a scoped mutation and converts "zero rows affected" into
// sql.ErrNoRows.
func (r *ProductRepository) exec(query string, args ...interface{}) error {
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
