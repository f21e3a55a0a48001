package models

import (
	"time"

	"github.com/lib/pq"
)

// ProductStatus enumerates the publication states of a product.
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPublished ProductStatus = "published"
)

// DefaultCurrency is the fixed currency code products are priced in.
const DefaultCurrency = "GHS"

// Product represents a seller's listing.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID          string        `db:"id" json:"id"`
	SellerID    string        `db:"seller_id" json:"sellerId"`
	Title       string        `db:"title" json:"title"`
	Description *string       `db:"description" json:"description,omitempty"`
	Category    *string       `db:"category" json:"category,omitempty"`
	CampusID    *string       `db:"campus_id" json:"campusId,omitempty"`
	PriceGHS    float64       `db:"price_ghs" json:"priceGhs"`
	Currency    string        `db:"currency" json:"currency"`
	Status      ProductStatus `db:"status" json:"status"`
	IsAvailable bool          `db:"is_available" json:"isAvailable"`
	IsDeleted   bool          `db:"is_deleted" json:"isDeleted"`
	DeletedAt   *time.Time    `db:"deleted_at" json:"deletedAt,omitempty"`

	// ImagePaths are object-store keys owned exclusively by this product.
	// CoverImagePath, when set, is always one of them.
	ImagePaths     pq.StringArray `db:"image_paths" json:"imagePaths"`
	CoverImagePath *string        `db:"cover_image_path" json:"coverImagePath,omitempty"`
	// ImageURLs are legacy cached direct URLs; non-authoritative. Signed URLs
	// are always preferred for private buckets.
	ImageURLs pq.StringArray `db:"image_urls" json:"imageUrls,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Joined campus reference for feed/trash views.
	CampusName *string `db:"campus_name" json:"campusName,omitempty"`
	CampusCity *string `db:"campus_city" json:"campusCity,omitempty"`
}

// IsPubliclyVisible reports whether the product belongs in the public feed.
// PublicVisibilitySQL is the same predicate for persisted queries; the two
// definitions live side by side here and must never diverge.
func (p *Product) IsPubliclyVisible() bool {
	return p.Status == ProductStatusPublished && p.IsAvailable && !p.IsDeleted
}

// PublicVisibilitySQL is the SQL form of IsPubliclyVisible, against an
// aliased products table "p".
const PublicVisibilitySQL = `p.status = 'published' AND p.is_available = true AND p.is_deleted = false`
