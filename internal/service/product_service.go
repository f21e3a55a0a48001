package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/shopupgh/shopup-api/internal/models"
	"github.com/shopupgh/shopup-api/internal/repository"
	"github.com/shopupgh/shopup-api/internal/utils"
)

// ProductStore is the data-layer contract the product lifecycle runs against.
// Implemented by repository.ProductRepository; mutations are ownership-scoped
// and report sql.ErrNoRows when nothing matched.
type ProductStore interface {
	Create(p *models.Product) error
	GetByID(id, sellerID string) (*models.Product, error)
	Update(p *models.Product) error
	SetStatus(id, sellerID string, status models.ProductStatus) error
	SetAvailability(id, sellerID string, available bool) error
	SetCoverImage(id, sellerID, path string) error
	AppendImagePaths(id, sellerID string, paths, urls []string) (*models.Product, error)
	SoftDelete(id, sellerID string) error
	Restore(id, sellerID string) error
	Purge(id, sellerID string) ([]string, error)
	ListActive(sellerID string, limit int) ([]models.Product, error)
	ListTrashed(sellerID string, limit int) ([]models.Product, error)
	ListPublicFeed(filter *repository.FeedFilter) ([]models.Product, int, error)
}

// ImageStore is the object-store contract used for image attachment and the
// purge cascade. Implemented by StorageService.
type ImageStore interface {
	UploadProductImages(ctx context.Context, sellerID, productID string, files []UploadFile) ([]string, error)
	DeleteObjects(ctx context.Context, keys []string) error
	PublicURL(key string) string
}

// ProductService implements the product lifecycle: create, edit,
// publish/unpublish, availability, cover selection, soft delete, restore and
// confirmed permanent deletion.
type ProductService struct {
	products ProductStore
	images   ImageStore
}

// NewProductService constructs a ProductService.
func NewProductService(products ProductStore, images ImageStore) *ProductService {
	return &ProductService{products: products, images: images}
}

// CreateProductInput carries the caller-editable fields for creation.
type CreateProductInput struct {
	Title       string
	Description *string
	Category    *string
	CampusID    *string
	PriceGHS    float64
	Status      string
	IsAvailable bool
	// ImageURLs is the optional legacy cache of direct URLs.
	ImageURLs []string
}

// UpdateProductInput carries the caller-editable fields for edits. Image
// paths are not editable here; they only change through AttachImages and
// SetCoverImage, so an edit can never drop stored paths.
type UpdateProductInput struct {
	Title       string
	Description *string
	Category    *string
	CampusID    *string
	PriceGHS    float64
	Status      string
	IsAvailable bool
}

// CreateProduct validates input and inserts a new product owned by the
// caller. The seller identity always comes from the resolved caller, never
// from the request body.
func (s *ProductService) CreateProduct(sellerID string, in *CreateProductInput) (*models.Product, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("%w: caller has no seller identity", utils.ErrAuthentication)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", utils.ErrValidation)
	}
	if err := validatePrice(in.PriceGHS); err != nil {
		return nil, err
	}
	status, err := parseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		SellerID:    sellerID,
		Title:       title,
		Description: in.Description,
		Category:    in.Category,
		CampusID:    in.CampusID,
		PriceGHS:    in.PriceGHS,
		Currency:    models.DefaultCurrency,
		Status:      status,
		IsAvailable: in.IsAvailable,
		ImagePaths:  []string{},
		ImageURLs:   in.ImageURLs,
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}

	if err := s.products.Create(p); err != nil {
		return nil, s.storeErr(err, "create product")
	}
	return p, nil
}

// GetProduct returns one of the caller's products, trashed or not.
func (s *ProductService) GetProduct(sellerID, id string) (*models.Product, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("%w: caller has no seller identity", utils.ErrAuthentication)
	}
	p, err := s.products.GetByID(id, sellerID)
	if err != nil {
		return nil, s.storeErr(err, "get product")
	}
	return p, nil
}

// UpdateProduct overwrites the editable fields of an active product.
func (s *ProductService) UpdateProduct(sellerID, id string, in *UpdateProductInput) (*models.Product, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("%w: caller has no seller identity", utils.ErrAuthentication)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", utils.ErrValidation)
	}
	if err := validatePrice(in.PriceGHS); err != nil {
		return nil, err
	}
	status, err := parseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		ID:          id,
		SellerID:    sellerID,
		Title:       title,
		Description: in.Description,
		Category:    in.Category,
		CampusID:    in.CampusID,
		PriceGHS:    in.PriceGHS,
		Status:      status,
		IsAvailable: in.IsAvailable,
	}
	if err := s.products.Update(p); err != nil {
		return nil, s.storeErr(err, "update product")
	}

	// Re-read for the full row (image paths, cover, campus join).
	full, err := s.products.GetByID(id, sellerID)
	if err != nil {
		return nil, s.storeErr(err, "reload product")
	}
	return full, nil
}

// Publish makes an active product publicly listable (visibility still gates
// on availability).
func (s *ProductService) Publish(sellerID, id string) error {
	return s.setStatus(sellerID, id, models.ProductStatusPublished)
}

// Unpublish returns an active product to draft.
func (s *ProductService) Unpublish(sellerID, id string) error {
	return s.setStatus(sellerID, id, models.ProductStatusDraft)
}

func (s *ProductService) setStatus(sellerID, id string, status models.ProductStatus) error {
	if sellerID == "" {
		return fmt.Errorf("%w: caller has no seller identity", utils.ErrAuthentication)
	}
	if err := s.products.SetStatus(id, sellerID, status); err != nil {
		return s.storeErr(err, "set status")
	}
	return nil
}

// ToggleAvailability sets the availability flag of an active product.
func (s *ProductService) ToggleAvailability(sellerID, id string, available bool) error {
	if sellerID == "" {
		return fmt.Errorf("%w: caller has no seller identity", utils.ErrAuthentication)
	}
	if err := s.products.SetAvailability(id, sellerID, available); err != nil {
		return s.storeErr(err, "toggle availability")
	}
	return nil
}

// SetCoverImage selects the cover image. The path must be one of the
// product's stored image paths; anything else is a validation failure, while
// a product that is missing, foreign or trashed stays a not-found.
func (s *ProductService) SetCoverImage(sellerID, id, path string) error {
	if sellerID == "" {
		return fmt.Errorf("%w: caller has no seller identity", utils.ErrAuthentication)
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: cover path is required", utils.ErrValidation)
	}

	p, err := s.products.GetByID(id, sellerID)
	if err != nil {
		return s.storeErr(err, "get product for cover")
	}
	if p.IsDeleted {
		return utils.ErrNotFound
	}
	if !containsPath(p.ImagePaths, path) {
		return fmt.Errorf("%w: cover path is not one of the product's images", utils.ErrValidation)
	}

	if err := s.products.SetCoverImage(id, sellerID, path); err != nil {
		return s.storeErr(err, "set cover image")
	}
	return nil
}

// AttachImages uploads a batch of files for an active product and appends the
// allocated keys to its image paths. Previously stored keys are always
// preserved; the first path becomes the cover when none was chosen yet.
func (s *ProductService) AttachImages(ctx context.Context, sellerID, id string, files []UploadFile) (*models.Product, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("%w: caller has no seller identity", utils.ErrAuthentication)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", utils.ErrValidation)
	}

	// Reject early so nothing is uploaded for a foreign or trashed product.
	p, err := s.products.GetByID(id, sellerID)
	if err != nil {
		return nil, s.storeErr(err, "get product for images")
	}
	if p.IsDeleted {
		return nil, utils.ErrNotFound
	}

	paths, err := s.images.UploadProductImages(ctx, sellerID, id, files)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(paths))
	for _, path := range paths {
		urls = append(urls, s.images.PublicURL(path))
	}

	updated, err := s.products.AppendImagePaths(id, sellerID, paths, urls)
	if err != nil {
		// The row vanished between the check and the append; do not leak the
		// uploaded objects.
		if delErr := s.images.DeleteObjects(ctx, paths); delErr != nil {
			log.Warn().Err(delErr).Strs("keys", paths).Msg("cleanup of uploaded images failed, objects orphaned")
		}
		return nil, s.storeErr(err, "append image paths")
	}
	return updated, nil
}

// SoftDelete moves an active product to the trash.
func (s *ProductService) SoftDelete(sellerID, id string) error {
	if sellerID == "" {
		return fmt.Errorf("%w: caller has no seller identity", utils.ErrAuthentication)
	}
	if err := s.products.SoftDelete(id, sellerID); err != nil {
		return s.storeErr(err, "soft delete")
	}
	return nil
}

// Restore brings a trashed product back. Restoring a product that is not
// trashed is rejected, not silently accepted.
func (s *ProductService) Restore(sellerID, id string) error {
	if sellerID == "" {
		return fmt.Errorf("%w: caller has no seller identity", utils.ErrAuthentication)
	}
	if err := s.products.Restore(id, sellerID); err != nil {
		return s.storeErr(err, "restore")
	}
	return nil
}

// Purge permanently removes a trashed product. Without confirm the store is
// never touched. After the row is gone its stored images are deleted
// best-effort; a storage failure is logged, not surfaced, since the row
// removal is already durable.
func (s *ProductService) Purge(ctx context.Context, sellerID, id string, confirm bool) error {
	if sellerID == "" {
		return fmt.Errorf("%w: caller has no seller identity", utils.ErrAuthentication)
	}
	if !confirm {
		return fmt.Errorf("%w: permanent deletion requires confirmation", utils.ErrConfirmationRequired)
	}

	paths, err := s.products.Purge(id, sellerID)
	if err != nil {
		return s.storeErr(err, "purge")
	}

	if len(paths) > 0 {
		if err := s.images.DeleteObjects(ctx, paths); err != nil {
			log.Warn().Err(err).Str("product_id", id).Strs("keys", paths).
				Msg("purge image cascade failed, objects orphaned")
		}
	}

	log.Info().Str("product_id", id).Str("seller_id", sellerID).Msg("product purged")
	return nil
}

// ListActive returns the caller's non-deleted products.
func (s *ProductService) ListActive(sellerID string, limit int) ([]models.Product, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("%w: caller has no seller identity", utils.ErrAuthentication)
	}
	products, err := s.products.ListActive(sellerID, limit)
	if err != nil {
		return nil, s.storeErr(err, "list active")
	}
	return products, nil
}

// ListTrashed returns the caller's trashed products.
func (s *ProductService) ListTrashed(sellerID string, limit int) ([]models.Product, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("%w: caller has no seller identity", utils.ErrAuthentication)
	}
	products, err := s.products.ListTrashed(sellerID, limit)
	if err != nil {
		return nil, s.storeErr(err, "list trashed")
	}
	return products, nil
}

// PublicFeed returns publicly visible products for anyone, with campus and
// free-text filters.
func (s *ProductService) PublicFeed(filter *repository.FeedFilter) ([]models.Product, int, error) {
	products, total, err := s.products.ListPublicFeed(filter)
	if err != nil {
		return nil, 0, s.storeErr(err, "public feed")
	}
	return products, total, nil
}

// storeErr maps data-layer failures to the public taxonomy. Zero matched
// rows becomes NOT_FOUND (missing, foreign and wrong-state rows are
// indistinguishable on purpose); everything else is an opaque STORE_ERROR
// with the cause logged, never forwarded.
func (s *ProductService) storeErr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrNotFound
	}
	log.Error().Err(err).Str("op", op).Msg("product store call failed")
	return utils.ErrStore
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return fmt.Errorf("%w: price must be a finite non-negative number", utils.ErrValidation)
	}
	return nil
}

func parseStatus(raw string) (models.ProductStatus, error) {
	switch models.ProductStatus(raw) {
	case "":
		return models.ProductStatusDraft, nil
	case models.ProductStatusDraft, models.ProductStatusPublished:
		return models.ProductStatus(raw), nil
	default:
		return "", fmt.Errorf("%w: status must be draft or published", utils.ErrValidation)
	}
}

func containsPath(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}
