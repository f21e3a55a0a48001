package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopupgh/shopup-api/internal/middleware"
	"github.com/shopupgh/shopup-api/internal/service"
	"github.com/shopupgh/shopup-api/internal/utils"
)

// maxImageBytes bounds a single uploaded image.
const maxImageBytes = 5 << 20

// SellerProductHandler handles the seller-facing product lifecycle endpoints.
type SellerProductHandler struct {
	productService *service.ProductService
}

// NewSellerProductHandler constructs a SellerProductHandler.
func NewSellerProductHandler(productService *service.ProductService) *SellerProductHandler {
	return &SellerProductHandler{productService: productService}
}

type productRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	CampusID    *string  `json:"campusId"`
	PriceGHS    float64  `json:"priceGhs"`
	Status      string   `json:"status"`
	IsAvailable *bool    `json:"isAvailable"`
	ImageURLs   []string `json:"imageUrls"`
}

// Create handles POST /v1/seller/products.
func (h *SellerProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	product, err := h.productService.CreateProduct(middleware.SellerID(c), &service.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CampusID:    req.CampusID,
		PriceGHS:    req.PriceGHS,
		Status:      req.Status,
		IsAvailable: available,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 201, "Product created", gin.H{
		"product": product,
	})
}

// Get handles GET /v1/seller/products/:id.
func (h *SellerProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(middleware.SellerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Product retrieved", gin.H{
		"product": product,
	})
}

// Update handles PUT /v1/seller/products/:id.
func (h *SellerProductHandler) Update(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	product, err := h.productService.UpdateProduct(middleware.SellerID(c), c.Param("id"), &service.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CampusID:    req.CampusID,
		PriceGHS:    req.PriceGHS,
		Status:      req.Status,
		IsAvailable: available,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Product updated", gin.H{
		"product": product,
	})
}

// ListActive handles GET /v1/seller/products.
func (h *SellerProductHandler) ListActive(c *gin.Context) {
	products, err := h.productService.ListActive(middleware.SellerID(c), queryLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Products retrieved", gin.H{
		"products": products,
	})
}

// ListTrashed handles GET /v1/seller/products/trash.
func (h *SellerProductHandler) ListTrashed(c *gin.Context) {
	products, err := h.productService.ListTrashed(middleware.SellerID(c), queryLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Trashed products retrieved", gin.H{
		"products": products,
	})
}

// Publish handles POST /v1/seller/products/:id/publish.
func (h *SellerProductHandler) Publish(c *gin.Context) {
	if err := h.productService.Publish(middleware.SellerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product published", nil)
}

// Unpublish handles POST /v1/seller/products/:id/unpublish.
func (h *SellerProductHandler) Unpublish(c *gin.Context) {
	if err := h.productService.Unpublish(middleware.SellerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product unpublished", nil)
}

// SetAvailability handles PUT /v1/seller/products/:id/availability.
func (h *SellerProductHandler) SetAvailability(c *gin.Context) {
	var req struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.productService.ToggleAvailability(middleware.SellerID(c), c.Param("id"), *req.Available); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Availability updated", nil)
}

// SetCover handles PUT /v1/seller/products/:id/cover.
func (h *SellerProductHandler) SetCover(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.productService.SetCoverImage(middleware.SellerID(c), c.Param("id"), req.Path); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Cover image updated", nil)
}

// UploadImages handles POST /v1/seller/products/:id/images (multipart).
func (h *SellerProductHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid multipart form")
		return
	}

	fileHeaders := form.File["images"]
	if len(fileHeaders) == 0 {
		utils.Error(c, 400, "VALIDATION_ERROR", "No images provided")
		return
	}

	files := make([]service.UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if fh.Size > maxImageBytes {
			utils.Error(c, 400, "VALIDATION_ERROR", "Image exceeds the 5MB size limit")
			return
		}
		f, err := fh.Open()
		if err != nil {
			utils.Error(c, 400, "VALIDATION_ERROR", "Could not read uploaded file")
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > maxImageBytes {
			utils.Error(c, 400, "VALIDATION_ERROR", "Could not read uploaded file")
			return
		}
		files = append(files, service.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	product, err := h.productService.AttachImages(c.Request.Context(), middleware.SellerID(c), c.Param("id"), files)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Images uploaded", gin.H{
		"product": product,
	})
}

// SoftDelete handles DELETE /v1/seller/products/:id (moves to trash).
func (h *SellerProductHandler) SoftDelete(c *gin.Context) {
	if err := h.productService.SoftDelete(middleware.SellerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product moved to trash", nil)
}

// Restore handles POST /v1/seller/products/:id/restore.
func (h *SellerProductHandler) Restore(c *gin.Context) {
	if err := h.productService.Restore(middleware.SellerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product restored", nil)
}

// Purge handles DELETE /v1/seller/products/:id/permanent. The body must
// carry an explicit confirmation flag; without it nothing is deleted.
func (h *SellerProductHandler) Purge(c *gin.Context) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	// An absent or malformed body means no confirmation.
	_ = c.ShouldBindJSON(&req)

	err := h.productService.Purge(c.Request.Context(), middleware.SellerID(c), c.Param("id"), req.Confirm)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product deleted permanently", nil)
}

func queryLimit(c *gin.Context) int {
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 50
}
