package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopupgh/shopup-api/internal/repository"
	"github.com/shopupgh/shopup-api/internal/service"
	"github.com/shopupgh/shopup-api/internal/utils"
)

// FeedHandler serves the public product feed and campus reference data.
type FeedHandler struct {
	productService *service.ProductService
	campusService  *service.CampusService
}

// NewFeedHandler constructs a FeedHandler.
func NewFeedHandler(productService *service.ProductService, campusService *service.CampusService) *FeedHandler {
	return &FeedHandler{productService: productService, campusService: campusService}
}

// GetFeed handles GET /v1/feed with optional campus and search filters.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	filter := &repository.FeedFilter{
		CampusID: c.Query("campus_id"),
		Search:   c.Query("search"),
		Page:     1,
		Limit:    50,
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	products, total, err := h.productService.PublicFeed(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	}, filter.Page, filter.Limit, total)
}

// GetCampuses handles GET /v1/campuses.
func (h *FeedHandler) GetCampuses(c *gin.Context) {
	campuses, err := h.campusService.ListCampuses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Campuses retrieved successfully", gin.H{
		"campuses": campuses,
	})
}
