package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shopupgh/shopup-api/internal/service"
	"github.com/shopupgh/shopup-api/internal/utils"
)

// ImageHandler serves signed image URLs for product photos.
type ImageHandler struct {
	signingService *service.SigningService
}

// NewImageHandler constructs an ImageHandler.
func NewImageHandler(signingService *service.SigningService) *ImageHandler {
	return &ImageHandler{signingService: signingService}
}

// SignImageURLs handles POST /v1/images/sign. The response is always a map
// of path to URL; paths that could not be signed are absent.
func (h *ImageHandler) SignImageURLs(c *gin.Context) {
	var req service.SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	urls, err := h.signingService.SignPaths(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Image URLs signed", gin.H{
		"map": urls,
	})
}
