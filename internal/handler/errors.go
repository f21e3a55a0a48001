package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopupgh/shopup-api/internal/utils"
)

// respondError maps application errors to the response envelope. Unknown
// errors become an opaque 500; collaborator error text never reaches clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrValidation):
		utils.Error(c, 400, "VALIDATION_ERROR", validationMessage(err))
	case errors.Is(err, utils.ErrConfirmationRequired):
		utils.Error(c, 400, "CONFIRMATION_REQUIRED", "Permanent deletion requires explicit confirmation")
	case errors.Is(err, utils.ErrAuthentication):
		utils.Error(c, 401, "AUTHENTICATION_ERROR", "Could not resolve seller identity")
	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, utils.ErrNotFound):
		utils.Error(c, 404, "NOT_FOUND", "Product not found")
	case errors.Is(err, utils.ErrEmailTaken):
		utils.Error(c, 409, "EMAIL_TAKEN", "An account with this email already exists")
	case errors.Is(err, utils.ErrUpload):
		utils.Error(c, 502, "UPLOAD_ERROR", "Image upload failed")
	case errors.Is(err, utils.ErrStore):
		utils.Error(c, 500, "STORE_ERROR", "Something went wrong. Please try again.")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Something went wrong. Please try again.")
	}
}

// validationMessage keeps the human part of a wrapped validation error,
// dropping the sentinel prefix.
func validationMessage(err error) string {
	msg := err.Error()
	if _, after, found := strings.Cut(msg, ": "); found {
		return after
	}
	return "Invalid request"
}
