package handler

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/shopupgh/shopup-api/internal/utils"
)

func recordError(t *testing.T, err error) (int, utils.Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, err)

	var body utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		code     string
	}{
		{"validation", utils.ErrValidation, 400, "VALIDATION_ERROR"},
		{"confirmation", utils.ErrConfirmationRequired, 400, "CONFIRMATION_REQUIRED"},
		{"authentication", utils.ErrAuthentication, 401, "AUTHENTICATION_ERROR"},
		{"credentials", utils.ErrInvalidCredentials, 401, "INVALID_CREDENTIALS"},
		{"not found", utils.ErrNotFound, 404, "NOT_FOUND"},
		{"email taken", utils.ErrEmailTaken, 409, "EMAIL_TAKEN"},
		{"upload", utils.ErrUpload, 502, "UPLOAD_ERROR"},
		{"store", utils.ErrStore, 500, "STORE_ERROR"},
		{"unknown", fmt.Errorf("pq: connection refused"), 500, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := recordError(t, tc.err)
			require.Equal(t, tc.status, status)
			require.False(t, body.Success)
			require.NotNil(t, body.Error)
			require.Equal(t, tc.code, body.Error.Code)
		})
	}
}

func TestRespondErrorKeepsValidationDetail(t *testing.T) {
	err := fmt.Errorf("%w: title is required", utils.ErrValidation)
	status, body := recordError(t, err)
	require.Equal(t, 400, status)
	require.Equal(t, "title is required", body.Error.Message)
}

func TestRespondErrorNeverLeaksInternalText(t *testing.T) {
	_, body := recordError(t, fmt.Errorf("pq: duplicate key value violates unique constraint"))
	require.NotContains(t, body.Error.Message, "pq:")
	require.NotContains(t, body.Message, "pq:")
}
