package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/petminded/petcare-api/pkg/errors"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondWithError(c, err)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not exists", apperrors.NotExists("booking"), http.StatusNotFound},
		{"permission denied", apperrors.PermissionDenied(), http.StatusForbidden},
		{"already exists", apperrors.AlreadyExists("billing"), http.StatusConflict},
		{"conflict", apperrors.Conflict("booking"), http.StatusConflict},
		{"bad request", apperrors.BadRequest("invalid date", nil), http.StatusBadRequest},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := respond(t, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.status, body.Error.Code)
		})
	}
}

// Internal failures never echo the underlying error to the client.
func TestRespondWithErrorHidesInternals(t *testing.T) {
	_, body := respond(t, errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal server error", body.Error.Message)
}

func TestRespondWithSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithSuccess(c, gin.H{"booking_id": 7})

	assert.Equal(t, http.StatusOK, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
}
