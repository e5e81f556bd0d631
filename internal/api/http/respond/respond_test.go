package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/identity"
)

func init() { gin.SetMode(gin.TestMode) }

func run(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Fail(c, "test", err)
	return w
}

func TestFailMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("get: %w", repository.ErrNotFound), http.StatusNotFound, "not_found"},
		{repository.ErrUnknownProperty, http.StatusBadRequest, "unknown_property"},
		{identity.ErrInvalidCredentials, http.StatusUnauthorized, "unauthenticated"},
		{identity.ErrEmailExists, http.StatusConflict, "email_exists"},
		{fmt.Errorf("%w: model: boom", repository.ErrUpload), http.StatusInternalServerError, "upload_failed"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		w := run(tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["ok"])
		assert.Equal(t, tc.code, body["error"])
	}
}

func TestFailHidesInternalDetail(t *testing.T) {
	w := run(errors.New("dial tcp 10.0.0.3:6379: connection refused"))
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
}

func TestConfirmed(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/x", nil)
	assert.False(t, Confirmed(c))
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Contains(t, w.Body.String(), "confirmation_required")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/x?confirm=true", nil)
	assert.True(t, Confirmed(c))
}
