package http

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

	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
		msg    string
	}{
		{fmt.Errorf("company profile %w", apperr.ErrNotFound), http.StatusNotFound, "NOT_FOUND", "company profile not found"},
		{apperr.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "forbidden"},
		{fmt.Errorf("%w: cart is empty", apperr.ErrValidation), http.StatusBadRequest, "BAD_REQUEST", "validation failed: cart is empty"},
		{errors.New("redis: connection refused"), http.StatusInternalServerError, "INTERNAL", "internal error"},
	}

	for _, tc := range cases {
		rr := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rr)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		RespondError(c, "test", tc.err)

		assert.Equal(t, tc.status, rr.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, false, body["ok"])
		assert.Equal(t, tc.code, body["code"])
		assert.Equal(t, tc.msg, body["error"])
	}
}
