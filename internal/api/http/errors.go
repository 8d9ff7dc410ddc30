package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
)

var statusByCode = map[string]int{
	"NOT_FOUND":    http.StatusNotFound,
	"FORBIDDEN":    http.StatusForbidden,
	"UNAUTHORIZED": http.StatusUnauthorized,
	"CONFLICT":     http.StatusConflict,
	"BAD_REQUEST":  http.StatusBadRequest,
	"INTERNAL":     http.StatusInternalServerError,
}

// RespondError writes the error envelope for err. Internal errors are logged
// and their message is not exposed.
func RespondError(c *gin.Context, operation string, err error) {
	code := apperr.Code(err)
	msg := err.Error()
	if code == "INTERNAL" {
		logging.FromContext(c.Request.Context()).LogError(operation, err)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(statusByCode[code], gin.H{"ok": false, "code": code, "error": msg})
}

// RespondBadRequest reports a request body or parameter that failed to bind.
func RespondBadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"ok": false, "code": "BAD_REQUEST", "error": msg})
}
