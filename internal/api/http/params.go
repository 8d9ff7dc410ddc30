package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamID parses a positive numeric path parameter. On failure it writes a
// 400 response and returns false.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// QueryID parses an optional numeric query parameter; 0 means absent.
func QueryID(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		RespondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
