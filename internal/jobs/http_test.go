package jobs_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxbiz/biz-optimizer/internal/auth"
	authdomain "github.com/luxbiz/biz-optimizer/internal/auth/domain"
	"github.com/luxbiz/biz-optimizer/internal/jobs"
	"github.com/luxbiz/biz-optimizer/internal/jobs/jobstest"
)

func TestHTTPHandler_OwnerOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	q := jobstest.NewMemQueue(3)
	job, err := q.Enqueue(context.Background(), jobs.EnqueueParams{Type: "audit.score", UserID: 1, Payload: 1})
	require.NoError(t, err)

	serve := func(userID int64) *httptest.ResponseRecorder {
		r := gin.New()
		g := r.Group("/jobs", func(c *gin.Context) {
			c.Set(auth.CtxUser, &authdomain.User{ID: userID})
		})
		jobs.NewHTTPHandler(q).Register(g)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs/"+job.ID, nil))
		return w
	}

	w := serve(1)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"queued"`)

	w = serve(2)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
