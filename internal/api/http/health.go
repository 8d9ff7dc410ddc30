package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	depUp       = "up"
	depDown     = "down"
	depDisabled = "disabled"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
	Redis     string    `json:"redis,omitempty"`
}

type pingFunc func(ctx context.Context) error

// HealthHandler serves liveness on /healthz and dependency readiness on
// /health. Readiness answers 503 while Postgres or Redis is unreachable.
type HealthHandler struct {
	serviceName string
	version     string
	dbPing      pingFunc
	redisPing   pingFunc
	now         func() time.Time
}

func NewHealthHandler(serviceName, version string, db *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	h := &HealthHandler{serviceName: serviceName, version: version, now: time.Now}
	if db != nil {
		h.dbPing = db.Ping
	}
	if rdb != nil {
		h.redisPing = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return h
}

func probe(ctx context.Context, ping pingFunc) string {
	if ping == nil {
		return depDisabled
	}
	if err := ping(ctx); err != nil {
		return depDown
	}
	return depUp
}

func (h *HealthHandler) base(status string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Timestamp: h.now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
	}
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()

	resp := h.base("healthy")
	resp.DB = probe(ctx, h.dbPing)
	resp.Redis = probe(ctx, h.redisPing)

	code := http.StatusOK
	if resp.DB == depDown || resp.Redis == depDown {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// Liveness never touches dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, h.base("alive"))
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Readiness)
	r.GET("/healthz", h.Liveness)
}
