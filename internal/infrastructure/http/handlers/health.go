package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const probeTimeout = 3 * time.Second

// HealthHandler serves GET /health.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness answers as long as the process can serve requests.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Probe checks one backing service. A nil Check marks the service as not
// configured for this deployment.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthDependenciesHandler serves GET /health/ready.
type HealthDependenciesHandler struct {
	probes []Probe
}

// NewHealthDependenciesHandler probes the roster store and the idempotency
// cache. Either may be nil when the process runs without it.
func NewHealthDependenciesHandler(db *mongo.Database, rdb *redis.Client) *HealthDependenciesHandler {
	store := Probe{Name: "mongodb"}
	if db != nil {
		store.Check = func(ctx context.Context) error {
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		}
	}

	cache := Probe{Name: "redis"}
	if rdb != nil {
		cache.Check = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}

	return NewReadinessHandler(store, cache)
}

// NewReadinessHandler builds a readiness handler from arbitrary probes.
func NewReadinessHandler(probes ...Probe) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{probes: probes}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness reports 503 when any configured dependency fails its probe.
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	resp := readinessResponse{
		Status:       "ok",
		Dependencies: make(map[string]dependencyStatus, len(h.probes)),
	}
	code := http.StatusOK

	for _, p := range h.probes {
		if p.Check == nil {
			resp.Dependencies[p.Name] = dependencyStatus{Status: "disabled"}
			continue
		}
		if err := p.Check(ctx); err != nil {
			resp.Dependencies[p.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[p.Name] = dependencyStatus{Status: "ok"}
	}

	return c.JSON(code, resp)
}
