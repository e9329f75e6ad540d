package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"github.com/HassanAliMAli/you-trend/internal/service"
)

// Version is reported by the readiness probe.
var Version = "dev"

type HealthHandler struct {
	engines *service.EngineRef
	rdb     *redis.Client
	startAt time.Time
}

// NewHealthHandler creates a HealthHandler. rdb may be nil when caching is disabled.
func NewHealthHandler(engines *service.EngineRef, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{
		engines: engines,
		rdb:     rdb,
		startAt: time.Now(),
	}
}

// Live handles GET /health/live (liveness probe).
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready (readiness probe). Without an engine the
// service is unavailable; a down cache only degrades it.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	engineCheck := checkEngine(h.engines)
	redisCheck := checkRedis(ctx, h.rdb)

	overallStatus, code := "healthy", fiber.StatusOK
	switch {
	case engineCheck["status"] != "up":
		overallStatus, code = "unhealthy", fiber.StatusServiceUnavailable
	case redisCheck["status"] == "down":
		overallStatus = "degraded"
	}

	return c.Status(code).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"engine": engineCheck,
			"redis":  redisCheck,
		},
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
		"version":        Version,
	})
}

func checkEngine(engines *service.EngineRef) fiber.Map {
	if engines == nil || engines.Load() == nil {
		return fiber.Map{"status": "down"}
	}
	return fiber.Map{
		"status":         "up",
		"topic_patterns": engines.Load().PatternCount(),
	}
}

func checkRedis(ctx context.Context, rdb *redis.Client) fiber.Map {
	if rdb == nil {
		return fiber.Map{"status": "disabled"}
	}

	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return fiber.Map{
			"status":     "down",
			"latency_ms": latency,
			"error":      "connection failed",
		}
	}
	return fiber.Map{
		"status":     "up",
		"latency_ms": latency,
	}
}
