package handlers

import (
	"vaultpay/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.Service
}

func NewHealthHandler(db *gorm.DB, cacheService *cache.Service) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cacheService,
	}
}

// Check pings the database and cache. A dead database makes the service
// unavailable; a dead cache only degrades it, reads fall through to
// Postgres.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	httpStatus := fiber.StatusOK

	dbStatus := "connected"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "unreachable"
	} else if err := sqlDB.PingContext(c.Context()); err != nil {
		dbStatus = "unreachable"
	}
	if dbStatus != "connected" {
		status = "unavailable"
		httpStatus = fiber.StatusServiceUnavailable
	}

	cacheStatus := "connected"
	switch {
	case h.cache == nil:
		cacheStatus = "disabled"
	case h.cache.HealthCheck(c.Context()) != nil:
		cacheStatus = "unreachable"
		if status == "ok" {
			status = "degraded"
		}
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    cacheStatus,
		},
	})
}
