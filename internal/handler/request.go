package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"github.com/HassanAliMAli/you-trend/internal/middleware"
	"github.com/HassanAliMAli/you-trend/internal/model"
)

// bindRequest decodes the JSON body into req after checking that every
// required key is present. On failure it writes the error response and
// returns ok=false.
func bindRequest(c fiber.Ctx, req any, required ...string) (bool, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil || raw == nil {
		return false, middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Request body must be a JSON object")
	}
	if msg := middleware.RequireFields(raw, required...); msg != "" {
		return false, middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELD", msg)
	}
	if err := c.Bind().JSON(req); err != nil {
		return false, middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	return true, nil
}

func invalidField(c fiber.Ctx, msg string) error {
	return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", msg)
}

// respond writes the success envelope and the X-Cache header.
func respond(c fiber.Ctx, message string, data any, cacheHit bool) error {
	if cacheHit {
		c.Set("X-Cache", "HIT")
	} else {
		c.Set("X-Cache", "MISS")
	}
	return c.JSON(model.Envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func analysisFailed(c fiber.Ctx, err error) error {
	middleware.Logger.Error().Err(err).Str("request_id", middleware.RequestID(c)).Str("path", c.Path()).Msg("analysis failed")
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to analyse request")
}
