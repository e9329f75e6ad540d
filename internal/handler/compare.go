package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/HassanAliMAli/you-trend/internal/middleware"
	"github.com/HassanAliMAli/you-trend/internal/model"
	"github.com/HassanAliMAli/you-trend/internal/service"
)

type CompareHandler struct {
	svc *service.CompareService
}

func NewCompareHandler(svc *service.CompareService) *CompareHandler {
	return &CompareHandler{svc: svc}
}

// Compare handles POST /api/compare
func (h *CompareHandler) Compare(c fiber.Ctx) error {
	var req model.CompareRequest
	if ok, err := bindRequest(c, &req, "niches"); !ok {
		return err
	}

	names := make([]string, 0, len(req.Niches))
	videos := 0
	for name, vs := range req.Niches {
		names = append(names, name)
		videos += len(vs)
	}
	if len(names) == 0 {
		return invalidField(c, "at least one niche is required")
	}
	if errMsg := middleware.ValidateNicheNames(names); errMsg != "" {
		return invalidField(c, errMsg)
	}

	var errMsg string
	if req.TopVideos, errMsg = middleware.ValidateTopN("topVideos", req.TopVideos, middleware.DefaultNicheTopN, middleware.MaxResultsLimit); errMsg != "" {
		return invalidField(c, errMsg)
	}
	if req.TopChannels, errMsg = middleware.ValidateTopN("topChannels", req.TopChannels, middleware.DefaultNicheTopN, middleware.MaxResultsLimit); errMsg != "" {
		return invalidField(c, errMsg)
	}
	if req.TopTopics, errMsg = middleware.ValidateTopN("topTopics", req.TopTopics, middleware.DefaultNicheTopN, middleware.MaxTopicsLimit); errMsg != "" {
		return invalidField(c, errMsg)
	}

	start := time.Now()
	cmp, hit, err := h.svc.Compare(c.Context(), req)
	if err != nil {
		return analysisFailed(c, err)
	}
	observeAnalysis("compare", start, hit, videos)

	return respond(c, "Niches compared", cmp, hit)
}
