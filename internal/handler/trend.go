package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/HassanAliMAli/you-trend/internal/middleware"
	"github.com/HassanAliMAli/you-trend/internal/model"
	"github.com/HassanAliMAli/you-trend/internal/service"
)

type TrendHandler struct {
	svc *service.TrendService
}

func NewTrendHandler(svc *service.TrendService) *TrendHandler {
	return &TrendHandler{svc: svc}
}

// Videos handles POST /api/trends/videos
func (h *TrendHandler) Videos(c fiber.Ctx) error {
	var req model.TrendRequest
	if ok, err := bindRequest(c, &req, "videos"); !ok {
		return err
	}

	var errMsg string
	if req.MaxResults, errMsg = middleware.ValidateTopN("maxResults", req.MaxResults, middleware.DefaultMaxResults, middleware.MaxResultsLimit); errMsg != "" {
		return invalidField(c, errMsg)
	}
	if req.TopTopics, errMsg = middleware.ValidateTopN("topTopics", req.TopTopics, middleware.DefaultTopN, middleware.MaxTopicsLimit); errMsg != "" {
		return invalidField(c, errMsg)
	}
	if req.TopIdeas, errMsg = middleware.ValidateTopN("topIdeas", req.TopIdeas, middleware.DefaultTopN, middleware.MaxIdeasLimit); errMsg != "" {
		return invalidField(c, errMsg)
	}

	start := time.Now()
	report, hit, err := h.svc.AnalyzeVideos(c.Context(), req)
	if err != nil {
		return analysisFailed(c, err)
	}
	observeAnalysis("videos", start, hit, len(req.Videos))

	msg := "Video trends analysed"
	if report.TotalVideosAnalyzed == 0 {
		msg = "No videos to analyse"
	}
	return respond(c, msg, report, hit)
}

// Channels handles POST /api/trends/channels
func (h *TrendHandler) Channels(c fiber.Ctx) error {
	var req model.ChannelTrendRequest
	if ok, err := bindRequest(c, &req, "channels"); !ok {
		return err
	}

	var errMsg string
	if req.MaxResults, errMsg = middleware.ValidateTopN("maxResults", req.MaxResults, middleware.DefaultMaxResults, middleware.MaxResultsLimit); errMsg != "" {
		return invalidField(c, errMsg)
	}

	videos := 0
	for _, vs := range req.VideosByChannel {
		videos += len(vs)
	}

	start := time.Now()
	report, hit, err := h.svc.AnalyzeChannels(c.Context(), req)
	if err != nil {
		return analysisFailed(c, err)
	}
	observeAnalysis("channels", start, hit, videos)

	msg := "Channel trends analysed"
	if report.TotalChannelsAnalyzed == 0 {
		msg = "No channels to analyse"
	}
	return respond(c, msg, report, hit)
}

// Topics handles POST /api/topics
func (h *TrendHandler) Topics(c fiber.Ctx) error {
	var req model.TopicsRequest
	if ok, err := bindRequest(c, &req, "videos"); !ok {
		return err
	}

	var errMsg string
	if req.Limit, errMsg = middleware.ValidateTopN("limit", req.Limit, middleware.DefaultTopN, middleware.MaxTopicsLimit); errMsg != "" {
		return invalidField(c, errMsg)
	}

	start := time.Now()
	topics, hit, err := h.svc.ExtractTopics(c.Context(), req)
	if err != nil {
		return analysisFailed(c, err)
	}
	observeAnalysis("topics", start, hit, len(req.Videos))

	return respond(c, "Topics extracted", fiber.Map{
		"totalVideosAnalyzed": len(req.Videos),
		"topics":              topics,
	}, hit)
}
