package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/discovery"
	"github.com/BaSui01/agentscout/types"
)

// DiscoveryService is the slice of the discovery engine the HTTP layer
// depends on.
type DiscoveryService interface {
	Discover(ctx context.Context, req discovery.Request) (*types.DiscoveryResult, error)
	SimilarAgents(ctx context.Context, agentID string, limit int) ([]types.AgentScore, error)
	UpdatePerformance(agentID string, m types.PerformanceMetrics)
}

// DiscoveryHandler serves the agent discovery endpoints.
type DiscoveryHandler struct {
	svc    DiscoveryService
	logger *zap.Logger
}

// NewDiscoveryHandler creates the discovery endpoint handler.
func NewDiscoveryHandler(svc DiscoveryService, logger *zap.Logger) *DiscoveryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscoveryHandler{
		svc:    svc,
		logger: logger.With(zap.String("component", "discovery_handler")),
	}
}

type discoverRequest struct {
	discovery.Request

	// Explain adds a human-readable report to the response.
	Explain bool `json:"explain,omitempty"`
}

type discoverResponse struct {
	*types.DiscoveryResult

	Report string `json:"report,omitempty"`
}

// HandleDiscover serves POST /api/v1/discover.
func (h *DiscoveryHandler) HandleDiscover(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost, h.logger) {
		return
	}

	var req discoverRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	result, err := h.svc.Discover(r.Context(), req.Request)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	resp := discoverResponse{DiscoveryResult: result}
	if req.Explain {
		resp.Report = discovery.Explain(result)
	}
	WriteSuccess(w, resp)
}

// HandleSimilar serves GET /api/v1/agents/similar?agent_id=...&limit=N.
func (h *DiscoveryHandler) HandleSimilar(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	agentID := r.URL.Query().Get("agent_id")
	if agentID == "" {
		WriteError(w, types.NewError(types.ErrInvalidRequest, "agent_id is required"), h.logger)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, types.NewError(types.ErrInvalidRequest, "limit must be an integer"), h.logger)
			return
		}
		limit = parsed
	}

	similar, err := h.svc.SimilarAgents(r.Context(), agentID, limit)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}
	WriteSuccess(w, map[string]interface{}{
		"agent_id": agentID,
		"similar":  similar,
	})
}

type performanceRequest struct {
	AgentID           string  `json:"agent_id"`
	SuccessRate       float64 `json:"success_rate"`
	AvgResponseTimeMS int64   `json:"avg_response_time_ms"`
	Reliability       float64 `json:"reliability"`
}

// HandlePerformance serves POST /api/v1/agents/performance.
func (h *DiscoveryHandler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost, h.logger) {
		return
	}

	var req performanceRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	if req.AgentID == "" {
		WriteError(w, types.NewError(types.ErrInvalidRequest, "agent_id is required"), h.logger)
		return
	}

	h.svc.UpdatePerformance(req.AgentID, types.PerformanceMetrics{
		SuccessRate:     req.SuccessRate,
		AvgResponseTime: time.Duration(req.AvgResponseTimeMS) * time.Millisecond,
		Reliability:     req.Reliability,
	})
	WriteSuccess(w, map[string]string{"agent_id": req.AgentID, "status": "recorded"})
}
