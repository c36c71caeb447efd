package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/BaSui01/agentscout/catalog"
	"github.com/BaSui01/agentscout/types"
)

// CatalogHandler serves capability record management endpoints.
type CatalogHandler struct {
	store  catalog.Store
	writer catalog.Writer
	logger *zap.Logger
}

// NewCatalogHandler creates the catalog endpoint handler. writer may be
// nil for read-only catalogs; upserts then return 403.
func NewCatalogHandler(store catalog.Store, writer catalog.Writer, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{
		store:  store,
		writer: writer,
		logger: logger.With(zap.String("component", "catalog_handler")),
	}
}

// HandleUpsert serves POST /api/v1/agents.
func (h *CatalogHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if h.writer == nil {
		WriteError(w, types.NewError(types.ErrForbidden, "catalog is read-only"), h.logger)
		return
	}

	var rec types.CapabilityRecord
	if err := DecodeJSONBody(w, r, &rec, h.logger); err != nil {
		return
	}
	if rec.AgentID == "" {
		WriteError(w, types.NewError(types.ErrInvalidRequest, "agent_id is required"), h.logger)
		return
	}
	if !rec.StructureType.Valid() {
		WriteError(w, types.NewError(types.ErrInvalidRequest, "unknown structure_type"), h.logger)
		return
	}

	if err := h.writer.Upsert(r.Context(), rec); err != nil {
		WriteError(w, err, h.logger)
		return
	}
	WriteSuccess(w, map[string]string{"agent_id": rec.AgentID, "status": "stored"})
}

// HandleGet serves GET /api/v1/agents/get?agent_id=...
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	agentID := r.URL.Query().Get("agent_id")
	if agentID == "" {
		WriteError(w, types.NewError(types.ErrInvalidRequest, "agent_id is required"), h.logger)
		return
	}

	rec, err := h.store.Get(r.Context(), agentID)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}
	if rec == nil {
		WriteError(w, types.NewError(types.ErrNotFound, "agent not found"), h.logger)
		return
	}
	WriteSuccess(w, rec)
}

// HandleCount serves GET /api/v1/agents/count.
func (h *CatalogHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, h.logger) {
		return
	}

	count, err := h.store.Count(r.Context())
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}
	WriteSuccess(w, map[string]int{"count": count})
}
