package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/agentscout/catalog"
	"github.com/BaSui01/agentscout/types"
)

func newCatalogHandler(t *testing.T) (*CatalogHandler, *catalog.MemoryStore) {
	t.Helper()
	store := catalog.NewMemoryStore(nil)
	return NewCatalogHandler(store, store, nil), store
}

func TestHandleUpsertAndGet(t *testing.T) {
	h, _ := newCatalogHandler(t)

	rec := httptest.NewRecorder()
	h.HandleUpsert(rec, httptest.NewRequest(http.MethodPost, "/api/v1/agents",
		strings.NewReader(`{"agent_id":"python-expert","structure_type":"keywords","tags":["python","django"]}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleGet(rec, httptest.NewRequest(http.MethodGet, "/api/v1/agents/get?agent_id=python-expert", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "django")
}

func TestHandleUpsert_InvalidStructureType(t *testing.T) {
	h, _ := newCatalogHandler(t)

	rec := httptest.NewRecorder()
	h.HandleUpsert(rec, httptest.NewRequest(http.MethodPost, "/api/v1/agents",
		strings.NewReader(`{"agent_id":"x","structure_type":"bogus"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpsert_MissingAgentID(t *testing.T) {
	h, _ := newCatalogHandler(t)

	rec := httptest.NewRecorder()
	h.HandleUpsert(rec, httptest.NewRequest(http.MethodPost, "/api/v1/agents",
		strings.NewReader(`{"structure_type":"keywords"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpsert_ReadOnly(t *testing.T) {
	store := catalog.NewMemoryStore(nil)
	h := NewCatalogHandler(store, nil, nil)

	rec := httptest.NewRecorder()
	h.HandleUpsert(rec, httptest.NewRequest(http.MethodPost, "/api/v1/agents",
		strings.NewReader(`{"agent_id":"x","structure_type":"keywords"}`)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleGet_NotFound(t *testing.T) {
	h, _ := newCatalogHandler(t)

	rec := httptest.NewRecorder()
	h.HandleGet(rec, httptest.NewRequest(http.MethodGet, "/api/v1/agents/get?agent_id=nobody", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestHandleCount(t *testing.T) {
	h, store := newCatalogHandler(t)
	require.NoError(t, store.Upsert(context.Background(), types.CapabilityRecord{
		AgentID:       "a",
		StructureType: types.StructureKeywords,
	}))

	rec := httptest.NewRecorder()
	h.HandleCount(rec, httptest.NewRequest(http.MethodGet, "/api/v1/agents/count", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
}
