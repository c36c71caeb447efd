// Package api documents the AgentScout HTTP API.
//
// AgentScout exposes a small REST surface:
//   - POST /api/v1/discover: rank agents for a task description
//   - GET  /api/v1/agents/similar: find agents resembling a known one
//   - POST /api/v1/agents: upsert a capability record
//   - GET  /api/v1/agents/get: fetch a capability record
//   - POST /api/v1/agents/performance: record performance metrics
//   - GET  /health, /healthz, /ready: health and readiness probes
//
// Endpoints under /api/v1 require the X-API-Key header when API keys are
// configured. Health probes and /metrics are always unauthenticated.
package api
