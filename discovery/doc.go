// Package discovery orchestrates the full agent discovery pipeline:
// task analysis, per-structure search fan-out, filtering, ranking, and
// suggestion generation.
//
// The service is the composition root of the engine. Every collaborator
// is injected; the package holds no global state.
package discovery
