// Package analyzer converts free-text task descriptions into structured
// task profiles: task type, domain, complexity, ranked keywords, and
// required capabilities.
//
// The core path is pure heuristics over fixed pattern tables and performs
// no I/O. An optional Enricher collaborator can augment the profile with
// an external text-understanding service; enrichment failures are ignored
// and the heuristic profile is always returned.
package analyzer
