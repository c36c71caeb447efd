// Package types defines the shared data model for the discovery and
// ranking engine: task profiles produced by the analyzer, capability
// records held by the catalog, candidate records produced by the search
// adapters, ranked agent scores, and the unified error model used across
// all packages.
package types
