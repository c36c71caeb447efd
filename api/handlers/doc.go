// Package handlers implements the AgentScout HTTP request handlers.
//
// All handlers follow the standard net/http interface and share one JSON
// response envelope (success + data + error + timestamp). Error codes map
// onto HTTP status codes in one place so transport concerns stay out of
// the engine packages.
package handlers
