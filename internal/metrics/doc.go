// Package metrics provides internal Prometheus instrumentation for the
// discovery engine. This package is internal and should not be imported
// by external projects.
package metrics
