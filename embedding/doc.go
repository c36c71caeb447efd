// Package embedding provides the vector-generation backends used by the
// discovery engine and the preference-ordered fallback chain that makes
// them interchangeable.
//
// Backends implement the Provider interface. The Chain walks its providers
// in configured preference order, skipping disabled or unavailable ones,
// and cascades to the next provider when a call fails. A deterministic
// hash-derived provider is registered last by default so the chain never
// fully fails in practice.
//
// Construction is explicit: build a chain with NewChainBuilder and pass it
// to the components that need it. There is no global provider registry.
package embedding
