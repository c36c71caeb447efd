// Package catalog defines the capability store contract and its
// implementations. The store is an opaque collaborator from the engine's
// perspective: search adapters only depend on the Store interface.
//
// Two implementations are provided: MemoryStore for tests and small
// deployments, and MongoStore backed by MongoDB's native text search,
// matching the document layout the discovery engine was designed against.
package catalog
