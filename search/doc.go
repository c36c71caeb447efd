// Package search implements the per-structure-type search strategies.
//
// Each adapter queries one slice of the capability catalog and emits
// candidates with a native score in its own scale: raw tag-intersection
// counts for keyword records, store relevance for description records,
// and cosine similarity for embedding records. Native scores are not
// comparable across adapters; the ranker normalizes them.
package search
