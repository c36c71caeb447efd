// Package ranker normalizes search scores and ranks candidate agents
// against a task profile.
//
// Native scores arrive on three incompatible scales (match counts, text
// relevance, cosine similarity) and are first normalized to [0,1] per
// structure type. The combined score is a weighted sum of six factors;
// under the default weights only capability match contributes, the rest
// are computed for the breakdown and kept inert.
package ranker
