package types

import "time"

// StructureType identifies how an agent's capabilities are represented
// in the catalog. Native scores are never comparable across structure
// types; they must pass through structure-specific normalization first.
type StructureType string

const (
	// StructureKeywords marks records whose capabilities are a tag list.
	StructureKeywords StructureType = "keywords"
	// StructureDescription marks records whose capabilities are free text.
	StructureDescription StructureType = "description"
	// StructureEmbedding marks records whose capabilities are a dense vector.
	StructureEmbedding StructureType = "embedding"
)

// Valid reports whether the structure type is one of the known variants.
func (s StructureType) Valid() bool {
	switch s {
	case StructureKeywords, StructureDescription, StructureEmbedding:
		return true
	}
	return false
}

// AllStructureTypes lists the known structure types in query order.
func AllStructureTypes() []StructureType {
	return []StructureType{StructureKeywords, StructureDescription, StructureEmbedding}
}

// CapabilityRecord is an agent's declared capabilities as stored in the
// catalog. Exactly one variant is populated per record, indicated by
// StructureType; the remaining variant fields are zero. Records are owned
// by the capability store and read-only to this engine.
type CapabilityRecord struct {
	AgentID       string        `json:"agent_id" bson:"agent_id"`
	Name          string        `json:"name,omitempty" bson:"agent_name,omitempty"`
	StructureType StructureType `json:"structure_type" bson:"structure_type"`

	// Keyword variant.
	Tags []string `json:"tags,omitempty" bson:"tags,omitempty"`

	// Text variant.
	Description string `json:"description,omitempty" bson:"description,omitempty"`

	// Embedding variant.
	Vector    []float64 `json:"vector,omitempty" bson:"vector,omitempty"`
	Dimension int       `json:"dimension,omitempty" bson:"dimension,omitempty"`
	ModelID   string    `json:"model_id,omitempty" bson:"model_id,omitempty"`

	// Shared metadata used by the ranker. All optional.
	Domain         string    `json:"domain,omitempty" bson:"domain,omitempty"`
	Specialization string    `json:"specialization,omitempty" bson:"specialization,omitempty"`
	Status         string    `json:"status,omitempty" bson:"status,omitempty"`
	LastSeen       time.Time `json:"last_seen,omitempty" bson:"last_seen,omitempty"`
	CurrentLoad    float64   `json:"current_load,omitempty" bson:"current_load,omitempty"`

	// Experience is a secondary ordering key for keyword search ties.
	Experience float64 `json:"experience,omitempty" bson:"experience,omitempty"`
}

// CandidateRecord is a search hit before ranking. NativeScore is in the
// producing adapter's own scale: raw intersection count for keywords,
// store relevance for description, cosine similarity for embedding.
type CandidateRecord struct {
	AgentID       string           `json:"agent_id"`
	StructureType StructureType    `json:"structure_type"`
	NativeScore   float64          `json:"native_score"`
	HasScore      bool             `json:"has_score"`
	Record        CapabilityRecord `json:"record"`
}
