package types

// TaskType classifies the primary intent of a task description.
type TaskType string

const (
	TaskTypeDataAnalysis   TaskType = "data_analysis"
	TaskTypeWebScraping    TaskType = "web_scraping"
	TaskTypeFileManagement TaskType = "file_management"
	TaskTypeCommunication  TaskType = "communication"
	TaskTypeCodeGeneration TaskType = "code_generation"
	TaskTypeResearch       TaskType = "research"
	TaskTypeAutomation     TaskType = "automation"
	// TaskTypeGeneral is used when no pattern family scores above zero.
	TaskTypeGeneral TaskType = "general"
)

// Complexity is the estimated effort class of a task.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// TaskProfile is the structured interpretation of a free-text task
// description. It is created once per discovery call and is immutable
// from the caller's perspective.
type TaskProfile struct {
	// TaskType is the highest-scoring pattern family.
	TaskType TaskType `json:"task_type"`

	// Complexity is simple, medium, or complex.
	Complexity Complexity `json:"complexity"`

	// Domain is the industry context (finance, healthcare, ...) or "general".
	Domain string `json:"domain"`

	// Keywords are frequency-ranked terms extracted from the text, top 10.
	Keywords []string `json:"keywords"`

	// RequiredCapabilities is the union of task-type defaults and
	// pattern-detected capability tags.
	RequiredCapabilities []string `json:"required_capabilities"`

	// Confidence estimates how reliable this profile is, in [0,1].
	Confidence float64 `json:"confidence"`

	// RawText is the original task description.
	RawText string `json:"raw_text"`
}
