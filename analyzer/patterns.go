package analyzer

import (
	"regexp"

	"github.com/BaSui01/agentscout/types"
)

// taskPatternFamily scores one task type from its indicator patterns.
// Families are evaluated in declaration order so ties resolve
// deterministically.
type taskPatternFamily struct {
	taskType types.TaskType
	patterns []*regexp.Regexp
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

var taskPatternFamilies = []taskPatternFamily{
	{types.TaskTypeDataAnalysis, compileAll(
		`analyz(e|ing|sis)`, `data`, `statistics`, `chart`, `graph`,
		`report`, `dashboard`, `metrics`, `kpi`,
	)},
	{types.TaskTypeWebScraping, compileAll(
		`scrap(e|ing)`, `extract`, `crawl`, `fetch`, `website`,
		`html`, `parse`, `web`,
	)},
	{types.TaskTypeFileManagement, compileAll(
		`file`, `folder`, `directory`, `organize`, `manage`,
		`upload`, `download`, `storage`,
	)},
	{types.TaskTypeCommunication, compileAll(
		`email`, `message`, `send`, `notify`, `alert`,
		`slack`, `discord`, `teams`,
	)},
	{types.TaskTypeCodeGeneration, compileAll(
		`code`, `program`, `script`, `function`, `api`,
		`development`, `software`, `programming`,
	)},
	{types.TaskTypeResearch, compileAll(
		`research`, `search`, `find`, `lookup`, `investigate`,
		`study`, `explore`, `discover`,
	)},
	{types.TaskTypeAutomation, compileAll(
		`automat(e|ion)`, `workflow`, `process`, `schedule`,
		`trigger`, `batch`, `recurring`,
	)},
}

var (
	simpleIndicators = compileAll(
		`simple`, `basic`, `quick`, `easy`, `straightforward`,
	)
	complexIndicators = compileAll(
		`complex`, `advanced`, `sophisticated`, `comprehensive`,
		`detailed`, `multi-step`, `enterprise`,
	)
)

// domainEntry maps a domain name to its indicator patterns. First match
// in declaration order wins.
type domainEntry struct {
	domain   string
	patterns []*regexp.Regexp
}

var domainEntries = []domainEntry{
	{"finance", compileAll(`financial`, `banking`, `investment`, `trading`, `accounting`)},
	{"healthcare", compileAll(`medical`, `health`, `patient`, `hospital`, `clinical`)},
	{"technology", compileAll(`software`, `tech`, `programming`, `development`, `\bit\b`)},
	{"marketing", compileAll(`marketing`, `advertising`, `campaign`, `promotion`, `brand`)},
	{"education", compileAll(`education`, `learning`, `teaching`, `student`, `course`)},
	{"ecommerce", compileAll(`shop`, `store`, `product`, `order`, `payment`, `cart`)},
	{"logistics", compileAll(`shipping`, `delivery`, `transport`, `warehouse`, `supply`)},
}

// taskTypeCapabilities are the default capabilities implied by each task
// type, before pattern-detected tags are added.
var taskTypeCapabilities = map[types.TaskType][]string{
	types.TaskTypeDataAnalysis:   {"analytics", "visualization", "statistics", "reporting"},
	types.TaskTypeWebScraping:    {"web_access", "html_parsing", "data_extraction"},
	types.TaskTypeFileManagement: {"file_operations", "storage_access", "organization"},
	types.TaskTypeCommunication:  {"messaging", "notifications", "email"},
	types.TaskTypeCodeGeneration: {"programming", "code_review", "debugging"},
	types.TaskTypeResearch:       {"search", "information_gathering", "synthesis"},
	types.TaskTypeAutomation:     {"workflow_management", "scheduling", "integration"},
}

// capabilityEntry detects one additional capability tag.
type capabilityEntry struct {
	capability string
	patterns   []*regexp.Regexp
}

var capabilityEntries = []capabilityEntry{
	{"api_integration", compileAll(`api`, `integration`, `connect`, `webhook`)},
	{"database", compileAll(`database`, `sql`, `query`, `store`, `retrieve`)},
	{"machine_learning", compileAll(`\bml\b`, `machine learning`, `\bai\b`, `model`, `predict`)},
	{"image_processing", compileAll(`image`, `photo`, `picture`, `visual`, `ocr`)},
	{"document_processing", compileAll(`document`, `pdf`, `word`, `text`, `parse`)},
	{"real_time", compileAll(`real.?time`, `live`, `streaming`, `instant`)},
	{"security", compileAll(`secure`, `encrypt`, `auth`, `permission`, `access`)},
}

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "from": {}, "up": {},
	"about": {}, "into": {}, "through": {}, "during": {}, "before": {}, "after": {},
	"above": {}, "below": {}, "between": {}, "among": {}, "under": {}, "over": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {}, "will": {},
	"would": {}, "could": {}, "should": {}, "may": {}, "might": {}, "can": {},
	"must": {}, "shall": {}, "i": {}, "you": {}, "he": {}, "she": {}, "it": {},
	"we": {}, "they": {}, "me": {}, "him": {}, "her": {}, "us": {}, "them": {},
	"my": {}, "your": {}, "his": {}, "its": {}, "our": {}, "their": {},
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)
