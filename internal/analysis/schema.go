package analysis

import (
	"encoding/json"
	"fmt"
)

// Risk severity levels as they appear in structured output. Persisted
// upper-cased and lower-cased again on read.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// BriefAnalysis is the structured breakdown a model must produce for a
// project brief. Field names and nesting match the output schema sent to the
// provider; every slice is order-significant and must survive a persistence
// round-trip unchanged.
type BriefAnalysis struct {
	ProjectSummary         ProjectSummary         `json:"projectSummary"`
	FunctionalRequirements FunctionalRequirements `json:"functionalRequirements"`
	MvpVsNiceToHave        MvpVsNiceToHave        `json:"mvpVsNiceToHave"`
	TechnicalStack         TechnicalStack         `json:"technicalStack"`
	RisksAndAssumptions    RisksAndAssumptions    `json:"risksAndAssumptions"`
	MissingInformation     MissingInformation     `json:"missingInformation"`
	RoughEstimation        RoughEstimation        `json:"roughEstimation"`
}

type ProjectSummary struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type FunctionalRequirements struct {
	Items []string `json:"items"`
}

type MvpVsNiceToHave struct {
	Mvp        []string `json:"mvp"`
	NiceToHave []string `json:"niceToHave"`
}

type TechnicalStack struct {
	Categories []TechStackCategory `json:"categories"`
}

type TechStackCategory struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

type RisksAndAssumptions struct {
	Risks       []Risk   `json:"risks"`
	Assumptions []string `json:"assumptions"`
}

type Risk struct {
	Level       string `json:"level"`
	Description string `json:"description"`
}

type MissingInformation struct {
	Questions []string `json:"questions"`
}

type RoughEstimation struct {
	Phases        []EstimationPhase `json:"phases"`
	TotalDuration string            `json:"totalDuration"`
	TotalEffort   string            `json:"totalEffort"`
	TeamSize      string            `json:"teamSize"`
	Caveats       []string          `json:"caveats"`
}

type EstimationPhase struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Effort   string `json:"effort"`
}

// Validate checks a decoded model response against the contract before any
// downstream component trusts it. Empty slices are fine; missing required
// scalars and out-of-range risk levels are not.
func (b *BriefAnalysis) Validate() error {
	if b.ProjectSummary.Title == "" {
		return fmt.Errorf("projectSummary.title is empty")
	}
	if b.ProjectSummary.Content == "" {
		return fmt.Errorf("projectSummary.content is empty")
	}
	for i, r := range b.RisksAndAssumptions.Risks {
		switch r.Level {
		case RiskLow, RiskMedium, RiskHigh:
		default:
			return fmt.Errorf("risks[%d].level %q is not one of low, medium, high", i, r.Level)
		}
		if r.Description == "" {
			return fmt.Errorf("risks[%d].description is empty", i)
		}
	}
	for i, c := range b.TechnicalStack.Categories {
		if c.Name == "" {
			return fmt.Errorf("technicalStack.categories[%d].name is empty", i)
		}
	}
	for i, p := range b.RoughEstimation.Phases {
		if p.Name == "" {
			return fmt.Errorf("roughEstimation.phases[%d].name is empty", i)
		}
	}
	if b.RoughEstimation.TotalDuration == "" {
		return fmt.Errorf("roughEstimation.totalDuration is empty")
	}
	if b.RoughEstimation.TotalEffort == "" {
		return fmt.Errorf("roughEstimation.totalEffort is empty")
	}
	if b.RoughEstimation.TeamSize == "" {
		return fmt.Errorf("roughEstimation.teamSize is empty")
	}
	return nil
}

// DecodeOutput parses a raw provider payload into a validated BriefAnalysis.
func DecodeOutput(raw []byte) (*BriefAnalysis, error) {
	var out BriefAnalysis
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode structured output: %w", err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("structured output does not match schema: %w", err)
	}
	return &out, nil
}

// OutputSchema returns the JSON Schema describing BriefAnalysis. Providers
// receive it to constrain decoding; additionalProperties is false throughout
// so models cannot smuggle extra fields past the contract.
func OutputSchema() json.RawMessage {
	return json.RawMessage(outputSchemaJSON)
}

const outputSchemaJSON = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["projectSummary", "functionalRequirements", "mvpVsNiceToHave", "technicalStack", "risksAndAssumptions", "missingInformation", "roughEstimation"],
  "properties": {
    "projectSummary": {
      "type": "object",
      "additionalProperties": false,
      "required": ["title", "content"],
      "properties": {
        "title": {"type": "string", "description": "A short project title inferred from the brief or taken from it directly"},
        "content": {"type": "string", "description": "A concise 2-4 paragraph summary identifying the core problem, target audience, and key business objectives"}
      }
    },
    "functionalRequirements": {
      "type": "object",
      "additionalProperties": false,
      "required": ["items"],
      "properties": {
        "items": {
          "type": "array",
          "items": {"type": "string", "description": "A self-contained functional requirement statement"},
          "description": "Every functional requirement extracted or reasonably inferred from the brief"
        }
      }
    },
    "mvpVsNiceToHave": {
      "type": "object",
      "additionalProperties": false,
      "required": ["mvp", "niceToHave"],
      "properties": {
        "mvp": {"type": "array", "items": {"type": "string"}, "description": "Minimum set of features needed to launch a usable first version"},
        "niceToHave": {"type": "array", "items": {"type": "string"}, "description": "Features that add value but can be deferred to later iterations"}
      }
    },
    "technicalStack": {
      "type": "object",
      "additionalProperties": false,
      "required": ["categories"],
      "properties": {
        "categories": {
          "type": "array",
          "items": {
            "type": "object",
            "additionalProperties": false,
            "required": ["name", "items"],
            "properties": {
              "name": {"type": "string", "description": "Category name (e.g., Frontend, Backend, Database, Infrastructure)"},
              "items": {"type": "array", "items": {"type": "string"}, "description": "Recommended technologies with brief justification"}
            }
          },
          "description": "Technology recommendations grouped by category, tailored to the project scale"
        }
      }
    },
    "risksAndAssumptions": {
      "type": "object",
      "additionalProperties": false,
      "required": ["risks", "assumptions"],
      "properties": {
        "risks": {
          "type": "array",
          "items": {
            "type": "object",
            "additionalProperties": false,
            "required": ["level", "description"],
            "properties": {
              "level": {"type": "string", "enum": ["high", "medium", "low"], "description": "Severity level of the risk"},
              "description": {"type": "string", "description": "Description of the risk (technical, timeline, or business)"}
            }
          }
        },
        "assumptions": {"type": "array", "items": {"type": "string"}, "description": "Assumptions about the project that, if wrong, could change the analysis"}
      }
    },
    "missingInformation": {
      "type": "object",
      "additionalProperties": false,
      "required": ["questions"],
      "properties": {
        "questions": {"type": "array", "items": {"type": "string"}, "description": "Questions or information gaps to clarify with the client before development"}
      }
    },
    "roughEstimation": {
      "type": "object",
      "additionalProperties": false,
      "required": ["phases", "totalDuration", "totalEffort", "teamSize", "caveats"],
      "properties": {
        "phases": {
          "type": "array",
          "items": {
            "type": "object",
            "additionalProperties": false,
            "required": ["name", "duration", "effort"],
            "properties": {
              "name": {"type": "string", "description": "Phase name"},
              "duration": {"type": "string", "description": "Duration estimate (e.g., \"2 weeks\")"},
              "effort": {"type": "string", "description": "Effort estimate in person-hours (e.g., \"40 hours\")"}
            }
          }
        },
        "totalDuration": {"type": "string", "description": "Overall duration estimate (e.g., \"16-18 weeks\")"},
        "totalEffort": {"type": "string", "description": "Overall effort estimate (e.g., \"600-700 hours\")"},
        "teamSize": {"type": "string", "description": "Recommended team composition (e.g., \"3-4 developers + 1 designer + 1 QA\")"},
        "caveats": {"type": "array", "items": {"type": "string"}, "description": "Important caveats about the estimation"}
      }
    }
  }
}`
