package script

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Instructions maps each template to its system instruction
type Instructions map[Template]string

// DefaultInstructions returns the built-in system instructions
func DefaultInstructions() Instructions {
	return Instructions{
		TemplateBookPromo:       "You are a book marketing expert (KDP). Write engaging scripts for book trailers. Answer with JSON only.",
		TemplateAffiliateReview: "You are an affiliate marketing expert. Write persuasive product review scripts. Answer with JSON only.",
		TemplateTutorial:        "You are an expert teacher. Write clear step-by-step tutorial scripts. Answer with JSON only.",
		TemplateGeneral:         "You are an expert YouTube strategist. Write viral video scripts. Answer with JSON only.",
	}
}

// SeoInstruction is the system instruction for the SEO call
const SeoInstruction = "You are a YouTube SEO expert. Answer with JSON only."

// For returns the instruction for t, falling back to the general one
func (i Instructions) For(t Template) string {
	if text, ok := i[t]; ok && text != "" {
		return text
	}
	return DefaultInstructions()[TemplateGeneral]
}

// LoadInstructions reads a yaml file of template overrides on top of the defaults:
//
//	tutorial: "You are a patient teacher..."
func LoadInstructions(path string) (Instructions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read instructions file: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse instructions file: %w", err)
	}

	out := DefaultInstructions()
	for key, text := range overrides {
		t, err := ParseTemplate(key)
		if err != nil {
			return nil, fmt.Errorf("instructions file: %w", err)
		}
		out[t] = text
	}
	return out, nil
}

// Structured-output hints sent with each call, in the model's schema dialect
var (
	ScriptSchema = json.RawMessage(`{
		"type": "OBJECT",
		"properties": {
			"title": {"type": "STRING"},
			"estimatedTotalDuration": {"type": "STRING"},
			"tone": {"type": "STRING"},
			"sections": {
				"type": "ARRAY",
				"items": {
					"type": "OBJECT",
					"properties": {
						"title": {"type": "STRING"},
						"content": {"type": "STRING"},
						"visualCue": {"type": "STRING"},
						"duration": {"type": "STRING"}
					},
					"required": ["title", "content"]
				}
			}
		},
		"required": ["title", "estimatedTotalDuration", "tone", "sections"]
	}`)

	SeoSchema = json.RawMessage(`{
		"type": "OBJECT",
		"properties": {
			"optimizedTitles": {"type": "ARRAY", "items": {"type": "STRING"}},
			"description": {"type": "STRING"},
			"tags": {"type": "ARRAY", "items": {"type": "STRING"}},
			"hashtags": {"type": "ARRAY", "items": {"type": "STRING"}}
		},
		"required": ["optimizedTitles", "description", "tags", "hashtags"]
	}`)
)
