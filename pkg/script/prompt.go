package script

import (
	"fmt"
	"strings"
)

// SeoContextLimit is how many characters of script text feed the SEO prompt
const SeoContextLimit = 1000

// PromptBuilder assembles a user prompt from an intro, ordered facts and a JSON shape
type PromptBuilder struct {
	intro   string
	facts   [][2]string
	context []string
	shape   string
}

// NewPromptBuilder creates a new prompt builder with an opening line
func NewPromptBuilder(intro string) *PromptBuilder {
	return &PromptBuilder{intro: intro}
}

// AddFact adds a "- key: value" line; empty values are skipped
func (pb *PromptBuilder) AddFact(key, value string) *PromptBuilder {
	if strings.TrimSpace(value) != "" {
		pb.facts = append(pb.facts, [2]string{key, value})
	}
	return pb
}

// AddContext adds a free-form paragraph after the opening line
func (pb *PromptBuilder) AddContext(context string) *PromptBuilder {
	if strings.TrimSpace(context) != "" {
		pb.context = append(pb.context, context)
	}
	return pb
}

// ExpectJSON declares the JSON structure the model must answer with
func (pb *PromptBuilder) ExpectJSON(shape string) *PromptBuilder {
	pb.shape = shape
	return pb
}

// Build constructs the final prompt
func (pb *PromptBuilder) Build() string {
	parts := []string{pb.intro}
	parts = append(parts, pb.context...)

	for _, f := range pb.facts {
		parts = append(parts, fmt.Sprintf("- %s: %s", f[0], f[1]))
	}

	if pb.shape != "" {
		parts = append(parts, "Structure: "+pb.shape)
	}

	return strings.Join(parts, "\n")
}

const (
	scriptShape = `{"title": "", "estimatedTotalDuration": "", "tone": "", "sections": [{"title": "", "content": "", "visualCue": "", "duration": ""}]}`
	seoShape    = `{"optimizedTitles": [], "description": "", "tags": [], "hashtags": []}`
)

// ScriptPrompt is the user prompt for the script call
func ScriptPrompt(req GenerationRequest) string {
	return NewPromptBuilder(fmt.Sprintf("Generate a JSON video script for: %q.", req.Topic)).
		AddFact("Language", req.Language).
		AddFact("Video type", req.Template.Label()).
		AddFact("Tone", req.Tone).
		AddFact("Audience", req.TargetAudience).
		AddFact("Product", req.ProductName).
		ExpectJSON(scriptShape).
		Build()
}

// SeoContext joins section contents and keeps the first SeoContextLimit characters
func SeoContext(s GeneratedScript) string {
	contents := make([]string, 0, len(s.Sections))
	for _, section := range s.Sections {
		contents = append(contents, section.Content)
	}

	joined := []rune(strings.TrimSpace(strings.Join(contents, " ")))
	if len(joined) > SeoContextLimit {
		joined = joined[:SeoContextLimit]
	}
	return string(joined)
}

// SeoPrompt is the user prompt for the SEO call. Without script text the topic is used.
func SeoPrompt(req GenerationRequest, s GeneratedScript) string {
	pb := NewPromptBuilder("Generate YouTube SEO metadata as JSON.")
	if context := SeoContext(s); context != "" {
		pb.AddContext("Based on: " + context)
	} else {
		pb.AddContext("Topic: " + req.Topic)
	}

	return pb.AddFact("Language", req.Language).
		ExpectJSON(seoShape).
		Build()
}
