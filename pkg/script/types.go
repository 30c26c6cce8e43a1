package script

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethanbaker/tubescript/pkg/sdk"
)

// Template is a content-strategy preset that selects the system instruction
type Template string

const (
	TemplateBookPromo       Template = "book_promo"
	TemplateAffiliateReview Template = "affiliate_review"
	TemplateTutorial        Template = "tutorial"
	TemplateGeneral         Template = "general"
)

var templateLabels = map[Template]string{
	TemplateBookPromo:       "KDP (Book & Trailer)",
	TemplateAffiliateReview: "Affiliate Marketing",
	TemplateTutorial:        "Tutorial / Educational",
	TemplateGeneral:         "Vlog / General",
}

// Templates lists every template in display order
func Templates() []Template {
	return []Template{TemplateBookPromo, TemplateAffiliateReview, TemplateTutorial, TemplateGeneral}
}

// Label is the human-readable name of the template
func (t Template) Label() string {
	if label, ok := templateLabels[t]; ok {
		return label
	}
	return string(t)
}

func (t Template) Valid() bool {
	_, ok := templateLabels[t]
	return ok
}

// ParseTemplate reads a template from its wire name, case-insensitively
func ParseTemplate(s string) (Template, error) {
	t := Template(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", sdk.NewError(sdk.ErrInvalidInput, fmt.Sprintf("Unknown template %q", s), nil)
	}
	return t, nil
}

// GenerationRequest is everything the user chose for one submission
type GenerationRequest struct {
	Topic          string   `json:"topic"`
	Template       Template `json:"template"`
	Language       string   `json:"language"`
	Tone           string   `json:"tone"`
	TargetAudience string   `json:"targetAudience"`
	ProductName    string   `json:"productName,omitempty"`
}

// Validate rejects requests that must not reach the network
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return sdk.NewError(sdk.ErrInvalidInput, "Topic is required", nil)
	}
	if !r.Template.Valid() {
		return sdk.NewError(sdk.ErrInvalidInput, fmt.Sprintf("Unknown template %q", r.Template), nil)
	}
	return nil
}

// ScriptSection is one beat of the video, in narrative order
type ScriptSection struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	VisualCue string `json:"visualCue,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

// GeneratedScript is the primary artifact. Sections is never nil.
type GeneratedScript struct {
	ID                     string          `json:"id,omitempty"`
	Title                  string          `json:"title"`
	EstimatedTotalDuration string          `json:"estimatedTotalDuration"`
	Tone                   string          `json:"tone"`
	Sections               []ScriptSection `json:"sections"`
}

// Clone returns a copy that shares no memory with s
func (s GeneratedScript) Clone() GeneratedScript {
	out := s
	out.Sections = make([]ScriptSection, len(s.Sections))
	copy(out.Sections, s.Sections)
	return out
}

// WithSection returns a copy of s with section i replaced
func (s GeneratedScript) WithSection(i int, section ScriptSection) (GeneratedScript, error) {
	if i < 0 || i >= len(s.Sections) {
		return s, sdk.NewError(sdk.ErrInvalidInput, fmt.Sprintf("No section %d", i+1), nil)
	}

	out := s.Clone()
	out.Sections[i] = section
	return out, nil
}

// SeoData is the secondary artifact. Every slice is non-nil.
type SeoData struct {
	OptimizedTitles []string `json:"optimizedTitles"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	Hashtags        []string `json:"hashtags"`
}

// Clone returns a copy that shares no memory with s
func (s SeoData) Clone() SeoData {
	return SeoData{
		OptimizedTitles: append([]string{}, s.OptimizedTitles...),
		Description:     s.Description,
		Tags:            append([]string{}, s.Tags...),
		Hashtags:        append([]string{}, s.Hashtags...),
	}
}

// HistoryItem is one cached past result
type HistoryItem struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Script    GeneratedScript `json:"script"`
	Seo       SeoData         `json:"seo"`
	Topic     string          `json:"topic"`
}

// Clone returns a copy that shares no memory with h
func (h HistoryItem) Clone() HistoryItem {
	out := h
	out.Script = h.Script.Clone()
	out.Seo = h.Seo.Clone()
	return out
}
