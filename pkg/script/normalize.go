package script

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ethanbaker/tubescript/pkg/sdk"
)

const (
	DefaultTitle          = "Untitled"
	DefaultDuration       = "N/A"
	PlaceholderSeoSummary = "SEO metadata could not be generated for this script. Try generating again later."
)

// ParseScript decodes model text into a GeneratedScript. Text that is not JSON is a
// MalformedResponse; any missing or wrong-typed field takes its default, with the tone
// falling back to requestTone.
func ParseScript(text, requestTone string) (GeneratedScript, error) {
	raw, err := decode(text)
	if err != nil {
		return GeneratedScript{}, sdk.NewError(sdk.ErrMalformedResponse, "The model returned an unreadable script", err)
	}

	fields, _ := raw.(map[string]any)

	s := GeneratedScript{
		Title:                  textOr(fields["title"], DefaultTitle),
		EstimatedTotalDuration: textOr(fields["estimatedTotalDuration"], DefaultDuration),
		Tone:                   textOr(fields["tone"], requestTone),
		Sections:               []ScriptSection{},
	}

	items, _ := fields["sections"].([]any)
	for _, item := range items {
		section, ok := item.(map[string]any)
		if !ok {
			continue
		}
		s.Sections = append(s.Sections, ScriptSection{
			Title:     textOr(section["title"], ""),
			Content:   textOr(section["content"], ""),
			VisualCue: textOr(section["visualCue"], ""),
			Duration:  textOr(section["duration"], ""),
		})
	}

	return s, nil
}

// ParseSeo decodes model text into SeoData, defaulting each field on its own
func ParseSeo(text string) (SeoData, error) {
	raw, err := decode(text)
	if err != nil {
		return SeoData{}, sdk.NewError(sdk.ErrMalformedResponse, "The model returned unreadable SEO metadata", err)
	}

	fields, _ := raw.(map[string]any)

	return SeoData{
		OptimizedTitles: textList(fields["optimizedTitles"]),
		Description:     textOr(fields["description"], ""),
		Tags:            textList(fields["tags"]),
		Hashtags:        textList(fields["hashtags"]),
	}, nil
}

// DefaultSeo is used when SEO generation fails
func DefaultSeo() SeoData {
	return SeoData{
		OptimizedTitles: []string{},
		Description:     PlaceholderSeoSummary,
		Tags:            []string{},
		Hashtags:        []string{},
	}
}

// decode parses JSON, tolerating a surrounding markdown code fence
func decode(text string) (any, error) {
	var out any
	err := json.Unmarshal([]byte(stripFence(text)), &out)
	return out, err
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// Drop the opening fence line (``` or ```json) and the closing fence
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		return text
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

// textOr returns v as text, or def when v is missing, empty or not a scalar
func textOr(v any, def string) string {
	switch value := v.(type) {
	case string:
		if value != "" {
			return value
		}
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	return def
}

// textList keeps the text-like elements of a JSON array; anything else is an empty list
func textList(v any) []string {
	out := []string{}

	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s := textOr(item, ""); s != "" {
			out = append(out, s)
		}
	}
	return out
}
