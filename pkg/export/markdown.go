package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/ethanbaker/tubescript/pkg/script"
)

// Filename is the file name used when saving s, e.g. "Train_your_dog_TubeScript.md"
func Filename(s script.GeneratedScript, ext string) string {
	title := strings.NewReplacer("/", "-", "\\", "-").Replace(s.Title)

	base := strings.Join(strings.Fields(title), "_")
	if base == "" {
		base = script.DefaultTitle
	}
	return fmt.Sprintf("%s_TubeScript.%s", base, strings.TrimPrefix(ext, "."))
}

// Markdown renders the script followed by its SEO block
func Markdown(s script.GeneratedScript, seo script.SeoData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	fmt.Fprintf(&b, "**Duration:** %s\n\n", s.EstimatedTotalDuration)
	fmt.Fprintf(&b, "_Tone: %s_\n\n", s.Tone)

	for _, section := range s.Sections {
		fmt.Fprintf(&b, "## %s\n\n", strings.ToUpper(section.Title))
		if section.Duration != "" {
			fmt.Fprintf(&b, "`%s`\n\n", section.Duration)
		}
		fmt.Fprintf(&b, "%s\n\n", section.Content)
		if section.VisualCue != "" {
			fmt.Fprintf(&b, "_Visual: %s_\n\n", section.VisualCue)
		}
	}

	b.WriteString("---\n\n# SEO metadata\n\n")

	b.WriteString("## Titles\n\n")
	for _, title := range seo.OptimizedTitles {
		fmt.Fprintf(&b, "- %s\n", title)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Description\n\n%s\n\n", seo.Description)
	fmt.Fprintf(&b, "## Tags\n\n%s\n", strings.Join(seo.Tags, ", "))

	if len(seo.Hashtags) > 0 {
		fmt.Fprintf(&b, "\n## Hashtags\n\n%s\n", strings.Join(seo.Hashtags, " "))
	}

	return b.String()
}

// PlainText is the copyable script body: each section's title and content, separated
// by blank lines
func PlainText(s script.GeneratedScript) string {
	parts := make([]string, 0, len(s.Sections))
	for _, section := range s.Sections {
		parts = append(parts, section.Title+"\n"+section.Content)
	}
	return strings.Join(parts, "\n\n")
}

// TagsCSV renders the tags as a single CSV record
func TagsCSV(seo script.SeoData) (string, error) {
	if len(seo.Tags) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(seo.Tags); err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}
