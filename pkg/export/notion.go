package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	notionapi "github.com/dstotijn/go-notion"
	"github.com/ethanbaker/tubescript/pkg/script"
	"github.com/ethanbaker/tubescript/pkg/utils"
)

const (
	// notionTextLimit is the longest rich text content Notion accepts
	notionTextLimit = 2000

	// notionBatchSize is the most children Notion accepts per request
	notionBatchSize = 100
)

// ErrNotionNotConfigured is returned when the Notion key or parent page is missing
var ErrNotionNotConfigured = errors.New("NOTION_API_KEY and NOTION_PARENT_PAGE_ID must be set")

// NotionExporter writes scripts as child pages of a Notion page
type NotionExporter struct {
	client   *notionapi.Client
	parentID string
}

// NewNotionExporter creates an exporter under parentPageID
func NewNotionExporter(apiKey, parentPageID string, httpClient *http.Client) (*NotionExporter, error) {
	if apiKey == "" || parentPageID == "" {
		return nil, ErrNotionNotConfigured
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &NotionExporter{
		client:   notionapi.NewClient(apiKey, notionapi.WithHTTPClient(httpClient)),
		parentID: parentPageID,
	}, nil
}

// NewNotionExporterFromConfig reads NOTION_API_KEY and NOTION_PARENT_PAGE_ID
func NewNotionExporterFromConfig(cfg *utils.Config) (*NotionExporter, error) {
	return NewNotionExporter(cfg.Get("NOTION_API_KEY"), cfg.Get("NOTION_PARENT_PAGE_ID"), nil)
}

// Export creates a page for s and seo and returns its URL
func (e *NotionExporter) Export(ctx context.Context, s script.GeneratedScript, seo script.SeoData) (string, error) {
	blocks := NotionBlocks(s, seo)

	first := blocks
	if len(first) > notionBatchSize {
		first = first[:notionBatchSize]
	}

	page, err := e.client.CreatePage(ctx, notionapi.CreatePageParams{
		ParentType: notionapi.ParentTypePage,
		ParentID:   e.parentID,
		Title:      richText(s.Title),
		Children:   first,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create notion page: %w", err)
	}

	for rest := blocks[len(first):]; len(rest) > 0; {
		batch := rest
		if len(batch) > notionBatchSize {
			batch = batch[:notionBatchSize]
		}
		if _, err := e.client.AppendBlockChildren(ctx, page.ID, batch); err != nil {
			return page.URL, fmt.Errorf("failed to append notion blocks: %w", err)
		}
		rest = rest[len(batch):]
	}

	return page.URL, nil
}

// NotionBlocks lays out the page body in the same order as the markdown export
func NotionBlocks(s script.GeneratedScript, seo script.SeoData) []notionapi.Block {
	blocks := []notionapi.Block{
		&notionapi.ParagraphBlock{RichText: richText("Duration: " + s.EstimatedTotalDuration)},
		&notionapi.ParagraphBlock{RichText: italic("Tone: " + s.Tone)},
	}

	for _, section := range s.Sections {
		blocks = append(blocks,
			&notionapi.Heading2Block{RichText: richText(section.Title)},
			&notionapi.ParagraphBlock{RichText: richText(section.Content)},
		)
		if section.VisualCue != "" {
			blocks = append(blocks, &notionapi.ParagraphBlock{RichText: italic("Visual: " + section.VisualCue)})
		}
	}

	blocks = append(blocks,
		&notionapi.DividerBlock{},
		&notionapi.Heading1Block{RichText: richText("SEO metadata")},
		&notionapi.Heading3Block{RichText: richText("Titles")},
	)
	for _, title := range seo.OptimizedTitles {
		blocks = append(blocks, &notionapi.BulletedListItemBlock{RichText: richText(title)})
	}

	blocks = append(blocks,
		&notionapi.Heading3Block{RichText: richText("Description")},
		&notionapi.ParagraphBlock{RichText: richText(seo.Description)},
		&notionapi.Heading3Block{RichText: richText("Tags")},
		&notionapi.ParagraphBlock{RichText: richText(strings.Join(seo.Tags, ", "))},
	)

	return blocks
}

// richText splits content into chunks Notion accepts
func richText(content string) []notionapi.RichText {
	out := []notionapi.RichText{}

	runes := []rune(content)
	for len(runes) > 0 {
		n := min(len(runes), notionTextLimit)
		out = append(out, notionapi.RichText{
			Type: notionapi.RichTextTypeText,
			Text: &notionapi.Text{Content: string(runes[:n])},
		})
		runes = runes[n:]
	}
	return out
}

func italic(content string) []notionapi.RichText {
	out := richText(content)
	for i := range out {
		out[i].Annotations = &notionapi.Annotations{Italic: true}
	}
	return out
}
