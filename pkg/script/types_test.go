package script

import (
	"testing"

	"github.com/ethanbaker/tubescript/pkg/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	tmpl, err := ParseTemplate(" Tutorial ")
	require.NoError(t, err)
	assert.Equal(t, TemplateTutorial, tmpl)
	assert.Equal(t, "Tutorial / Educational", tmpl.Label())

	_, err = ParseTemplate("podcast")
	assert.ErrorIs(t, err, sdk.ErrInvalidInput)
}

func TestGenerationRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  GenerationRequest
		err  error
	}{
		{"valid", GenerationRequest{Topic: "Dogs", Template: TemplateGeneral}, nil},
		{"blank topic", GenerationRequest{Topic: "  ", Template: TemplateGeneral}, sdk.ErrInvalidInput},
		{"bad template", GenerationRequest{Topic: "Dogs", Template: "podcast"}, sdk.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestWithSection(t *testing.T) {
	original := GeneratedScript{Title: "T", Sections: []ScriptSection{{Title: "a"}, {Title: "b"}}}

	edited, err := original.WithSection(1, ScriptSection{Title: "B", Content: "new"})
	require.NoError(t, err)

	assert.Equal(t, "B", edited.Sections[1].Title)
	assert.Equal(t, "b", original.Sections[1].Title)

	_, err = original.WithSection(2, ScriptSection{})
	assert.ErrorIs(t, err, sdk.ErrInvalidInput)
}

func TestHistoryItemClone(t *testing.T) {
	item := HistoryItem{
		Script: GeneratedScript{Sections: []ScriptSection{{Title: "a"}}},
		Seo:    SeoData{Tags: []string{"x"}},
	}

	clone := item.Clone()
	clone.Script.Sections[0].Title = "changed"
	clone.Seo.Tags[0] = "changed"

	assert.Equal(t, "a", item.Script.Sections[0].Title)
	assert.Equal(t, "x", item.Seo.Tags[0])
}
