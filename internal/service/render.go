package service

import (
	"bytes"
	"fmt"
	"html/template"

	"femilyship-web/internal/data"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	previewLength     = 100
	emptyTopicPreview = "There are no pages in this topic yet."
)

// Renderer turns essay markdown into sanitized HTML.
type Renderer struct {
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown to HTML and strips anything unsafe.
func (r *Renderer) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(r.sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// Preview returns the teaser shown on a topic card.
func Preview(topic data.Topic) string {
	if len(topic.Essays) == 0 {
		return emptyTopicPreview
	}
	runes := []rune(topic.Essays[0].Content)
	if len(runes) <= previewLength {
		return string(runes)
	}
	return string(runes[:previewLength]) + "..."
}
