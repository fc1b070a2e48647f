package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"ai_content_generator/generator"
)

// Renderer converts generated markdown into HTML for the display side.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer with GFM and hard line breaks. Raw HTML in the
// model output is omitted.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

func (r *Renderer) HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// Label builds the history list title. index starts at 1.
func Label(index int, e generator.HistoryEntry) string {
	return fmt.Sprintf("%d. %s (%s) – %s", index, e.Brief.Topic, e.Brief.Platform, e.Model)
}

// Excerpt collapses whitespace and cuts to at most limit runes.
func Excerpt(text string, limit int) string {
	joined := strings.Join(strings.Fields(text), " ")
	runes := []rune(joined)
	if limit <= 0 || len(runes) <= limit {
		return joined
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
