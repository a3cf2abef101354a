package main

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"

	"github.com/yuin/goldmark"
)

// renderMarkdownToHTML converts markdown into HTML for templates. On failure
// the raw text is escaped and returned so the page still renders.
func (app *application) renderMarkdownToHTML(ctx context.Context, markdown string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "render markdown", slog.Any("error", err))
		return template.HTML(template.HTMLEscapeString(markdown)) //nolint:gosec // escaped above.
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark escapes raw HTML by default.
}
