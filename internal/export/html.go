package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/A-dvika/MindMaven/internal/mindmap"
)

type pageData struct {
	Title   string
	Content template.HTML
}

// HTML renders a tree as a self-contained HTML page by converting the
// markdown outline with goldmark and wrapping it in a styled template.
func HTML(tree *mindmap.TreeNode) (string, error) {
	if tree == nil {
		return "", fmt.Errorf("no tree to export")
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(tree)), &body); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return "", fmt.Errorf("parse page template: %w", err)
	}

	var out bytes.Buffer
	err = tmpl.Execute(&out, pageData{
		Title:   tree.Name,
		Content: template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("execute page template: %w", err)
	}
	return out.String(), nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  max-width: 720px;
  margin: 2rem auto;
  padding: 0 1rem;
  color: #1f2937;
  line-height: 1.6;
}
h1 {
  border-bottom: 2px solid #6366f1;
  padding-bottom: 0.4rem;
}
ul {
  padding-left: 1.4rem;
}
li {
  margin: 0.25rem 0;
}
</style>
</head>
<body>
{{.Content}}
</body>
</html>
`
