package export

import (
	"strings"
	"testing"

	"github.com/A-dvika/MindMaven/internal/mindmap"
)

func sampleTree() *mindmap.TreeNode {
	return &mindmap.TreeNode{
		Name: "Photosynthesis",
		SubNodes: []*mindmap.TreeNode{
			{
				Name: "Light reactions",
				SubNodes: []*mindmap.TreeNode{
					{Name: "Photolysis", SubNodes: []*mindmap.TreeNode{}},
				},
			},
			{Name: "Calvin cycle", SubNodes: []*mindmap.TreeNode{}},
		},
	}
}

func TestMarkdown(t *testing.T) {
	got := Markdown(sampleTree())
	want := "# Photosynthesis\n\n- Light reactions\n  - Photolysis\n- Calvin cycle\n"
	if got != want {
		t.Errorf("Markdown =\n%q\nwant\n%q", got, want)
	}
}

func TestMarkdownLeafOnly(t *testing.T) {
	got := Markdown(&mindmap.TreeNode{Name: "Solo"})
	if got != "# Solo\n" {
		t.Errorf("Markdown = %q", got)
	}
}

func TestMarkdownNilTree(t *testing.T) {
	if got := Markdown(nil); got != "" {
		t.Errorf("Markdown(nil) = %q", got)
	}
}

func TestHTML(t *testing.T) {
	page, err := HTML(sampleTree())
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}

	for _, want := range []string{
		"<title>Photosynthesis</title>",
		"<h1",
		"Photosynthesis",
		"<li>Calvin cycle</li>",
		"<!DOCTYPE html>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestHTMLNilTree(t *testing.T) {
	if _, err := HTML(nil); err == nil {
		t.Fatal("expected error for nil tree")
	}
}
