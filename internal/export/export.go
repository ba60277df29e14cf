// Package export writes parse results to disk in the formats downstream
// tooling consumes: raw page text, a nested tree JSON, a markdown outline,
// an HTML outline and flat section records as JSONL.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/dgallion1/sustainparse/internal/outline"
)

const (
	RawTextFile      = "raw_text.txt"
	TreeJSONFile     = "tree.json"
	TreeMarkdownFile = "tree.md"
	TreeHTMLFile     = "tree.html"
	SectionsFile     = "sections.jsonl"
)

// treeNode is the nested JSON shape of one outline node.
type treeNode struct {
	Title     string     `json:"title"`
	Level     int        `json:"level"`
	StartPage int        `json:"start_page"`
	EndPage   int        `json:"end_page"`
	Children  []treeNode `json:"children"`
}

func toTreeNode(s *outline.Section) treeNode {
	n := treeNode{
		Title:     s.Title,
		Level:     s.Level,
		StartPage: s.StartPage,
		EndPage:   s.EndPage,
		Children:  []treeNode{},
	}
	for _, c := range s.Children {
		n.Children = append(n.Children, toTreeNode(c))
	}
	return n
}

// WriteRawText writes every page's text with page markers.
func WriteRawText(dir string, pages []string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	var sb strings.Builder
	for i, text := range pages {
		fmt.Fprintf(&sb, "\n\n===== PAGE %d =====\n\n", i+1)
		sb.WriteString(strings.TrimRight(text, " \t\n"))
		sb.WriteString("\n")
	}
	p := filepath.Join(dir, RawTextFile)
	if err := os.WriteFile(p, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write raw text: %w", err)
	}
	return p, nil
}

// MarshalTree encodes the nested section tree as indented JSON.
func MarshalTree(root *outline.Section) ([]byte, error) {
	data, err := json.MarshalIndent(toTreeNode(root), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	return data, nil
}

// WriteTreeJSON writes the nested section tree as indented JSON.
func WriteTreeJSON(dir string, root *outline.Section) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	data, err := MarshalTree(root)
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, TreeJSONFile)
	if err := os.WriteFile(p, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write tree json: %w", err)
	}
	return p, nil
}

// WriteTreeMarkdown writes the outline as an indented markdown list.
func WriteTreeMarkdown(dir string, res *outline.ParseResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Section Tree\n\nStrategy: %s. Pages: %d.\n\n", res.Strategy, res.PageCount)
	sb.WriteString(res.Root.Markdown())
	p := filepath.Join(dir, TreeMarkdownFile)
	if err := os.WriteFile(p, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write tree markdown: %w", err)
	}
	return p, nil
}

// WriteTreeHTML renders the markdown outline to a standalone HTML page.
func WriteTreeHTML(dir string, res *outline.ParseResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Section Tree\n\nStrategy: %s. Pages: %d.\n\n", res.Strategy, res.PageCount)
	sb.WriteString(res.Root.Markdown())

	var body bytes.Buffer
	if err := goldmark.New().Convert([]byte(sb.String()), &body); err != nil {
		return "", fmt.Errorf("render tree html: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Section Tree</title></head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	p := filepath.Join(dir, TreeHTMLFile)
	if err := os.WriteFile(p, page.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write tree html: %w", err)
	}
	return p, nil
}

// WriteSectionsJSONL writes one flat section record per line.
func WriteSectionsJSONL(dir string, sections []*outline.Section) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, s := range sections {
		if err := enc.Encode(s.Record()); err != nil {
			return "", fmt.Errorf("encode section %s: %w", s.ID, err)
		}
	}
	p := filepath.Join(dir, SectionsFile)
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write sections jsonl: %w", err)
	}
	return p, nil
}

// Bundle lists the files a full export produced.
type Bundle struct {
	RawText      string `json:"raw_text"`
	TreeJSON     string `json:"tree_json"`
	TreeMarkdown string `json:"tree_md"`
	TreeHTML     string `json:"tree_html"`
	Sections     string `json:"sections_jsonl"`
}

// WriteAll writes every export format for a parse result.
func WriteAll(dir string, res *outline.ParseResult, pages []string) (*Bundle, error) {
	b := &Bundle{}
	var err error
	if b.RawText, err = WriteRawText(dir, pages); err != nil {
		return nil, err
	}
	if b.TreeJSON, err = WriteTreeJSON(dir, res.Root); err != nil {
		return nil, err
	}
	if b.TreeMarkdown, err = WriteTreeMarkdown(dir, res); err != nil {
		return nil, err
	}
	if b.TreeHTML, err = WriteTreeHTML(dir, res); err != nil {
		return nil, err
	}
	if b.Sections, err = WriteSectionsJSONL(dir, res.Sections); err != nil {
		return nil, err
	}
	return b, nil
}
