package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/docindex/internal/doctree"
	"github.com/fumiama/go-docx"
)

// docxParser flattens a .docx body into one text node per paragraph, in
// document order. Heading-style paragraphs are kept as plain paragraphs:
// only DocTree.Flatten()'s leaves ever reach the tokenizer, so a nested
// section hierarchy built from paragraph styles would never be read.
type docxParser struct{}

func (p *docxParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	// go-docx needs a ReadSeeker+size, so spill to a temp file first.
	tmp, err := os.CreateTemp("", "docindex-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	tree := &doctree.DocTree{Title: strings.TrimSuffix(filename, ".docx")}
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if t := docxParagraphText(para); t != "" {
			tree.Children = append(tree.Children, &doctree.DocNode{Text: t})
		}
	}
	return tree, nil
}

// docxParagraphText accumulates every run's text with a trailing space
// separator, so a run boundary that splits two words never merges them into
// one token (the same accumulation rule the original XML-event extractor
// applies to each Text event it sees).
func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
				buf.WriteString(" ")
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
