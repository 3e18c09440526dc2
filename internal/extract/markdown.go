package extract

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docindex/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownParser flattens Markdown into one text node per top-level block
// (heading or body block) using goldmark's AST, in document order. Headings
// are kept as plain paragraphs rather than as a nested section hierarchy:
// only DocTree.Flatten()'s leaves ever reach the tokenizer, so there is
// nothing downstream that reads node nesting.
type markdownParser struct{}

func (p *markdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	tree := &doctree.DocTree{Title: strings.TrimSuffix(strings.TrimSuffix(filename, ".md"), ".markdown")}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		var t string
		if h, ok := n.(*ast.Heading); ok {
			t = string(h.Text(src))
		} else {
			t = extractMarkdownText(n, src)
		}
		if t != "" {
			tree.Children = append(tree.Children, &doctree.DocNode{Text: t})
		}
	}
	return tree, nil
}

func extractMarkdownText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(extractMarkdownText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
