package extract

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docindex/internal/doctree"
)

// textParser handles plain text files: blank-line-delimited paragraphs,
// each becoming its own leaf node.
type textParser struct{}

func (p *textParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	tree := &doctree.DocTree{Title: strings.TrimSuffix(filename, ".txt")}
	for _, para := range paragraphs {
		tree.Children = append(tree.Children, &doctree.DocNode{Text: para})
	}
	return tree, nil
}
