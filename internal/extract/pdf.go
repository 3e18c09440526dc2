package extract

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/dgallion1/docindex/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// pdfLibPath mirrors the original's once-per-process PDF library bind: the
// path is read from PDFIUM_LIB_PATH at first use and cached. ledongthuc/pdf
// is a pure-Go decoder with no shared object to load, so the cached value
// is only ever logged, never dlopen'd — see DESIGN.md.
var (
	pdfLibPathOnce sync.Once
	pdfLibPath     string
)

func resolvePdfLibPath() string {
	pdfLibPathOnce.Do(func() {
		pdfLibPath = os.Getenv("PDFIUM_LIB_PATH")
		if pdfLibPath == "" {
			pdfLibPath = "vendor/pdfium/lib/libpdfium.so"
		}
		slog.Info("PDFIUM_LIB_PATH is not loaded: the PDF decoder is pure Go", "path", pdfLibPath)
	})
	return pdfLibPath
}

// pdfParser handles PDF files, splitting the decoded text into one node
// per page.
type pdfParser struct{}

func (p *pdfParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	resolvePdfLibPath()

	tmp, err := os.CreateTemp("", "docindex-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPdfText(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	tree := &doctree.DocTree{Title: strings.TrimSuffix(filename, ".pdf")}
	pages := strings.Split(text, "\f")
	for i, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		tree.Children = append(tree.Children, &doctree.DocNode{
			Title: fmt.Sprintf("Page %d", i+1),
			Text:  page,
			Page:  i + 1,
		})
	}
	if len(tree.Children) == 0 && strings.TrimSpace(text) != "" {
		tree.Children = []*doctree.DocNode{{Text: strings.TrimSpace(text), Page: 1}}
	}
	return tree, nil
}

func extractPdfText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}
