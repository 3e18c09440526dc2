// Package extract decodes a Document's content into a keyword summary (or,
// for ZIP, expands it into child documents) and runs the worker pool that
// drives that decoding. Format parsers are grounded on the teacher's
// internal/parser package; the tokenizer and archive handling are grounded
// on the original engine's extractor/tokens.rs and
// extractor/formats/archive/zip.rs.
package extract

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docindex/internal/doctree"
	"github.com/dgallion1/docindex/internal/entity"
)

// treeParser converts raw bytes into a DocTree. Each supported text-family
// extension and PDF/DOCX has its own implementation; ZIP is handled
// separately since it expands into new documents instead of a DocTree.
type treeParser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

func textFamilyParser(extension string) treeParser {
	switch strings.ToLower(extension) {
	case "md", "markdown":
		return &markdownParser{}
	case "html", "htm":
		return &htmlParser{}
	case "csv":
		return &csvParser{}
	default:
		return &textParser{}
	}
}

// TokenConfig bounds the tokenizer: the shortest kept token and the top-N
// tokens retained in the exported summary.
type TokenConfig struct {
	MinTokenLength int
	MaxTokens      int
}

// Content decodes path according to format and returns its keyword
// summary. format must be FormatText, FormatPdf, or FormatDocx; Unknown and
// Archive(Zip) are handled by their own callers.
func Content(path string, format entity.FormatType, cfg TokenConfig) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &IoError{Path: path, Err: err}
	}
	defer f.Close()

	var parser treeParser
	switch format {
	case entity.FormatText:
		parser = textFamilyParser(strings.TrimPrefix(filepath.Ext(path), "."))
	case entity.FormatPdf:
		parser = &pdfParser{}
	case entity.FormatDocx:
		parser = &docxParser{}
	default:
		return "", &ExtractionFailed{Path: path, Err: errUnsupportedFormat(format)}
	}

	tree, err := parser.Parse(f, filepath.Base(path))
	if err != nil {
		return "", &ExtractionFailed{Path: path, Err: err}
	}

	dist := FromReader(strings.NewReader(tree.Flatten()), cfg.MinTokenLength)
	return dist.ExportStringNth(cfg.MaxTokens), nil
}

type unsupportedFormatError struct{ format entity.FormatType }

func (e unsupportedFormatError) Error() string {
	return "unsupported format: " + e.format.String()
}

func errUnsupportedFormat(f entity.FormatType) error {
	return unsupportedFormatError{format: f}
}
