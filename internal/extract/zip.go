package extract

import (
	"archive/zip"
	"path"
	"strings"

	"github.com/dgallion1/docindex/internal/entity"
	"github.com/dgallion1/docindex/internal/filter"
)

// ExpandZip opens the archive at path, filters its entries through filters,
// and returns the archive's own Container (unassigned id, type Archive)
// alongside one ScannedDocument per surviving entry. Entries whose name
// cannot be resolved to a safe relative path — absolute paths, or paths
// that escape the archive root via ".." — are dropped silently, matching
// the original ZipExtractor's enclosed_name check.
func ExpandZip(archivePath string, filters *filter.Set) (*entity.Container, []*entity.ScannedDocument, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, nil, &IoError{Path: archivePath, Err: err}
	}
	defer r.Close()

	var documents []*entity.ScannedDocument
	for _, f := range r.File {
		name, ok := enclosedName(f.Name)
		if !ok {
			continue
		}
		if filters != nil && !filters.Check(name) {
			continue
		}

		doc := entity.FromPath(name)
		doc.Status = entity.StatusExtracted // matches the spec's per-entry lifecycle: archive children never pass through Scanned
		documents = append(documents, &entity.ScannedDocument{
			ContainerType: entity.ContainerArchive,
			Document:      doc,
			Path:          name,
		})
	}

	archive := &entity.Container{Path: archivePath, Type: entity.ContainerArchive}
	return archive, documents, nil
}

// enclosedName rejects zip slip attempts: absolute paths and any entry
// carrying a literal ".." path segment, regardless of whether the cleaned
// result would stay inside the archive root. A name like "evil/../x.txt"
// is rejected outright rather than cleaned down to "x.txt" and accepted —
// matching zip::enclosed_name() in the original extractor, which treats any
// ParentDir component as malformed on sight.
func enclosedName(name string) (string, bool) {
	if name == "" || strings.HasPrefix(name, "/") {
		return "", false
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return "", false
		}
	}
	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return "", false
	}
	return clean, true
}
