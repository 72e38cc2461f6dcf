// Package layout is the single source of truth for every path used during an
// export. The renderers in pkg/export and the filesystem writes in the
// orchestrator both derive their filenames from here, so the hrefs embedded
// in the generated documents always match the files on disk.
package layout

import (
	"fmt"
	"path/filepath"

	"github.com/mangaport/mangaport/pkg/models"
)

// Fixed filenames inside the cache tree. These are part of the produced
// file-tree contract (OCF/OPF/NCX), not implementation detail.
const (
	Mimetype            = "mimetype"
	ContainerDescriptor = "container.xml"
	Manifest            = "metadata.opf"
	Navigation          = "toc.ncx"
	Stylesheet          = "stylesheet.css"
	StartDocument       = "start.xhtml"

	// MetaInf is the OCF metadata subdirectory holding the container
	// descriptor.
	MetaInf = "META-INF"

	// PackageExtension is the file suffix of the produced archive.
	PackageExtension = "epub"
)

// Layout derives every export path from a resource root and a section name.
type Layout struct {
	Root    string
	Section string
}

// New creates a layout for the given resource root (e.g. "manga_res") and
// section name.
func New(root, section string) Layout {
	return Layout{Root: root, Section: section}
}

// SectionDir is the per-section working directory.
func (l Layout) SectionDir() string {
	return filepath.Join(l.Root, l.Section)
}

// OriginsDir holds the downloaded page images before they are copied into
// the cache tree.
func (l Layout) OriginsDir() string {
	return filepath.Join(l.SectionDir(), "origins")
}

// OriginPath is the deterministic location of a page's downloaded image.
func (l Layout) OriginPath(p *models.Page) string {
	return filepath.Join(l.OriginsDir(), PageImageName(p))
}

// CacheDir is the root of the assembled EPUB tree.
func (l Layout) CacheDir() string {
	return filepath.Join(l.SectionDir(), ".cache")
}

// MetaInfDir is the OCF metadata subdirectory inside the cache tree.
func (l Layout) MetaInfDir() string {
	return filepath.Join(l.CacheDir(), MetaInf)
}

// ContainerPath locates the OCF container descriptor.
func (l Layout) ContainerPath() string {
	return filepath.Join(l.MetaInfDir(), ContainerDescriptor)
}

// CachePath locates a named artifact inside the cache tree.
func (l Layout) CachePath(name string) string {
	return filepath.Join(l.CacheDir(), name)
}

// ArchivePath is the destination of the packaged file for this section.
func (l Layout) ArchivePath(outputDir string) string {
	return filepath.Join(outputDir, l.Section+"."+PackageExtension)
}

// PageImageName returns the image filename for a page, e.g. "0.jpg".
func PageImageName(p *models.Page) string {
	return fmt.Sprintf("%d.%s", p.Index, p.Extension)
}

// PageDocumentName returns the viewer document filename for a page, e.g.
// "0.html".
func PageDocumentName(p *models.Page) string {
	return fmt.Sprintf("%d.html", p.Index)
}

// CoverName returns the cover image filename, which carries the extension
// of the designated cover page, e.g. "cover.jpg".
func CoverName(cover *models.Page) string {
	return "cover." + cover.Extension
}
