// Package export assembles a section of ordered page images into a
// spec-compliant EPUB directory tree and hands it to the archiver for
// packaging.
package export

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mangaport/mangaport/pkg/archive"
	"github.com/mangaport/mangaport/pkg/layout"
	"github.com/mangaport/mangaport/pkg/models"
	"github.com/mangaport/mangaport/pkg/storage"
	"github.com/mangaport/mangaport/pkg/version"
)

// DefaultResourceRoot is where section working directories live unless the
// caller configures another root.
const DefaultResourceRoot = "manga_res"

// DefaultOperator is the operator tag embedded in attribution text when the
// caller does not supply one.
const DefaultOperator = "manga-bot"

// ErrNoPages is returned when Save is called on a section without pages.
var ErrNoPages = errors.New("section has no pages")

// Config carries the collaborators and tags an export session needs. The
// zero value selects the defaults: the HTTP fetcher, the default resource
// root, the build version, and the real clock.
type Config struct {
	// ResourceRoot is the directory holding per-section working trees.
	ResourceRoot string
	// Operator and Version appear in the attribution page and package
	// metadata.
	Operator string
	Version  string
	// Fetcher acquires the remote page images. Tests substitute a fake.
	Fetcher storage.Fetcher
	// Clock supplies the manifest timestamp.
	Clock func() time.Time
}

// Epub is one export session. It ties a platform and a section to a fresh
// unique identifier that is embedded identically in the package manifest
// and the navigation map. A new identifier is generated per session, so
// re-exporting the same section produces a new one.
type Epub struct {
	Platform *models.Platform
	Section  *models.Section
	UUID     string

	layout   layout.Layout
	fetcher  storage.Fetcher
	operator string
	version  string
	clock    func() time.Time
}

// New creates an export session for the given platform and section.
func New(platform *models.Platform, section *models.Section, cfg Config) *Epub {
	if cfg.ResourceRoot == "" {
		cfg.ResourceRoot = DefaultResourceRoot
	}
	if cfg.Operator == "" {
		cfg.Operator = DefaultOperator
	}
	if cfg.Version == "" {
		cfg.Version = version.Version
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = storage.NewHTTPFetcher(cfg.ResourceRoot, 30*time.Second)
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &Epub{
		Platform: platform,
		Section:  section,
		UUID:     uuid.NewString(),
		layout:   layout.New(cfg.ResourceRoot, section.Name),
		fetcher:  cfg.Fetcher,
		operator: cfg.Operator,
		version:  cfg.Version,
		clock:    cfg.Clock,
	}
}

// Save runs the whole export and returns the path of the produced package
// file: acquire resources, build the cache tree, render and write every
// artifact, copy the page images and cover into place, then archive. Every
// step's failure aborts the operation; re-invoking Save simply re-runs all
// steps and overwrites in place.
func (e *Epub) Save(ctx context.Context, outputDir string) (string, error) {
	if e.Section.PageCount() == 0 {
		return "", NewError(StageTemplate, ErrNoPages, "nothing to render")
	}

	// 1. Resource acquisition. After this the section is frozen: every
	// page has an origin image, an extension, and a MIME type.
	if err := e.fetcher.FetchSection(ctx, e.Section); err != nil {
		return "", NewError(StageAcquisition, err, "resource acquisition failed")
	}

	// 2. Output and cache directory trees, idempotent.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", filesystemError(outputDir, err, "failed to create output directory")
	}
	if err := os.MkdirAll(e.layout.MetaInfDir(), 0755); err != nil {
		return "", filesystemError(e.layout.MetaInfDir(), err, "failed to create cache directory")
	}

	// 3. Attribution page.
	start := RenderStartDocument(e.Section, e.Platform, e.operator, e.version)
	if err := e.writeArtifact(layout.StartDocument, start); err != nil {
		return "", err
	}

	// 4. Per-page viewer documents and images, in reading order.
	for _, page := range e.Section.Pages {
		imageName := layout.PageImageName(page)

		doc := RenderPageDocument(strconv.Itoa(page.Index), imageName)
		if err := e.writeArtifact(layout.PageDocumentName(page), doc); err != nil {
			return "", err
		}

		originPath := e.layout.OriginPath(page)
		if err := storage.CopyOrigin(originPath, e.layout.CachePath(imageName)); err != nil {
			return "", filesystemError(originPath, err, "failed to copy page image")
		}

		if page.Index == 0 {
			coverPath := e.layout.CachePath(layout.CoverName(page))
			if err := storage.CopyOrigin(originPath, coverPath); err != nil {
				return "", filesystemError(originPath, err, "failed to copy cover image")
			}
		}
	}

	// 5. Package manifest, mimetype marker, stylesheet, navigation map,
	// container descriptor.
	manifest := RenderManifest(e.Section, e.UUID, e.version, e.clock())
	if err := e.writeArtifact(layout.Manifest, manifest); err != nil {
		return "", err
	}
	if err := e.writeArtifact(layout.Mimetype, "application/epub+zip"); err != nil {
		return "", err
	}
	if err := e.writeArtifact(layout.Stylesheet, RenderStylesheet()); err != nil {
		return "", err
	}
	if err := e.writeArtifact(layout.Navigation, RenderNavigation(e.Section, e.UUID)); err != nil {
		return "", err
	}
	containerPath := e.layout.ContainerPath()
	if err := writeFile(containerPath, RenderContainerDescriptor()); err != nil {
		return "", filesystemError(containerPath, err, "failed to write artifact")
	}

	// 6. Package the cache tree.
	destPath := e.layout.ArchivePath(outputDir)
	if err := archive.Create(e.layout.CacheDir(), destPath); err != nil {
		return "", NewError(StageArchive, err, "failed to package archive")
	}

	return destPath, nil
}

func (e *Epub) writeArtifact(name, content string) *Error {
	path := e.layout.CachePath(name)
	if err := writeFile(path, content); err != nil {
		return filesystemError(path, err, "failed to write artifact")
	}
	return nil
}

func writeFile(path, content string) error {
	return errors.WithStack(os.WriteFile(path, []byte(content), 0644))
}
