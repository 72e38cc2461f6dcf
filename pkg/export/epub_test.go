package export

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mangaport/mangaport/internal/testgen"
	"github.com/mangaport/mangaport/pkg/models"
	"github.com/mangaport/mangaport/pkg/storage"
)

func testEpub(t *testing.T, section *models.Section) (*Epub, string) {
	t.Helper()

	root := t.TempDir()
	outputDir := t.TempDir()

	platform := models.NewPlatform("Example Comics", "https://example.com")
	epub := New(platform, section, Config{
		ResourceRoot: root,
		Version:      "1.2.3",
		Fetcher:      testgen.NewFetcher(root),
		Clock: func() time.Time {
			return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
		},
	})
	return epub, outputDir
}

func TestEpubSave(t *testing.T) {
	section := testSection()
	epub, outputDir := testEpub(t, section)

	destPath, err := epub.Save(context.Background(), outputDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "Demo Ch1.epub"), destPath)

	_, err = os.Stat(destPath)
	require.NoError(t, err)

	zr, err := zip.OpenReader(destPath)
	require.NoError(t, err)
	defer zr.Close()

	t.Run("mimetype is the first entry and stored uncompressed", func(t *testing.T) {
		require.NotEmpty(t, zr.File)
		first := zr.File[0]
		assert.Equal(t, "mimetype", first.Name)
		assert.Equal(t, zip.Store, first.Method)
		assert.Equal(t, "application/epub+zip", string(readArchiveFile(t, &zr.Reader, "mimetype")))
	})

	t.Run("contains the full tree", func(t *testing.T) {
		names := map[string]bool{}
		for _, f := range zr.File {
			names[f.Name] = true
		}
		for _, want := range []string{
			"mimetype",
			"META-INF/container.xml",
			"metadata.opf",
			"toc.ncx",
			"stylesheet.css",
			"start.xhtml",
			"0.html", "1.html", "2.html",
			"0.jpg", "1.jpg", "2.png",
			"cover.jpg",
		} {
			assert.True(t, names[want], "missing archive entry %s", want)
		}
		assert.Len(t, zr.File, 13)
	})

	t.Run("manifest lists every page and the cover", func(t *testing.T) {
		pkg := readManifest(t, &zr.Reader)

		var pageDocs, images int
		var cover *opfItem
		for i, item := range pkg.Manifest.Items {
			switch {
			case item.ID == "cover":
				cover = &pkg.Manifest.Items[i]
			case item.MediaType == "application/xhtml+xml" && item.ID != "start":
				pageDocs++
			case item.MediaType == "image/jpeg" || item.MediaType == "image/png":
				images++
			}
		}
		assert.Equal(t, 3, pageDocs)
		assert.Equal(t, 3, images)
		require.NotNil(t, cover)
		assert.Equal(t, "cover.jpg", cover.Href)
		assert.Equal(t, "image/jpeg", cover.MediaType)

		require.Len(t, pkg.Spine.Itemrefs, 4)
		assert.Equal(t, "start", pkg.Spine.Itemrefs[0].IDRef)
	})

	t.Run("manifest and navigation share the session identifier", func(t *testing.T) {
		pkg := readManifest(t, &zr.Reader)

		var ncx ncxDocument
		require.NoError(t, xml.Unmarshal(readArchiveFile(t, &zr.Reader, "toc.ncx"), &ncx))

		uid := ""
		for _, m := range ncx.Head.Metas {
			if m.Name == "dtb:uid" {
				uid = m.Content
			}
		}
		assert.Equal(t, epub.UUID, pkg.Metadata.Identifier.Text)
		assert.Equal(t, epub.UUID, uid)
	})
}

func TestEpubSaveRerunOverwrites(t *testing.T) {
	section := testSection()
	epub, outputDir := testEpub(t, section)

	first, err := epub.Save(context.Background(), outputDir)
	require.NoError(t, err)

	// A second invocation re-runs every step and overwrites in place.
	second, err := epub.Save(context.Background(), outputDir)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	zr, err := zip.OpenReader(second)
	require.NoError(t, err)
	defer zr.Close()
	assert.Len(t, zr.File, 13)
}

func TestEpubSessionsGetDistinctIdentifiers(t *testing.T) {
	sectionA := testSection()
	epubA, outputDirA := testEpub(t, sectionA)
	sectionB := testSection()
	epubB, outputDirB := testEpub(t, sectionB)

	_, err := epubA.Save(context.Background(), outputDirA)
	require.NoError(t, err)
	_, err = epubB.Save(context.Background(), outputDirB)
	require.NoError(t, err)

	assert.NotEqual(t, epubA.UUID, epubB.UUID)
}

func TestEpubSaveReusedOriginMediaType(t *testing.T) {
	section := models.NewSection("Demo Ch1", "https://example.com/demo")
	section.AddPage(&models.Page{Index: 0, SourceURL: "https://example.com/pages/0.jpg", Extension: "jpg"})
	epub, outputDir := testEpub(t, section)

	// Seed the origin so acquisition reuses it; the page was registered
	// without a MIME type.
	require.NoError(t, os.MkdirAll(epub.layout.OriginsDir(), 0755))
	origin := epub.layout.OriginPath(section.Pages[0])
	require.NoError(t, os.WriteFile(origin, testgen.GenerateImage(t, "image/jpeg"), 0644))
	epub.fetcher = storage.NewHTTPFetcher(epub.layout.Root, time.Second)

	destPath, err := epub.Save(context.Background(), outputDir)
	require.NoError(t, err)

	zr, err := zip.OpenReader(destPath)
	require.NoError(t, err)
	defer zr.Close()

	pkg := readManifest(t, &zr.Reader)
	byID := map[string]opfItem{}
	for _, item := range pkg.Manifest.Items {
		byID[item.ID] = item
	}
	assert.Equal(t, "image/jpeg", byID["img0"].MediaType)
	assert.Equal(t, "image/jpeg", byID["cover"].MediaType)
}

func TestEpubSaveAcquisitionFailure(t *testing.T) {
	section := testSection()
	epub, outputDir := testEpub(t, section)

	fetcher := testgen.NewFetcher(t.TempDir())
	fetcher.FailOnIndex = 1
	epub.fetcher = fetcher

	_, err := epub.Save(context.Background(), outputDir)
	require.Error(t, err)

	var exportErr *Error
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, StageAcquisition, exportErr.Stage)

	// No package file is created when acquisition fails.
	_, statErr := os.Stat(filepath.Join(outputDir, "Demo Ch1.epub"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestEpubSaveEmptySection(t *testing.T) {
	section := models.NewSection("Empty", "")
	epub, outputDir := testEpub(t, section)

	_, err := epub.Save(context.Background(), outputDir)
	require.ErrorIs(t, err, ErrNoPages)

	var exportErr *Error
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, StageTemplate, exportErr.Stage)
}

func readArchiveFile(t *testing.T, zr *zip.Reader, name string) []byte {
	t.Helper()

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		r, err := f.Open()
		require.NoError(t, err)
		defer r.Close()
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		return data
	}
	t.Fatalf("archive entry %s not found", name)
	return nil
}

func readManifest(t *testing.T, zr *zip.Reader) *opfPackage {
	t.Helper()

	pkg := &opfPackage{}
	require.NoError(t, xml.Unmarshal(readArchiveFile(t, zr, "metadata.opf"), pkg))
	return pkg
}
