package layout

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mangaport/mangaport/pkg/models"
)

func TestLayoutPaths(t *testing.T) {
	l := New("manga_res", "Demo Ch1")

	assert.Equal(t, filepath.Join("manga_res", "Demo Ch1"), l.SectionDir())
	assert.Equal(t, filepath.Join("manga_res", "Demo Ch1", "origins"), l.OriginsDir())
	assert.Equal(t, filepath.Join("manga_res", "Demo Ch1", ".cache"), l.CacheDir())
	assert.Equal(t, filepath.Join("manga_res", "Demo Ch1", ".cache", "META-INF"), l.MetaInfDir())
	assert.Equal(t, filepath.Join("manga_res", "Demo Ch1", ".cache", "META-INF", "container.xml"), l.ContainerPath())
	assert.Equal(t, filepath.Join("manga_res", "Demo Ch1", ".cache", "metadata.opf"), l.CachePath(Manifest))
	assert.Equal(t, filepath.Join("output", "Demo Ch1.epub"), l.ArchivePath("output"))
}

func TestLayoutOriginPath(t *testing.T) {
	l := New("manga_res", "Demo Ch1")
	p := &models.Page{Index: 2, Extension: "png"}

	assert.Equal(t, filepath.Join("manga_res", "Demo Ch1", "origins", "2.png"), l.OriginPath(p))
}

func TestPageNames(t *testing.T) {
	p := &models.Page{Index: 7, Extension: "jpg"}

	assert.Equal(t, "7.jpg", PageImageName(p))
	assert.Equal(t, "7.html", PageDocumentName(p))
	assert.Equal(t, "cover.jpg", CoverName(p))
}
