package testgen

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/mangaport/mangaport/pkg/layout"
	"github.com/mangaport/mangaport/pkg/models"
)

// Fetcher is a storage.Fetcher that writes generated fixture images into
// the origins directory instead of downloading anything.
type Fetcher struct {
	Root string
	// FailOnIndex, when non-negative, makes FetchSection fail when it
	// reaches the page with that index.
	FailOnIndex int
	// Calls counts FetchSection invocations.
	Calls int
}

// NewFetcher creates a fetcher rooted at root that never fails.
func NewFetcher(root string) *Fetcher {
	return &Fetcher{Root: root, FailOnIndex: -1}
}

// FetchSection populates every page's origin path with a generated image,
// filling in extension and MIME type for pages that lack them.
func (f *Fetcher) FetchSection(_ context.Context, section *models.Section) error {
	f.Calls++

	l := layout.New(f.Root, section.Name)
	if err := os.MkdirAll(l.OriginsDir(), 0755); err != nil {
		return errors.WithStack(err)
	}

	for _, page := range section.Pages {
		if f.FailOnIndex >= 0 && page.Index == f.FailOnIndex {
			return errors.Errorf("simulated fetch failure on page %d", page.Index)
		}

		if page.Extension == "" {
			page.Extension = "jpg"
		}
		if page.MIME == "" {
			page.MIME = mimeFor(page.Extension)
		}

		data, err := EncodeImage(page.MIME)
		if err != nil {
			return err
		}
		if err := os.WriteFile(l.OriginPath(page), data, 0644); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

func mimeFor(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}
