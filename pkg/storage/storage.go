// Package storage acquires the remote page images of a section into its
// local origins directory. It is the only component that mutates a
// section's pages: when a page was registered without an extension or MIME
// type, the fetcher fills both in from the downloaded bytes.
package storage

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"

	"github.com/mangaport/mangaport/pkg/layout"
	"github.com/mangaport/mangaport/pkg/models"
)

// Fetcher populates, for every page of a section, a readable image file at
// the deterministic origin path for that page.
type Fetcher interface {
	FetchSection(ctx context.Context, section *models.Section) error
}

// HTTPFetcher downloads page images over HTTP. Images already present at
// their origin path are not downloaded again.
type HTTPFetcher struct {
	root   string
	client *http.Client
	log    logger.Logger
}

// NewHTTPFetcher creates a fetcher storing origins under the given resource
// root.
func NewHTTPFetcher(root string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		root:   root,
		client: &http.Client{Timeout: timeout},
		log:    logger.New(),
	}
}

// FetchSection downloads every page image into
// {root}/{section.Name}/origins/{index}.{extension}.
func (f *HTTPFetcher) FetchSection(ctx context.Context, section *models.Section) error {
	l := layout.New(f.root, section.Name)

	if err := os.MkdirAll(l.OriginsDir(), 0755); err != nil {
		return errors.WithStack(err)
	}

	for _, page := range section.Pages {
		// A previous run may already have populated this origin. The
		// MIME type still has to be filled when the caller left it out.
		if page.Extension != "" {
			if _, err := os.Stat(l.OriginPath(page)); err == nil {
				if page.MIME == "" {
					page.MIME = mimeForExtension(page.Extension)
				}
				continue
			}
		}

		data, err := f.download(ctx, page.SourceURL)
		if err != nil {
			return errors.Wrapf(err, "failed to fetch page %d", page.Index)
		}

		if page.Extension == "" || page.MIME == "" {
			fillPageType(page, data)
		}

		originPath := l.OriginPath(page)
		if err := os.WriteFile(originPath, data, 0644); err != nil {
			return errors.WithStack(err)
		}

		f.log.Info("fetched page", logger.Data{
			"section": section.Name,
			"page":    page.Index,
			"path":    originPath,
		})
	}

	return nil
}

func (f *HTTPFetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

// fillPageType attaches extension and MIME type to a page, touching only
// the fields that are absent. The URL suffix wins when it names a known
// image type; otherwise the downloaded bytes are sniffed.
func fillPageType(page *models.Page, data []byte) {
	if page.Extension == "" {
		if ext := extensionFromURL(page.SourceURL); ext != "" {
			page.Extension = ext
		} else {
			page.Extension = strings.TrimPrefix(mimetype.Detect(data).Extension(), ".")
		}
	}

	if page.MIME == "" {
		if mime := mimeForExtension(page.Extension); mime != "application/octet-stream" {
			page.MIME = mime
		} else {
			page.MIME = mimetype.Detect(data).String()
		}
	}
}

func extensionFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
	switch ext {
	case "jpg", "jpeg", "png", "gif", "webp":
		return ext
	}
	return ""
}

func mimeForExtension(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	}
	return "application/octet-stream"
}

// CopyOrigin copies a page's origin image to dst. It fails when resource
// acquisition never produced the origin file.
func CopyOrigin(originPath, dst string) error {
	src, err := os.Open(originPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.WithStack(err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return errors.WithStack(err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(out.Close())
}
