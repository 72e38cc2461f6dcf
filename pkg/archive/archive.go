// Package archive packages an assembled directory tree into a single EPUB
// container file.
package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// mimetypeEntry is the OCF mimetype marker. It must be the first entry of
// the container and must be stored without compression so readers can
// identify the format by looking at fixed offsets.
const mimetypeEntry = "mimetype"

// Create packages the directory tree rooted at srcDir into a container file
// at destPath. The destination is written through a temporary file and
// renamed into place, so a failed run never leaves a truncated archive.
func Create(srcDir, destPath string) error {
	names, err := collectFiles(srcDir)
	if err != nil {
		return err
	}

	tmpPath := destPath + ".tmp"
	destFile, err := os.Create(tmpPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		destFile.Close()
		os.Remove(tmpPath)
	}()

	zw := zip.NewWriter(destFile)

	for _, name := range names {
		method := zip.Deflate
		if name == mimetypeEntry {
			method = zip.Store
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   name,
			Method: method,
		})
		if err != nil {
			return errors.WithStack(err)
		}

		f, err := os.Open(filepath.Join(srcDir, filepath.FromSlash(name)))
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			return errors.WithStack(err)
		}
	}

	if err := zw.Close(); err != nil {
		return errors.WithStack(err)
	}
	if err := destFile.Close(); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(os.Rename(tmpPath, destPath))
}

// collectFiles lists every regular file under srcDir as a forward-slash
// relative path, with the mimetype marker first and the rest sorted.
func collectFiles(srcDir string) ([]string, error) {
	var names []string
	hasMimetype := false

	err := filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if name == mimetypeEntry {
			hasMimetype = true
			return nil
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	sort.Strings(names)
	if hasMimetype {
		names = append([]string{mimetypeEntry}, names...)
	}
	return names, nil
}
