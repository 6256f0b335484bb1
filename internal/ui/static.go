package ui

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/tdewolff/minify"
	"github.com/vlatan/video-notes/internal/models"
	"github.com/vlatan/video-notes/web"
)

// Media types of the files which are minified and precompressed,
// the rest is served straight from the embedded filesystem
var minifiable = map[string]string{
	".css":         "text/css",
	".js":          "application/javascript",
	".webmanifest": "application/manifest+json",
}

// StaticFiles gets the map containing the static files
func (s *service) StaticFiles() models.StaticFiles {
	return s.staticFiles
}

// parseStaticFiles fingerprints every file under dir
// and keeps minified and gzipped copies of the minifiable ones in memory.
// Keys are URL paths, e.g. /static/css/style.css.
func parseStaticFiles(m *minify.M, dir string) (models.StaticFiles, error) {

	sf := make(models.StaticFiles)

	err := fs.WalkDir(web.Files, dir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Already minified files are left alone
		if d.IsDir() || strings.Contains(d.Name(), ".min.") {
			return nil
		}

		fi, err := loadStaticFile(m, file)
		if err != nil {
			return err
		}

		sf["/"+strings.TrimPrefix(file, "/")] = fi
		return nil
	})

	return sf, err
}

// loadStaticFile reads one embedded file
func loadStaticFile(m *minify.M, file string) (*models.FileInfo, error) {

	b, err := fs.ReadFile(web.Files, file)
	if err != nil {
		return nil, err
	}

	stat, err := fs.Stat(web.Files, file)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(b)
	fi := &models.FileInfo{
		Etag:      hex.EncodeToString(sum[:8]),
		MediaType: minifiable[path.Ext(file)],
		ModTime:   stat.ModTime(), // zero for embedded files
	}

	if fi.MediaType == "" {
		return fi, nil
	}

	if fi.Bytes, err = m.Bytes(fi.MediaType, b); err != nil {
		return nil, err
	}

	if fi.Compressed, err = gzipBytes(fi.Bytes); err != nil {
		return nil, err
	}

	return fi, nil
}

func gzipBytes(b []byte) ([]byte, error) {

	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}

	if _, err := gz.Write(b); err != nil {
		return nil, err
	}

	// Close flushes the remaining bytes and the footer
	if err := gz.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
