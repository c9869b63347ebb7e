package static

import (
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// CachedFileInfo holds metadata for a static file used in HTTP cache headers.
type CachedFileInfo struct {
	ETag         string
	Size         int64
	LastModified time.Time
}

// StaticCache keeps ETag and Last-Modified metadata for an asset tree so
// conditional requests never touch the file contents.
type StaticCache struct {
	fileLock sync.RWMutex
	entries  map[string]CachedFileInfo
	fs       fs.FS
	started  time.Time
}

// NewStaticCache hashes every file in fsys. Embedded files carry no
// modification time, so they report the time the cache was built.
func NewStaticCache(fsys fs.FS) (*StaticCache, error) {
	c := &StaticCache{
		entries: make(map[string]CachedFileInfo),
		fs:      fsys,
		started: time.Now().UTC().Truncate(time.Second),
	}

	c.fileLock.Lock()
	defer c.fileLock.Unlock()

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		f, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}

		h := sha256.New()
		if _, err := io.Copy(h, f); err != nil {
			return err
		}
		modTime := info.ModTime()
		if modTime.IsZero() {
			modTime = c.started
		}

		c.entries[path] = CachedFileInfo{
			ETag:         fmt.Sprintf("\"%x\"", h.Sum(nil)),
			Size:         info.Size(),
			LastModified: modTime,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *StaticCache) lookup(path string) (CachedFileInfo, bool) {
	s.fileLock.RLock()
	defer s.fileLock.RUnlock()
	ci, ok := s.entries[path]
	return ci, ok
}

func cacheControl(path string) string {
	ext := filepath.Ext(path)
	// dist/ assets are not fingerprinted.
	if strings.HasPrefix(path, "dist/") && (ext == ".css" || ext == ".js") {
		return "no-cache, must-revalidate"
	}
	switch ext {
	case ".css", ".js":
		return "public, max-age=86400, stale-while-revalidate=3600"
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".woff", ".woff2", ".ttf":
		return "public, max-age=31536000, stale-while-revalidate=86400"
	default:
		return "public, max-age=3600, stale-while-revalidate=300"
	}
}

// ServeStaticFile serves files below prefix with validators from the cache.
func (s *StaticCache) ServeStaticFile(prefix string) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := strings.TrimPrefix(c.Request().URL.Path, prefix)

		ci, ok := s.lookup(path)
		if !ok {
			return echo.ErrNotFound
		}

		if inm := c.Request().Header.Get("If-None-Match"); inm != "" && inm == ci.ETag {
			return c.NoContent(http.StatusNotModified)
		}
		if ims := c.Request().Header.Get(echo.HeaderIfModifiedSince); ims != "" {
			if t, err := http.ParseTime(ims); err == nil && ci.LastModified.Before(t.Add(time.Second)) {
				return c.NoContent(http.StatusNotModified)
			}
		}

		f, err := s.fs.Open(path)
		if err != nil {
			return echo.ErrNotFound
		}
		defer f.Close()

		h := c.Response().Header()
		h.Set(echo.HeaderCacheControl, cacheControl(path))
		h.Set("ETag", ci.ETag)
		h.Set(echo.HeaderLastModified, ci.LastModified.Format(http.TimeFormat))

		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return c.Stream(http.StatusOK, contentType, f)
	}
}
