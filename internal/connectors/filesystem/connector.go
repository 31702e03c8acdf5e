// Package filesystem discovers and watches documents under a local directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/logger"
)

// ErrClosed is returned by operations on a closed connector.
var ErrClosed = errors.New("connector closed")

// DefaultInclude matches every supported document format.
var DefaultInclude = []string{"**/*.{pdf,docx,txt}"}

// File is a discovered document on disk.
type File struct {
	// Path is the path as found under the root.
	Path string

	// RelPath is Path relative to the root, slash-separated.
	RelPath string

	// Size in bytes.
	Size int64
}

// Ext returns the lower-cased extension without the dot.
func (f File) Ext() string {
	return domain.ExtensionOf(f.Path)
}

// Connector finds files under a root directory using doublestar
// include and exclude patterns.
type Connector struct {
	root    string
	include []string
	exclude []string

	mu      sync.Mutex
	closed  bool
	cancels []context.CancelFunc
}

// New creates a connector for root. A nil include list means DefaultInclude.
func New(root string, include, exclude []string) *Connector {
	if len(include) == 0 {
		include = DefaultInclude
	}
	return &Connector{
		root:    ResolvePath(root),
		include: include,
		exclude: exclude,
	}
}

// Root returns the watched directory.
func (c *Connector) Root() string {
	return c.root
}

// Validate checks the root exists and is a directory, and that every
// pattern is well formed.
func (c *Connector) Validate() error {
	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: root path is not a directory: %s", domain.ErrInvalidArgument, c.root)
	}
	for _, p := range append(append([]string{}, c.include...), c.exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: invalid pattern %q", domain.ErrInvalidArgument, p)
		}
	}
	return nil
}

// Matches reports whether relPath is selected by the include patterns and
// not rejected by an exclude pattern. Patterns are tried against the full
// relative path and against the base name.
func (c *Connector) Matches(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	if isHidden(relPath) {
		return false
	}
	if matchAny(c.exclude, relPath) {
		return false
	}
	return matchAny(c.include, relPath) || matchAny(c.include, lowerExt(relPath))
}

// lowerExt lower-cases the extension so "GUIDE.PDF" matches "*.pdf".
func lowerExt(relPath string) string {
	ext := filepath.Ext(relPath)
	return strings.TrimSuffix(relPath, ext) + strings.ToLower(ext)
}

func matchAny(patterns []string, relPath string) bool {
	base := filepath.Base(relPath)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// Discover walks the root and returns matching files sorted by path.
// Hidden files and directories are skipped.
func (c *Connector) Discover(ctx context.Context) ([]File, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var files []File
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := c.rel(path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if rel != "." && isHidden(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !c.Matches(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, File{Path: path, RelPath: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", c.root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	logger.Debug("discovered %d files under %s", len(files), c.root)
	return files, nil
}

// Load reads a file into a raw document ready for ingestion.
// The document URI is the absolute, cleaned form of path.
func (c *Connector) Load(path string) (domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("read %s: %w", path, err)
	}
	uri, err := filepath.Abs(path)
	if err != nil {
		uri = filepath.Clean(path)
	}
	return domain.RawDocument{
		URI:      uri,
		MIMEType: detectMIMEType(path),
		Content:  content,
	}, nil
}

// LoadAll reads every file, stopping at the first failure.
func (c *Connector) LoadAll(ctx context.Context, files []File) ([]domain.RawDocument, error) {
	docs := make([]domain.RawDocument, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := c.Load(f.Path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Close stops any running watches. Safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
	return nil
}

func (c *Connector) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Connector) rel(path string) (string, error) {
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// detectMIMEType returns the MIME type for a filename, without parameters.
func detectMIMEType(path string) string {
	if format, ok := domain.FormatFromPath(path); ok {
		return format.MIMEType()
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return domain.MIMETypeText
	}
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
