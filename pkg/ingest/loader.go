package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/scanmerge/pkg/engine"
)

// ErrNotUTF8 marks a document whose bytes are not valid UTF-8.
var ErrNotUTF8 = errors.New("document is not valid UTF-8")

// Document is one candidate input file. Err is set when the file could not
// be read or parsed; Root is then the null value.
type Document struct {
	ID   string
	Path string
	Root engine.Value
	Err  error
}

// Loader enumerates and parses scanner exports from a directory.
type Loader struct {
	extensions map[string]struct{}
	workers    int
	logger     *zap.Logger
}

// NewLoader creates a loader accepting the given extensions (with or without
// the leading dot, compared case-insensitively).
func NewLoader(extensions []string, workers int, logger *zap.Logger) *Loader {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	return &Loader{extensions: exts, workers: workers, logger: logger}
}

// Load lists dir, keeps regular files with a recognized extension in
// lexicographic name order and parses each of them. Only an unreadable
// directory is an error; per-file failures are reported in Document.Err.
func (l *Loader) Load(ctx context.Context, dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if _, ok := l.extensions[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !isRegular(entry, path) {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)

	docs := make([]Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			docs[i] = ParseFile(path)
			l.logger.Debug("Parsed document", zap.String("document", docs[i].ID), zap.Bool("ok", docs[i].Err == nil))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// isRegular follows symlinks so linked exports are picked up too.
func isRegular(entry os.DirEntry, path string) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ParseFile reads and decodes a single document. Failures are recorded on
// the returned Document rather than returned.
func ParseFile(path string) Document {
	base := filepath.Base(path)
	doc := Document{
		ID:   strings.TrimSuffix(base, filepath.Ext(base)),
		Path: path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		doc.Err = fmt.Errorf("failed to read %s: %w", base, err)
		return doc
	}
	if !utf8.Valid(data) {
		doc.Err = fmt.Errorf("failed to parse %s: %w", base, ErrNotUTF8)
		return doc
	}

	root, err := engine.Decode(bytes.NewReader(data))
	if err != nil {
		doc.Err = fmt.Errorf("failed to parse %s: %w", base, err)
		return doc
	}
	doc.Root = root
	return doc
}
