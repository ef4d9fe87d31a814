package content

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"git.home.luguber.info/inful/catpages/internal/errors"
	"git.home.luguber.info/inful/catpages/internal/frontmatter"
	"git.home.luguber.info/inful/catpages/internal/logfields"
	"git.home.luguber.info/inful/catpages/internal/markdown"
	"git.home.luguber.info/inful/catpages/internal/slugs"
)

var markdownExtensions = map[string]struct{}{".md": {}, ".markdown": {}}

// LoaderOptions configures discovery and parsing.
type LoaderOptions struct {
	Dir           string
	Ignore        []string
	IncludeDrafts bool
	Workers       int
	Markdown      markdown.Options
}

// Loader discovers Markdown files under a content directory and parses them
// into pages.
type Loader struct {
	opts     LoaderOptions
	renderer *markdown.Renderer
	logger   *slog.Logger
}

func NewLoader(opts LoaderOptions, logger *slog.Logger) *Loader {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{opts: opts, renderer: markdown.NewRenderer(opts.Markdown), logger: logger}
}

// Discover returns content-relative, slash-separated paths of every Markdown
// file that is not ignored, sorted.
func (l *Loader) Discover() ([]string, error) {
	root := l.opts.Dir
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "content directory not accessible").
			WithPath(root).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.ConfigError("content path is not a directory").WithPath(root).Build()
	}

	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if Ignored(rel, d.Name(), l.opts.Ignore) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsMarkdown(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "walk content directory").
			WithPath(root).
			Build()
	}
	sort.Strings(files)
	return files, nil
}

// Ignored reports whether a content entry is skipped: hidden entries and
// anything matching a pattern, either against the whole relative path or the
// entry name.
func Ignored(rel, name string, patterns []string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// IsMarkdown reports whether rel names a Markdown source.
func IsMarkdown(rel string) bool {
	_, ok := markdownExtensions[strings.ToLower(path.Ext(rel))]
	return ok
}

type loadResult struct {
	page *Page
	err  error
}

// Load discovers and parses all content. Files are parsed by a bounded pool
// of workers; the returned slice is ordered by relative path. Draft pages are
// dropped unless IncludeDrafts is set.
func (l *Loader) Load(ctx context.Context) ([]*Page, error) {
	files, err := l.Discover()
	if err != nil {
		return nil, err
	}

	results := make([]loadResult, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := min(l.opts.Workers, max(len(files), 1))
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				page, err := l.LoadFile(files[i])
				results[i] = loadResult{page: page, err: err}
			}
		}()
	}

dispatch:
	for i := range files {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages := make([]*Page, 0, len(files))
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		if r.page.Frontmatter.Draft && !l.opts.IncludeDrafts {
			l.logger.Debug("Skipping draft", logfields.Path(r.page.RelativePath))
			continue
		}
		pages = append(pages, r.page)
	}
	l.logger.Debug("Loaded content", logfields.Count(len(pages)), logfields.Path(l.opts.Dir))
	return pages, nil
}

// LoadFile reads and parses a single content-relative file.
func (l *Loader) LoadFile(rel string) (*Page, error) {
	abs, err := filepath.Abs(filepath.Join(l.opts.Dir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "resolve content path").
			WithPath(rel).
			Build()
	}
	// #nosec G304 -- path comes from walking the configured content directory.
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read content file").
			WithPath(abs).
			Build()
	}
	return l.Parse(rel, abs, raw)
}

// Parse builds a page from raw file content.
func (l *Loader) Parse(rel, abs string, raw []byte) (*Page, error) {
	fm, body, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "parse frontmatter").
			WithPath(abs).
			Build()
	}
	if fm.Title == "" {
		fm.Title = TitleFromPath(rel)
	}

	doc, err := l.renderer.Render(body)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "render markdown").
			WithPath(abs).
			Build()
	}

	fingerprint, err := Fingerprint(fm.Fields, body)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "fingerprint content").
			WithPath(abs).
			Build()
	}

	description := fm.Description
	if description == "" {
		description = ExtractDescription(string(doc.HTML))
	}

	return &Page{
		Slug:         slugs.SlugifyFilePath(rel),
		FilePath:     abs,
		RelativePath: rel,
		Frontmatter:  fm,
		Body:         body,
		Document:     doc,
		Description:  description,
		Fingerprint:  fingerprint,
	}, nil
}
