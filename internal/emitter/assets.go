package emitter

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/catpages/internal/components"
	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/depgraph"
	"git.home.luguber.info/inful/catpages/internal/errors"
	"git.home.luguber.info/inful/catpages/internal/util/sets"
)

// AssetsName identifies the asset copier.
const AssetsName = "Assets"

// Assets copies every non-Markdown file of the content directory to the same
// relative path in the output.
type Assets struct {
	dir    string
	ignore []string
}

var _ PartialEmitter = (*Assets)(nil)

func NewAssets(contentDir string, ignore []string) *Assets {
	return &Assets{dir: contentDir, ignore: ignore}
}

func (e *Assets) Name() string { return AssetsName }

func (e *Assets) Components() []components.Component { return nil }

// files lists asset paths relative to the content directory.
func (e *Assets) files() ([]string, error) {
	var out []string
	err := filepath.WalkDir(e.dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(e.dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if content.Ignored(rel, d.Name(), e.ignore) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && !content.IsMarkdown(rel) {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "walk assets").WithPath(e.dir).Build()
	}
	return out, nil
}

func (e *Assets) DependencyGraph(_ context.Context, bctx *BuildCtx, _ []*content.Page) (*depgraph.Graph, error) {
	files, err := e.files()
	if err != nil {
		return nil, err
	}
	g := depgraph.New()
	for _, rel := range files {
		abs, err := filepath.Abs(filepath.Join(e.dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		g.AddEdge(filepath.ToSlash(abs), bctx.OutputPath(rel, ""))
	}
	return g, nil
}

func (e *Assets) Emit(ctx context.Context, bctx *BuildCtx, pages []*content.Page) ([]string, error) {
	return e.EmitOnly(ctx, bctx, pages, nil)
}

func (e *Assets) EmitOnly(ctx context.Context, bctx *BuildCtx, _ []*content.Page, targets sets.Set[string]) ([]string, error) {
	files, err := e.files()
	if err != nil {
		return nil, err
	}
	var written []string
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		out := bctx.OutputPath(rel, "")
		if targets != nil && !targets.Has(out) {
			continue
		}
		if err := copyFile(filepath.Join(e.dir, filepath.FromSlash(rel)), filepath.FromSlash(out)); err != nil {
			return written, NewEmitterError(e.Name(), "copy "+rel, err)
		}
		written = append(written, out)
	}
	bctx.Recorder.AddFilesEmitted(e.Name(), len(written))
	return written, nil
}

func copyFile(src, dst string) error {
	// #nosec G304 -- src comes from walking the content directory.
	in, err := os.Open(src)
	if err != nil {
		return errors.FileSystemError("open asset").WithCause(err).WithPath(src).Build()
	}
	defer in.Close()

	// #nosec G301 -- the output directory is a public site.
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.FileSystemError("create output directory").WithCause(err).WithPath(dst).Build()
	}
	// #nosec G302 G304 -- generated assets are meant to be world readable.
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.FileSystemError("create asset").WithCause(err).WithPath(dst).Build()
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.FileSystemError("copy asset").WithCause(err).WithPath(dst).Build()
	}
	return out.Close()
}
