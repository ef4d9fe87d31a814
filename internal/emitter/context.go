package emitter

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/catpages/internal/components"
	"git.home.luguber.info/inful/catpages/internal/content"
	"git.home.luguber.info/inful/catpages/internal/errors"
	"git.home.luguber.info/inful/catpages/internal/logfields"
	"git.home.luguber.info/inful/catpages/internal/metrics"
	"git.home.luguber.info/inful/catpages/internal/slugs"
)

// BuildCtx gives emitters access to build-wide settings and services.
type BuildCtx struct {
	// BuildID uniquely identifies this build.
	BuildID string

	// OutputDir is where files are written.
	OutputDir string

	Site   components.Site
	Static components.StaticResources

	// Logger provides structured logging for emitter operations.
	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// NewBuildCtx fills in a discarding logger and a no-op recorder when none
// are given. The logger is used as is; callers attach the build ID.
func NewBuildCtx(buildID, outputDir string, site components.Site, logger *slog.Logger, recorder metrics.Recorder) *BuildCtx {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &BuildCtx{
		BuildID:   buildID,
		OutputDir: outputDir,
		Site:      site,
		Logger:    logger,
		Recorder:  recorder,
	}
}

// OutputPath returns the slash-separated path a slug is written to.
func (b *BuildCtx) OutputPath(slug, ext string) string {
	return slugs.JoinSegments(filepath.ToSlash(b.OutputDir), slug+ext)
}

// PageProps assembles component props for rendering page.
func (b *BuildCtx) PageProps(page *content.Page, all []*content.Page) components.Props {
	return components.Props{
		Site:      b.Site,
		Page:      page,
		AllPages:  all,
		Resources: components.PageResources(slugs.PathToRoot(page.Slug), b.Static),
	}
}

// Write stores data at the output path of slug and returns that path.
func (b *BuildCtx) Write(slug, ext string, data []byte) (string, error) {
	out := b.OutputPath(slug, ext)
	full := filepath.Clean(filepath.FromSlash(out))
	if !within(filepath.Clean(b.OutputDir), full) {
		return "", errors.FileSystemError("output path escapes the output directory").
			WithPath(full).
			WithSlug(slug).
			Build()
	}
	// #nosec G301 -- the output directory is a public site.
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", errors.FileSystemError("create output directory").
			WithCause(err).
			WithPath(filepath.Dir(full)).
			Build()
	}
	// #nosec G306 -- generated pages are meant to be world readable.
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", errors.FileSystemError("write output file").
			WithCause(err).
			WithPath(full).
			Build()
	}
	b.Logger.Debug("Wrote output", logfields.Path(out), logfields.Slug(slug))
	return out, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
