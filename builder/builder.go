package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/radovskyb/watcher"
	"github.com/rs/zerolog/log"

	"adventune/skrivpost/mempost"
	"adventune/skrivpost/post"
)

// Options configures a Builder.
type Options struct {
	// ContentDir is walked for .md and .textpack posts.
	ContentDir string
	// BuildDir receives one directory per post.
	BuildDir string
	// SourceDir receives posts/{slug}.md when set.
	SourceDir string
	// Drafts builds draft posts instead of skipping them.
	Drafts bool
}

type Builder struct {
	opts     Options
	compiler *post.Compiler

	// guards outputs and serializes builds started by the watcher
	mu sync.Mutex
	// content file -> output directory, relative to the build directory
	outputs map[string]string
}

func New(opts Options, compiler *post.Compiler) *Builder {
	return &Builder{
		opts:     opts,
		compiler: compiler,
		outputs:  make(map[string]string),
	}
}

var contentFilePattern = regexp.MustCompile(`^.*\.(md|textpack)$`)

// Watch starts watching the content directory for changes and rebuilds the
// changed file on every event. It returns once the watcher is running; the
// watcher stops when ctx is done.
func (b *Builder) Watch(ctx context.Context) error {
	log.Debug().Str("path", b.opts.ContentDir).Msg("Watching content directory for changes")

	w := watcher.New()
	w.SetMaxEvents(1)
	// Only watch for write, create, remove, rename and move events
	w.FilterOps(watcher.Write, watcher.Create, watcher.Remove, watcher.Rename, watcher.Move)
	w.AddFilterHook(watcher.RegexFilterHook(contentFilePattern, false))

	if err := w.AddRecursive(b.opts.ContentDir); err != nil {
		return fmt.Errorf("watch content directory: %w", err)
	}

	go func() {
		for {
			select {
			case event := <-w.Event:
				b.rebuild(event)
			case err := <-w.Error:
				log.Error().Err(err).Msg("Watcher error")
			case <-w.Closed:
				return
			case <-ctx.Done():
				w.Close()
				return
			}
		}
	}()

	// Check for changes every 100ms
	go func() {
		if err := w.Start(time.Millisecond * 100); err != nil {
			log.Error().Err(err).Msg("Watcher stopped")
		}
	}()
	w.Wait()
	return nil
}

// Build resets the build directory and builds every content file. A post that
// fails to build is logged and skipped.
func (b *Builder) Build() error {
	log.Info().Str("path", b.opts.ContentDir).Msg("Building content")

	paths, err := getContentFiles(b.opts.ContentDir)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(b.opts.BuildDir); err != nil {
		return fmt.Errorf("reset build directory: %w", err)
	}
	if err := os.MkdirAll(b.opts.BuildDir, os.ModePerm); err != nil {
		return fmt.Errorf("create build directory: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.outputs = make(map[string]string)

	var built, failed int
	for _, path := range paths {
		ok, err := b.buildFile(path)
		if err != nil {
			failed++
			log.Error().Err(err).Str("path", path).Msg("Failed to build content file")
			continue
		}
		if ok {
			built++
		}
	}
	log.Info().Int("posts", built).Int("failed", failed).Msg("Content built")
	return nil
}

// BuildFile builds a single content file. It reports false when the file was
// skipped as a draft.
func (b *Builder) BuildFile(path string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buildFile(path)
}

func (b *Builder) buildFile(path string) (bool, error) {
	log.Debug().Str("path", path).Msg("Building a content file")

	out, err := b.render(path)
	if err != nil {
		return false, err
	}
	if out == nil {
		log.Debug().Str("path", path).Msg("Skipping draft")
		b.removeOutput(path)
		return false, nil
	}

	if previous, ok := b.outputs[path]; ok && previous != out.dir {
		b.removeOutput(path)
	}
	outputDir := filepath.Join(b.opts.BuildDir, out.dir)
	if err := out.files.WriteDir(outputDir); err != nil {
		return false, err
	}
	b.outputs[path] = out.dir

	if out.source != nil && b.opts.SourceDir != "" {
		source := mempost.New()
		if err := source.Add(out.source.RelativePath, []byte(out.source.Content)); err != nil {
			return false, err
		}
		if err := source.WriteDir(b.opts.SourceDir); err != nil {
			return false, fmt.Errorf("write source: %w", err)
		}
	}

	html, _ := out.files.Get(post.IndexFile)
	log.Debug().
		Str("path", path).
		Str("output", outputDir).
		Str("size", humanize.Bytes(uint64(len(html)))).
		Int("files", out.files.Len()).
		Msg("Built content file")
	return true, nil
}

// Rebuilds the content when a file change is detected.
// Rebuild builds only the file that has been changed.
func (b *Builder) rebuild(event watcher.Event) {
	log.Debug().Str("path", event.Path).Str("op", event.Op.String()).Msg("Rebuilding content")

	b.mu.Lock()
	defer b.mu.Unlock()

	switch event.Op {
	case watcher.Write, watcher.Create:
		if _, err := b.buildFile(event.Path); err != nil {
			log.Error().Err(err).Str("path", event.Path).Msg("Failed to build content file")
		}
	case watcher.Remove:
		b.removeOutput(event.Path)
		cleanEmptyDirs(b.opts.BuildDir)
	case watcher.Rename, watcher.Move:
		b.removeOutput(event.OldPath)
		if _, err := b.buildFile(event.Path); err != nil {
			log.Error().Err(err).Str("path", event.Path).Msg("Failed to build moved content file")
		}
		cleanEmptyDirs(b.opts.BuildDir)
	default:
		log.Debug().Msg("Unknown event type")
	}
}

// removeOutput deletes what was built from path. The build root itself is
// never removed, only its index.
func (b *Builder) removeOutput(path string) {
	dir, ok := b.outputs[path]
	if !ok {
		return
	}
	delete(b.outputs, path)

	target := filepath.Join(b.opts.BuildDir, dir)
	if dir == "" || dir == "." {
		target = filepath.Join(b.opts.BuildDir, post.IndexFile)
	}
	if err := os.RemoveAll(target); err != nil {
		log.Error().Err(err).Str("path", target).Msg("Failed to remove build")
	}
}
