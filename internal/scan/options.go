package scan

import (
	"runtime"
	"sort"
	"strings"

	"mediadup/internal/config"
)

const (
	minChunkSize = 4 * 1024
	maxChunkSize = 8 * 1024 * 1024
)

// Options configures a Coordinator.
type Options struct {
	// Extensions is the set of recognized file extensions, lowercase with a
	// leading dot.
	Extensions []string
	// ChunkSize is the hashing read size in bytes.
	ChunkSize int
	// Workers is the hashing worker pool size. Zero selects one worker per
	// CPU core.
	Workers int
	// SkipSymlinks excludes symlinks from discovery. When unset, a symlink
	// whose target resolves to a regular file is scanned like any other
	// candidate.
	SkipSymlinks bool
	// SizePrefilter skips hashing files whose size matches no other
	// candidate. The duplicate decision itself is always by digest.
	SizePrefilter bool
}

// OptionsFromConfig maps the scan section of the application config onto
// engine options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Extensions:    cfg.Scan.Extensions,
		ChunkSize:     cfg.ChunkSize(),
		Workers:       cfg.Scan.Workers,
		SkipSymlinks:  !cfg.Scan.FollowSymlinks,
		SizePrefilter: cfg.Scan.SizePrefilter,
	}
}

func (o *Options) validate() error {
	if len(o.Extensions) == 0 {
		return Wrap(ErrConfiguration, "options", "no extensions configured", nil)
	}
	if o.ChunkSize < minChunkSize || o.ChunkSize > maxChunkSize {
		return Wrap(ErrConfiguration, "options", "chunk size out of range", nil)
	}
	if o.Workers < 0 {
		return Wrap(ErrConfiguration, "options", "worker count must not be negative", nil)
	}
	return nil
}

func (o *Options) workerCount() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// extensionSet returns a lookup set of normalized extensions.
func (o *Options) extensionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.Extensions))
	for _, ext := range o.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

// dedupeRoots drops repeated roots while preserving first-seen order.
func dedupeRoots(roots []string) []string {
	seen := make(map[string]struct{}, len(roots))
	out := make([]string, 0, len(roots))
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		if _, ok := seen[root]; ok {
			continue
		}
		seen[root] = struct{}{}
		out = append(out, root)
	}
	return out
}

// sortedExtensions returns the configured extensions in stable order, for
// logging.
func (o *Options) sortedExtensions() []string {
	out := make([]string, 0, len(o.Extensions))
	for ext := range o.extensionSet() {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
