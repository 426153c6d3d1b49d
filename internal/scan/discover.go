package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// discoverer walks roots and yields candidate files in a deterministic
// order. It is single-threaded; sequence numbers assigned here are the
// stable total order every later stage sorts by.
type discoverer struct {
	opts Options
	exts map[string]struct{}
	// seen holds symlink-resolved paths across all roots so the same
	// physical file reached from two roots is counted once.
	seen    map[string]struct{}
	nextSeq int
}

func newDiscoverer(opts Options) *discoverer {
	return &discoverer{
		opts: opts,
		exts: opts.extensionSet(),
		seen: make(map[string]struct{}),
	}
}

// walkRoot traverses one root and returns its candidates in traversal order
// plus any per-file discovery errors. A failure on the root entry itself
// (vanished or unreadable after preflight) comes back as a RootError. The
// returned error is non-nil only for context cancellation; filesystem
// problems inside the tree degrade to per-file errors.
func (d *discoverer) walkRoot(ctx context.Context, root string) ([]*File, []FileError, *RootError, error) {
	var files []*File
	var fileErrs []FileError
	var rootErr *RootError

	// Resolve the root itself so a symlinked root is traversed and lands in
	// the same dedup namespace as its target.
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				// The root itself failed; the whole walk is over.
				rootErr = &RootError{Root: root, Message: err.Error()}
				return fs.SkipAll
			}
			// Unreadable directory or an entry that vanished mid-listing.
			fileErrs = append(fileErrs, FileError{Path: path, Stage: StageDiscovery, Message: err.Error()})
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := d.exts[ext]; !ok {
			return nil
		}

		isSymlink := entry.Type()&fs.ModeSymlink != 0
		if isSymlink && d.opts.SkipSymlinks {
			return nil
		}
		if !isSymlink && !entry.Type().IsRegular() {
			return nil
		}

		candidate, ferr := d.resolve(path, entry, isSymlink)
		if ferr != nil {
			fileErrs = append(fileErrs, *ferr)
			return nil
		}
		if candidate != nil {
			files = append(files, candidate)
		}
		return nil
	})

	if walkErr != nil && ctx.Err() != nil {
		return files, fileErrs, rootErr, walkErr
	}
	// WalkDir only returns an error the callback produced; everything else
	// arrives through the err argument above.
	return files, fileErrs, rootErr, nil
}

// resolve stats the entry, applies the cross-root dedup set, and produces a
// candidate File. A nil File with nil error means the path was deduplicated
// or is not a regular file.
func (d *discoverer) resolve(path string, entry fs.DirEntry, isSymlink bool) (*File, *FileError) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &FileError{Path: path, Stage: StageDiscovery, Message: err.Error()}
	}

	var size int64
	if isSymlink {
		// Stat follows the link; targets that are not regular files are
		// silently skipped per policy.
		info, err := os.Stat(abs)
		if err != nil {
			return nil, &FileError{Path: abs, Stage: StageDiscovery, Message: err.Error()}
		}
		if !info.Mode().IsRegular() {
			return nil, nil
		}
		size = info.Size()
	} else {
		info, err := entry.Info()
		if err != nil {
			// Vanished between listing and stat.
			return nil, &FileError{Path: abs, Stage: StageDiscovery, Message: err.Error()}
		}
		size = info.Size()
	}

	resolved := abs
	if target, err := filepath.EvalSymlinks(abs); err == nil {
		resolved = target
	}
	if _, ok := d.seen[resolved]; ok {
		return nil, nil
	}
	d.seen[resolved] = struct{}{}

	file := &File{
		Path:     abs,
		Resolved: resolved,
		Seq:      d.nextSeq,
		Size:     size,
	}
	d.nextSeq++
	return file, nil
}
