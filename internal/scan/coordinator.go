package scan

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Coordinator orchestrates discovery, hashing, and grouping across roots.
// One Coordinator runs one scan at a time; counters reset at the start of
// each Run.
type Coordinator struct {
	opts   Options
	logger *slog.Logger

	mu     sync.Mutex
	status Status

	filesSeen   atomic.Int64
	filesHashed atomic.Int64
	bytesHashed atomic.Int64
	errorCount  atomic.Int64
	groupsFound atomic.Int64

	// digestCounts supports the live groups-found counter; authoritative
	// grouping happens from discovery order after hashing finishes.
	digestMu     sync.Mutex
	digestCounts map[string]int
}

// New constructs a Coordinator. Option problems are rejected here, before
// any filesystem work starts.
func New(opts Options, logger *slog.Logger) (*Coordinator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{
		opts:   opts,
		logger: logger.With("component", "coordinator"),
		status: StatusIdle,
	}, nil
}

// Run scans the supplied roots and returns the frozen session. Per-file and
// per-root problems are captured inside the session; the returned error is
// non-nil only for construction-time misconfiguration, cancellation, or a
// run in which no root was accessible. Even then the session carries partial
// counters for diagnostics.
func (c *Coordinator) Run(ctx context.Context, roots []string) (*Session, error) {
	roots = dedupeRoots(roots)
	if len(roots) == 0 {
		return nil, Wrap(ErrConfiguration, "coordinator", "no roots supplied", nil)
	}

	c.resetCounters()
	session := &Session{
		ID:        uuid.New(),
		Roots:     roots,
		Status:    StatusIdle,
		StartedAt: time.Now().UTC(),
	}

	c.setStatus(StatusDiscovering)
	c.logger.Info("discovery started", "roots", len(roots), "extensions", len(c.opts.sortedExtensions()))

	files, err := c.discover(ctx, session, roots)
	if err != nil {
		return c.fail(session, err)
	}
	if len(session.RootErrors) == len(roots) {
		return c.fail(session, Wrap(ErrNoAccessibleRoots, "coordinator", "every supplied root failed", nil))
	}
	c.logger.Info("discovery finished", "files", len(files), "root_errors", len(session.RootErrors))

	c.setStatus(StatusHashing)
	if err := c.hashAll(ctx, files); err != nil {
		c.collectFileErrors(session, files)
		return c.fail(session, err)
	}

	c.setStatus(StatusGrouping)
	session.Groups = groupFiles(files)
	c.groupsFound.Store(int64(len(session.Groups)))
	c.collectFileErrors(session, files)

	c.freeze(session, StatusCompleted)
	c.logger.Info("scan complete",
		"files", session.FilesSeen,
		"groups", len(session.Groups),
		"errors", session.ErrorCount,
		"elapsed", session.Elapsed())
	return session, nil
}

// discover walks every root in order, assigning sequence numbers and
// recording per-root and per-file errors on the session.
func (c *Coordinator) discover(ctx context.Context, session *Session, roots []string) ([]*File, error) {
	d := newDiscoverer(c.opts)
	var files []*File

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return files, Wrap(ErrCancelled, "coordinator", "discovery interrupted", err)
		}
		if err := CheckRoot(root); err != nil {
			c.logger.Warn("root skipped", "root", root, "error", err)
			session.RootErrors = append(session.RootErrors, RootError{Root: root, Message: err.Error()})
			continue
		}

		rootFiles, fileErrs, rootErr, err := d.walkRoot(ctx, root)
		files = append(files, rootFiles...)
		session.FileErrors = append(session.FileErrors, fileErrs...)
		c.filesSeen.Add(int64(len(rootFiles)))
		c.errorCount.Add(int64(len(fileErrs)))
		if err != nil {
			return files, Wrap(ErrCancelled, "coordinator", "discovery interrupted", err)
		}
		if rootErr != nil {
			// The root passed preflight but failed during the walk, for
			// example when it vanished in between.
			c.logger.Warn("root skipped", "root", root, "error", rootErr.Message)
			session.RootErrors = append(session.RootErrors, RootError{Root: root, Message: rootErr.Message})
			continue
		}
		c.logger.Debug("root discovered", "root", root, "files", len(rootFiles), "errors", len(fileErrs))
	}
	return files, nil
}

// hashAll runs the bounded worker pool. Each worker owns the File records it
// hashes; only the counters and the live digest map are shared.
func (c *Coordinator) hashAll(ctx context.Context, files []*File) error {
	needed := c.selectForHashing(files)

	workers := c.opts.workerCount()
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}
	c.logger.Debug("hashing started", "files", len(files), "workers", workers, "chunk_size", c.opts.ChunkSize)

	jobs := make(chan *File)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				c.processFile(f, needed[f])
			}
		}()
	}

	var cancelled bool
dispatch:
	for _, f := range files {
		select {
		case <-ctx.Done():
			cancelled = true
			break dispatch
		case jobs <- f:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled || ctx.Err() != nil {
		return Wrap(ErrCancelled, "coordinator", "hashing interrupted", ctx.Err())
	}
	return nil
}

// processFile extracts filename metadata and, when required, hashes content.
// It is the single writer for the given File.
func (c *Coordinator) processFile(f *File, hashNeeded bool) {
	meta := ExtractMetadata(filepath.Base(f.Path))
	f.Title = meta.Title
	f.Year = meta.Year
	f.Quality = meta.Quality

	if !hashNeeded {
		return
	}

	digest, read, err := hashFile(f.Path, c.opts.ChunkSize)
	c.bytesHashed.Add(read)
	if err != nil {
		f.Err = &FileError{Path: f.Path, Stage: StageHash, Message: err.Error()}
		c.errorCount.Add(1)
		c.logger.Warn("hash failed", "path", f.Path, "error", err)
		return
	}
	f.Digest = digest
	c.filesHashed.Add(1)

	c.digestMu.Lock()
	c.digestCounts[digest]++
	if c.digestCounts[digest] == 2 {
		c.groupsFound.Add(1)
	}
	c.digestMu.Unlock()
}

// selectForHashing applies the optional size pre-filter: a file whose size
// matches no other candidate cannot be an exact duplicate, so hashing it is
// wasted I/O. The duplicate decision itself is always by digest equality.
func (c *Coordinator) selectForHashing(files []*File) map[*File]bool {
	needed := make(map[*File]bool, len(files))
	if !c.opts.SizePrefilter {
		for _, f := range files {
			needed[f] = true
		}
		return needed
	}

	sizes := make(map[int64]int, len(files))
	for _, f := range files {
		sizes[f.Size]++
	}
	skipped := 0
	for _, f := range files {
		needed[f] = sizes[f.Size] > 1
		if !needed[f] {
			skipped++
		}
	}
	if skipped > 0 {
		c.logger.Debug("size prefilter applied", "skipped", skipped, "total", len(files))
	}
	return needed
}

// collectFileErrors appends hash-stage errors in discovery order so reports
// are reproducible.
func (c *Coordinator) collectFileErrors(session *Session, files []*File) {
	for _, f := range files {
		if f.Err != nil {
			session.FileErrors = append(session.FileErrors, *f.Err)
		}
	}
}

func (c *Coordinator) fail(session *Session, err error) (*Session, error) {
	c.freeze(session, StatusFailed)
	c.logger.Error("scan failed", "error", err,
		"files", session.FilesSeen, "errors", session.ErrorCount)
	return session, err
}

// freeze copies counters onto the session and records the terminal status.
func (c *Coordinator) freeze(session *Session, status Status) {
	session.FilesSeen = c.filesSeen.Load()
	session.BytesHashed = c.bytesHashed.Load()
	session.ErrorCount = c.errorCount.Load()
	session.FinishedAt = time.Now().UTC()
	session.Status = status
	c.setStatus(status)
}

func (c *Coordinator) resetCounters() {
	c.filesSeen.Store(0)
	c.filesHashed.Store(0)
	c.bytesHashed.Store(0)
	c.errorCount.Store(0)
	c.groupsFound.Store(0)
	c.digestMu.Lock()
	c.digestCounts = make(map[string]int)
	c.digestMu.Unlock()
}

func (c *Coordinator) setStatus(status Status) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
}

func (c *Coordinator) currentStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}
