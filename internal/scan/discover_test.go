package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func testOptions() Options {
	return Options{
		Extensions: []string{".mp4", ".mkv", ".mp3"},
		ChunkSize:  64 * 1024,
		Workers:    1,
	}
}

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkRootFiltersByExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp4"), []byte("a"))
	writeFile(t, filepath.Join(root, "nested", "deep", "b.MKV"), []byte("b"))
	writeFile(t, filepath.Join(root, "notes.txt"), []byte("skip"))
	writeFile(t, filepath.Join(root, "image.jpg"), []byte("skip"))

	d := newDiscoverer(testOptions())
	files, fileErrs, rootErr, err := d.walkRoot(context.Background(), root)
	if err != nil {
		t.Fatalf("walkRoot: %v", err)
	}
	if rootErr != nil {
		t.Fatalf("unexpected root error: %+v", rootErr)
	}
	if len(fileErrs) != 0 {
		t.Fatalf("unexpected file errors: %v", fileErrs)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(files))
	}
	// Extension matching is case-insensitive.
	if filepath.Base(files[1].Path) != "b.MKV" && filepath.Base(files[0].Path) != "b.MKV" {
		t.Fatalf("uppercase extension not matched: %+v", files)
	}
}

func TestWalkRootAssignsMonotonicSequence(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		writeFile(t, filepath.Join(root, name), []byte(name))
	}

	d := newDiscoverer(testOptions())
	files, _, _, err := d.walkRoot(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range files {
		if f.Seq != i {
			t.Fatalf("file %d has sequence %d", i, f.Seq)
		}
	}

	// A second root continues the sequence; numbers are scan-global.
	root2 := t.TempDir()
	writeFile(t, filepath.Join(root2, "d.mp4"), []byte("d"))
	more, _, _, err := d.walkRoot(context.Background(), root2)
	if err != nil {
		t.Fatal(err)
	}
	if len(more) != 1 || more[0].Seq != len(files) {
		t.Fatalf("expected continued sequence %d, got %+v", len(files), more)
	}
}

func TestWalkRootIncludesSymlinkedFilesByDefault(t *testing.T) {
	base := t.TempDir()
	outside := filepath.Join(base, "elsewhere", "real.mp4")
	writeFile(t, outside, []byte("content"))

	root := filepath.Join(base, "library")
	writeFile(t, filepath.Join(root, "a.mp4"), []byte("content"))
	if err := os.Symlink(outside, filepath.Join(root, "copy.mp4")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	d := newDiscoverer(testOptions())
	files, fileErrs, _, err := d.walkRoot(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if len(fileErrs) != 0 {
		t.Fatalf("unexpected file errors: %v", fileErrs)
	}
	// The link target sits outside the root, so it counts as a normal file.
	if len(files) != 2 {
		t.Fatalf("expected symlinked file to be scanned, got %d files", len(files))
	}
}

func TestWalkRootSkipSymlinksOption(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.mp4")
	writeFile(t, target, []byte("content"))
	if err := os.Symlink(target, filepath.Join(root, "link.mp4")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	opts := testOptions()
	opts.SkipSymlinks = true
	d := newDiscoverer(opts)
	files, _, _, err := d.walkRoot(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected symlink to be skipped, got %d files", len(files))
	}
}

func TestWalkRootSymlinkDeduplicatesInTreeTarget(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.mp4")
	writeFile(t, target, []byte("content"))
	if err := os.Symlink(target, filepath.Join(root, "link.mp4")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	d := newDiscoverer(testOptions())
	files, _, _, err := d.walkRoot(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	// The link resolves to a file already inside the walk; it must not
	// create a spurious self-duplicate.
	if len(files) != 1 {
		t.Fatalf("expected resolved-path dedup, got %d files", len(files))
	}
}

func TestWalkRootDeduplicatesAcrossRoots(t *testing.T) {
	base := t.TempDir()
	real := filepath.Join(base, "library")
	writeFile(t, filepath.Join(real, "movie.mp4"), []byte("content"))

	alias := filepath.Join(base, "alias")
	if err := os.Symlink(real, alias); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	d := newDiscoverer(testOptions())
	first, _, _, err := d.walkRoot(context.Background(), real)
	if err != nil {
		t.Fatal(err)
	}
	second, _, _, err := d.walkRoot(context.Background(), alias)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || len(second) != 0 {
		t.Fatalf("same resolved path counted twice: first=%d second=%d", len(first), len(second))
	}
}

func TestWalkRootMissingRootReportedAsRootError(t *testing.T) {
	root := filepath.Join(t.TempDir(), "gone")

	d := newDiscoverer(testOptions())
	files, fileErrs, rootErr, err := d.walkRoot(context.Background(), root)
	if err != nil {
		t.Fatalf("walkRoot: %v", err)
	}
	if rootErr == nil {
		t.Fatal("expected a root error for a missing root")
	}
	if rootErr.Root != root {
		t.Fatalf("unexpected root in error: %q", rootErr.Root)
	}
	if len(files) != 0 || len(fileErrs) != 0 {
		t.Fatalf("missing root produced files=%d fileErrs=%d", len(files), len(fileErrs))
	}
}

func TestWalkRootCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.mp4"), []byte("a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := newDiscoverer(testOptions())
	if _, _, _, err := d.walkRoot(ctx, root); err == nil {
		t.Fatal("expected cancellation error")
	}
}
