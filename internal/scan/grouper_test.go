package scan

import "testing"

func file(seq int, path, digest string) *File {
	return &File{Path: path, Seq: seq, Digest: digest}
}

func TestGroupFilesOrdersByDiscoverySequence(t *testing.T) {
	// Out-of-order input simulates hash completion order diverging from
	// discovery order.
	files := []*File{
		file(5, "/m/e.mp4", "dd"),
		file(2, "/m/b.mp4", "aa"),
		file(4, "/m/d.mp4", "bb"),
		file(1, "/m/a.mp4", "bb"),
		file(3, "/m/c.mp4", "aa"),
		file(6, "/m/f.mp4", "bb"),
	}

	groups := groupFiles(files)
	if len(groups) != 2 {
		t.Fatalf("groups: got %d want 2", len(groups))
	}
	// Digest "bb" was discovered first (seq 1), so its group leads.
	if groups[0].Digest != "bb" || groups[1].Digest != "aa" {
		t.Fatalf("group order: got %q, %q", groups[0].Digest, groups[1].Digest)
	}
	wantFirst := []string{"/m/a.mp4", "/m/d.mp4", "/m/f.mp4"}
	for i, f := range groups[0].Files {
		if f.Path != wantFirst[i] {
			t.Fatalf("member order: got %q want %q", f.Path, wantFirst[i])
		}
	}
}

func TestGroupFilesDropsSingletonsAndFailures(t *testing.T) {
	files := []*File{
		file(1, "/m/a.mp4", "aa"),
		file(2, "/m/b.mp4", "bb"),
		{Path: "/m/c.mp4", Seq: 3, Digest: "", Err: &FileError{Path: "/m/c.mp4", Stage: StageHash, Message: "permission denied"}},
		file(4, "/m/d.mp4", "aa"),
		// A file that was never hashed (size prefilter) has no digest.
		file(5, "/m/e.mp4", ""),
	}

	groups := groupFiles(files)
	if len(groups) != 1 {
		t.Fatalf("groups: got %d want 1", len(groups))
	}
	if len(groups[0].Files) != 2 || groups[0].Digest != "aa" {
		t.Fatalf("unexpected group: %+v", groups[0])
	}
}

func TestGroupFilesEmptyInput(t *testing.T) {
	if groups := groupFiles(nil); len(groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(groups))
	}
}

func TestSessionAggregates(t *testing.T) {
	session := &Session{
		Groups: []Group{
			{Digest: "aa", Files: []*File{
				{Path: "/m/a.mp4", Size: 100},
				{Path: "/m/b.mp4", Size: 100},
				{Path: "/m/c.mp4", Size: 100},
			}},
			{Digest: "bb", Files: []*File{
				{Path: "/m/d.mp4", Size: 40},
				{Path: "/m/e.mp4", Size: 40},
			}},
		},
	}

	if got := session.DuplicateFileCount(); got != 5 {
		t.Fatalf("duplicate file count: got %d want 5", got)
	}
	// One copy per group is a keeper; the rest is reclaimable.
	if got := session.ReclaimableBytes(); got != 2*100+40 {
		t.Fatalf("reclaimable bytes: got %d want 240", got)
	}
}
