package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"mediadup/internal/report"
	"mediadup/internal/scan"
)

func testSession() *scan.Session {
	year := 1995
	started := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	return &scan.Session{
		ID:          uuid.New(),
		Roots:       []string{"/media/a", "/media/b"},
		Status:      scan.StatusCompleted,
		StartedAt:   started,
		FinishedAt:  started.Add(42 * time.Second),
		FilesSeen:   10,
		BytesHashed: 4096,
		ErrorCount:  1,
		Groups: []scan.Group{
			{
				Digest: "0123456789abcdef0123456789abcdef",
				Files: []*scan.File{
					{Path: "/media/a/Heat.1995.1080p.mkv", Size: 2048, Digest: "0123456789abcdef0123456789abcdef", Title: "Heat", Year: &year, Quality: "1080p"},
					{Path: "/media/b/heat-backup.mkv", Size: 2048, Digest: "0123456789abcdef0123456789abcdef"},
				},
			},
		},
		FileErrors: []scan.FileError{
			{Path: "/media/a/locked.mkv", Stage: scan.StageHash, Message: "permission denied"},
		},
	}
}

func TestWriteProducesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	session := testSession()

	jsonPath, summaryPath, err := report.Write(dir, session)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if filepath.Base(jsonPath) != "duplicate_report_20260830_100042.json" {
		t.Fatalf("unexpected report name: %s", filepath.Base(jsonPath))
	}
	if filepath.Base(summaryPath) != "summary_20260830_100042.txt" {
		t.Fatalf("unexpected summary name: %s", filepath.Base(summaryPath))
	}

	payload, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var doc report.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if doc.SessionID != session.ID.String() {
		t.Fatalf("session id mismatch: %s", doc.SessionID)
	}
	if doc.ScanStats.TotalFiles != 10 || doc.ScanStats.DuplicateGroups != 1 {
		t.Fatalf("unexpected stats: %+v", doc.ScanStats)
	}
	if doc.ScanStats.ReclaimableBytes != 2048 {
		t.Fatalf("reclaimable: got %d want 2048", doc.ScanStats.ReclaimableBytes)
	}
	if len(doc.DuplicateGroups) != 1 || len(doc.DuplicateGroups[0].Files) != 2 {
		t.Fatalf("groups lost in round trip: %+v", doc.DuplicateGroups)
	}
	first := doc.DuplicateGroups[0].Files[0]
	if first.Title != "Heat" || first.Year == nil || *first.Year != 1995 {
		t.Fatalf("metadata lost: %+v", first)
	}
}

func TestRenderSummaryContent(t *testing.T) {
	summary := report.RenderSummary(testSession())

	for _, want := range []string{
		"MEDIA DUPLICATE SCAN SUMMARY",
		"Total files scanned: 10",
		"Duplicate groups found: 1",
		"Total duplicate files: 2",
		"Group 1 (Hash: 0123456789abcdef...)",
		"Path: /media/a/Heat.1995.1080p.mkv",
		"Year: 1995",
		"Quality: 1080p",
		"FILE ERRORS:",
		"[hash] /media/a/locked.mkv: permission denied",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q\n%s", want, summary)
		}
	}
}

func TestRenderSummaryNoDuplicates(t *testing.T) {
	session := testSession()
	session.Groups = nil
	session.FileErrors = nil

	summary := report.RenderSummary(session)
	if !strings.Contains(summary, "No duplicates found!") {
		t.Fatalf("missing empty-result line:\n%s", summary)
	}
	if strings.Contains(summary, "DUPLICATE GROUPS") {
		t.Fatal("group section should be omitted when empty")
	}
}
