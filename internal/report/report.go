package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"mediadup/internal/scan"
)

// Stats summarizes a scan for the report header.
type Stats struct {
	TotalFiles          int64   `json:"total_files"`
	DuplicateGroups     int     `json:"duplicate_groups"`
	TotalDuplicateFiles int     `json:"total_duplicate_files"`
	ReclaimableBytes    int64   `json:"reclaimable_bytes"`
	BytesHashed         int64   `json:"bytes_hashed"`
	ErrorCount          int64   `json:"error_count"`
	ElapsedSeconds      float64 `json:"elapsed_seconds"`
}

// Document is the JSON report payload written after each scan.
type Document struct {
	SessionID       string           `json:"session_id"`
	ScanTimestamp   time.Time        `json:"scan_timestamp"`
	Roots           []string         `json:"roots"`
	Status          scan.Status      `json:"status"`
	ScanStats       Stats            `json:"scan_stats"`
	DuplicateGroups []scan.Group     `json:"duplicate_groups"`
	FileErrors      []scan.FileError `json:"file_errors,omitempty"`
	RootErrors      []scan.RootError `json:"root_errors,omitempty"`
}

// BuildDocument assembles the report payload from a frozen session.
func BuildDocument(session *scan.Session) Document {
	return Document{
		SessionID:     session.ID.String(),
		ScanTimestamp: session.FinishedAt,
		Roots:         session.Roots,
		Status:        session.Status,
		ScanStats: Stats{
			TotalFiles:          session.FilesSeen,
			DuplicateGroups:     len(session.Groups),
			TotalDuplicateFiles: session.DuplicateFileCount(),
			ReclaimableBytes:    session.ReclaimableBytes(),
			BytesHashed:         session.BytesHashed,
			ErrorCount:          session.ErrorCount,
			ElapsedSeconds:      session.Elapsed().Seconds(),
		},
		DuplicateGroups: session.Groups,
		FileErrors:      session.FileErrors,
		RootErrors:      session.RootErrors,
	}
}

// Write renders both report artifacts into dir and returns their paths. File
// names carry the session finish time so repeated scans never clobber each
// other.
func Write(dir string, session *scan.Session) (jsonPath, summaryPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create report dir: %w", err)
	}

	stamp := session.FinishedAt
	if stamp.IsZero() {
		stamp = time.Now().UTC()
	}
	suffix := stamp.Format("20060102_150405")
	jsonPath = filepath.Join(dir, "duplicate_report_"+suffix+".json")
	summaryPath = filepath.Join(dir, "summary_"+suffix+".txt")

	doc := BuildDocument(session)
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(jsonPath, append(payload, '\n'), 0o644); err != nil {
		return "", "", fmt.Errorf("write report: %w", err)
	}

	if err := os.WriteFile(summaryPath, []byte(RenderSummary(session)), 0o644); err != nil {
		return "", "", fmt.Errorf("write summary: %w", err)
	}
	return jsonPath, summaryPath, nil
}

// RenderSummary produces the human-readable companion to the JSON report.
func RenderSummary(session *scan.Session) string {
	var b strings.Builder

	b.WriteString("MEDIA DUPLICATE SCAN SUMMARY\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Scan completed: %s\n", session.FinishedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Roots scanned: %s\n", strings.Join(session.Roots, ", "))
	fmt.Fprintf(&b, "Total files scanned: %s\n", humanize.Comma(session.FilesSeen))
	fmt.Fprintf(&b, "Duplicate groups found: %d\n", len(session.Groups))
	fmt.Fprintf(&b, "Total duplicate files: %d\n", session.DuplicateFileCount())
	fmt.Fprintf(&b, "Reclaimable space: %s\n", humanize.IBytes(uint64(session.ReclaimableBytes())))
	fmt.Fprintf(&b, "Errors: %d\n\n", session.ErrorCount)

	if len(session.Groups) == 0 {
		b.WriteString("No duplicates found!\n")
	} else {
		b.WriteString("DUPLICATE GROUPS:\n")
		b.WriteString(strings.Repeat("-", 20) + "\n\n")

		for i, group := range session.Groups {
			fmt.Fprintf(&b, "Group %d (Hash: %s...)\n", i+1, shortDigest(group.Digest))
			fmt.Fprintf(&b, "Files (%d):\n", len(group.Files))
			for j, file := range group.Files {
				fmt.Fprintf(&b, "  %d. %s\n", j+1, filepath.Base(file.Path))
				fmt.Fprintf(&b, "     Path: %s\n", file.Path)
				fmt.Fprintf(&b, "     Size: %s\n", humanize.IBytes(uint64(file.Size)))
				if file.Year != nil {
					fmt.Fprintf(&b, "     Year: %d\n", *file.Year)
				}
				if file.Quality != "" {
					fmt.Fprintf(&b, "     Quality: %s\n", file.Quality)
				}
				b.WriteString("\n")
			}
		}
	}

	if len(session.RootErrors) > 0 {
		b.WriteString("SKIPPED ROOTS:\n")
		for _, re := range session.RootErrors {
			fmt.Fprintf(&b, "  %s: %s\n", re.Root, re.Message)
		}
		b.WriteString("\n")
	}
	if len(session.FileErrors) > 0 {
		b.WriteString("FILE ERRORS:\n")
		for _, fe := range session.FileErrors {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", fe.Stage, fe.Path, fe.Message)
		}
	}

	return b.String()
}

func shortDigest(digest string) string {
	if len(digest) <= 16 {
		return digest
	}
	return digest[:16]
}
