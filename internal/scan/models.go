package scan

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle of a scan session.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusDiscovering Status = "discovering"
	StatusHashing     Status = "hashing"
	StatusGrouping    Status = "grouping"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// Stage identifies where a per-file error occurred.
type Stage string

const (
	StageDiscovery Stage = "discovery"
	StageHash      Stage = "hash"
)

// FileError is a structured per-file error record surfaced to the report and
// log layers. It never aborts a scan.
type FileError struct {
	Path    string `json:"path"`
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// RootError records a root that contributed no files (missing, not a
// directory, or fully inaccessible).
type RootError struct {
	Root    string `json:"root"`
	Message string `json:"message"`
}

// File is one discovered candidate. The discoverer creates it with path,
// size, and sequence; the hashing stage fills digest, metadata, or the error
// record exactly once. It is read-only afterwards.
type File struct {
	// Path is the absolute path as discovered.
	Path string `json:"path"`
	// Resolved is the symlink-resolved path used for cross-root dedup.
	Resolved string `json:"-"`
	// Seq is the discovery sequence number. Group and member ordering is
	// derived from it, never from hash completion order.
	Seq  int   `json:"-"`
	Size int64 `json:"size"`
	// Digest is the hex-encoded SHA-256 of the file content; empty until
	// hashed and empty forever when Err is set.
	Digest  string     `json:"digest,omitempty"`
	Title   string     `json:"title,omitempty"`
	Year    *int       `json:"year,omitempty"`
	Quality string     `json:"quality,omitempty"`
	Err     *FileError `json:"error,omitempty"`
}

// Group is a set of two or more files sharing one content digest. Member
// order is discovery order.
type Group struct {
	Digest string  `json:"digest"`
	Files  []*File `json:"files"`
}

// Session is the complete record of one scan invocation. The coordinator
// owns it exclusively; it is frozen once Run returns.
type Session struct {
	ID         uuid.UUID   `json:"id"`
	Roots      []string    `json:"roots"`
	Status     Status      `json:"status"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	FilesSeen  int64       `json:"files_seen"`
	// BytesHashed counts bytes actually read by the hasher, including
	// partial reads that ended in an error.
	BytesHashed int64       `json:"bytes_hashed"`
	ErrorCount  int64       `json:"error_count"`
	Groups      []Group     `json:"groups"`
	FileErrors  []FileError `json:"file_errors,omitempty"`
	RootErrors  []RootError `json:"root_errors,omitempty"`
}

// DuplicateFileCount returns the number of files that belong to some group.
func (s *Session) DuplicateFileCount() int {
	total := 0
	for _, g := range s.Groups {
		total += len(g.Files)
	}
	return total
}

// ReclaimableBytes returns the bytes freed if every group kept one member.
func (s *Session) ReclaimableBytes() int64 {
	var total int64
	for _, g := range s.Groups {
		for _, f := range g.Files[1:] {
			total += f.Size
		}
	}
	return total
}

// Elapsed returns the wall-clock duration of the scan.
func (s *Session) Elapsed() time.Duration {
	if s.FinishedAt.IsZero() || s.StartedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
