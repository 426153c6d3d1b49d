package review

import (
	"fmt"
	"path/filepath"
	"strings"

	"mediadup/internal/scan"
)

// Recommendation names which member of a duplicate group to keep and why.
// It is advice only; nothing in this package touches the filesystem.
type Recommendation struct {
	Digest string `json:"digest"`
	// KeepIndex is the position of the recommended file within the group.
	KeepIndex int    `json:"keep_index"`
	KeepPath  string `json:"keep_path"`
	Reason    string `json:"reason"`
	// QualityConflict is set when a discarded copy is larger than the
	// recommended one, which usually means higher quality.
	QualityConflict bool `json:"quality_conflict,omitempty"`
}

// libraryMarkers are directory names that conventionally sit directly under a
// media root.
var libraryMarkers = map[string]struct{}{
	"MOVIES": {},
	"TV":     {},
}

// FileRoot extracts the media root portion of a path. A path containing a
// MOVIES or TV component resolves to that component's parent; otherwise the
// first two path components stand in for the mount point.
func FileRoot(path string) string {
	cleaned := filepath.Clean(path)
	parts := strings.Split(cleaned, string(filepath.Separator))

	for i, part := range parts {
		if _, ok := libraryMarkers[part]; ok && i > 0 {
			root := strings.Join(parts[:i], string(filepath.Separator))
			if root == "" {
				root = string(filepath.Separator)
			}
			return root
		}
	}

	// Keep leading separator semantics: for "/media/disk/x" the first two
	// components are "" and "media", so take one more.
	limit := 2
	if len(parts) > 0 && parts[0] == "" {
		limit = 3
	}
	if len(parts) > limit {
		parts = parts[:limit]
	}
	root := strings.Join(parts, string(filepath.Separator))
	if root == "" {
		return "unknown"
	}
	return root
}

// Recommend produces one keep-recommendation per duplicate group. The
// preferred copy sits on the root holding the most duplicate-group files in
// the session; ties fall back to the larger file, then to discovery order.
func Recommend(session *scan.Session) []Recommendation {
	if session == nil || len(session.Groups) == 0 {
		return nil
	}

	rootCounts := make(map[string]int)
	for _, g := range session.Groups {
		for _, f := range g.Files {
			rootCounts[FileRoot(f.Path)]++
		}
	}

	recs := make([]Recommendation, 0, len(session.Groups))
	for _, g := range session.Groups {
		recs = append(recs, recommendGroup(g, rootCounts))
	}
	return recs
}

func recommendGroup(g scan.Group, rootCounts map[string]int) Recommendation {
	keep := 0
	reason := "first discovered copy"

	for i := 1; i < len(g.Files); i++ {
		candidate := g.Files[i]
		current := g.Files[keep]
		candidateRoot := FileRoot(candidate.Path)
		currentRoot := FileRoot(current.Path)

		switch {
		case rootCounts[candidateRoot] > rootCounts[currentRoot]:
			keep = i
			reason = fmt.Sprintf("root %s holds more of the collection (%d vs %d files)",
				candidateRoot, rootCounts[candidateRoot], rootCounts[currentRoot])
		case rootCounts[candidateRoot] == rootCounts[currentRoot] && candidate.Size > current.Size:
			keep = i
			reason = fmt.Sprintf("copy on %s is larger", candidateRoot)
		}
	}

	rec := Recommendation{
		Digest:    g.Digest,
		KeepIndex: keep,
		KeepPath:  g.Files[keep].Path,
		Reason:    reason,
	}
	for i, f := range g.Files {
		if i != keep && f.Size > g.Files[keep].Size {
			rec.QualityConflict = true
			break
		}
	}
	return rec
}
