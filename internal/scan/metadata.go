package scan

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Metadata holds the optional fields derived from a filename. Extraction is
// best-effort and purely advisory; it never influences duplicate grouping.
type Metadata struct {
	Title   string
	Year    *int
	Quality string
}

const minPlausibleYear = 1900

// fourDigitRun locates candidate year tokens; boundary and plausibility
// checks happen in extractYear.
var fourDigitRun = regexp.MustCompile(`\d{4}`)

// qualityToken matches known release quality markers as whole tokens.
var qualityToken = regexp.MustCompile(`(?i)(?:^|[\s._\-(\[])` +
	`(2160p|1080p|720p|480p|4k|uhd|blu-ray|bluray|brrip|bdrip|dvdrip|webrip|web-dl|webdl|hdtv|hdrip|dvd)` +
	`(?:[\s._\-)\]]|$)`)

var canonicalQuality = map[string]string{
	"2160p":   "2160p",
	"1080p":   "1080p",
	"720p":    "720p",
	"480p":    "480p",
	"4k":      "4K",
	"uhd":     "UHD",
	"blu-ray": "BluRay",
	"bluray":  "BluRay",
	"brrip":   "BRRip",
	"bdrip":   "BDRip",
	"dvdrip":  "DVDRip",
	"webrip":  "WEBRip",
	"web-dl":  "WEB-DL",
	"webdl":   "WEB-DL",
	"hdtv":    "HDTV",
	"hdrip":   "HDRip",
	"dvd":     "DVD",
}

// releaseJunk strips quality, codec, and source tokens when deriving a
// display title.
var releaseJunk = regexp.MustCompile(`(?i)\b(2160p|1080p|720p|480p|4k|uhd|bluray|blu-ray|brrip|bdrip|dvdrip|webrip|web-dl|webdl|hdtv|hdrip|dvd|x264|x265|h264|h265|hevc|aac|ac3|dts|atmos|remux|proper|repack|extended|unrated)\b`)

var bracketedChunk = regexp.MustCompile(`\[.*?\]`)
var yearInBrackets = regexp.MustCompile(`[(\[{]\d{4}[)\]}]`)
var multiSpace = regexp.MustCompile(`\s+`)

// NoLower keeps acronyms and episode markers (S01E02, WEB) intact.
var titleCaser = cases.Title(language.Und, cases.NoLower)

// ExtractMetadata parses a filename (not a full path) into an optional year,
// an optional quality tag, and a cleaned display title.
func ExtractMetadata(filename string) Metadata {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return Metadata{
		Title:   extractTitle(stem),
		Year:    extractYear(stem),
		Quality: extractQuality(stem),
	}
}

// extractYear returns the leftmost 4-digit token that sits between
// separators and falls in [1900, current year + 1].
func extractYear(stem string) *int {
	maxYear := time.Now().Year() + 1
	for _, loc := range fourDigitRun.FindAllStringIndex(stem, -1) {
		if !separatedAt(stem, loc[0], loc[1]) {
			continue
		}
		year, err := strconv.Atoi(stem[loc[0]:loc[1]])
		if err != nil {
			continue
		}
		if year >= minPlausibleYear && year <= maxYear {
			return &year
		}
	}
	return nil
}

// separatedAt reports whether the token at [start, end) is enclosed by
// separators (or the string boundary) on both sides.
func separatedAt(s string, start, end int) bool {
	if start > 0 && !isSeparator(s[start-1]) {
		return false
	}
	if end < len(s) && !isSeparator(s[end]) {
		return false
	}
	return true
}

func isSeparator(b byte) bool {
	switch b {
	case ' ', '.', '_', '-', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

// extractQuality returns the canonical form of the leftmost recognized
// quality token, or the empty string.
func extractQuality(stem string) string {
	match := qualityToken.FindStringSubmatch(stem)
	if match == nil {
		return ""
	}
	return canonicalQuality[strings.ToLower(match[1])]
}

// extractTitle derives a human-readable title from a filename stem: release
// separators become spaces, year and release tokens are stripped, and the
// result is title-cased.
func extractTitle(stem string) string {
	name := strings.ReplaceAll(stem, ".", " ")
	name = strings.ReplaceAll(name, "_", " ")
	name = yearInBrackets.ReplaceAllString(name, "")
	name = bracketedChunk.ReplaceAllString(name, "")
	name = releaseJunk.ReplaceAllString(name, "")

	// Drop a bare trailing year left after separator replacement.
	fields := strings.Fields(name)
	maxYear := time.Now().Year() + 1
	for len(fields) > 1 {
		last := fields[len(fields)-1]
		if year, err := strconv.Atoi(last); err == nil && year >= minPlausibleYear && year <= maxYear {
			fields = fields[:len(fields)-1]
			continue
		}
		if last == "-" {
			fields = fields[:len(fields)-1]
			continue
		}
		break
	}
	name = strings.Join(fields, " ")
	name = multiSpace.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return titleCaser.String(name)
}
