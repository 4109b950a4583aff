// Package slug converts recommendation filenames into URL-safe route
// identifiers and resolves them back against a file listing.
//
// A slug is lossy: "stock_recommendations_2025-06-01.txt" generated at
// noon local time becomes "stock-recommendations-2025-06-01-20250601120000".
// Resolution therefore works through an ordered list of matchers, from
// most to least specific, and reports failure with an empty string
// instead of an error.
package slug

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// timestampLayout is the 14-digit local-time suffix appended to slugs.
const timestampLayout = "20060102150405"

// MatchTolerance is how far a file's recorded date may drift from the
// timestamp encoded in a slug and still be treated as the same file.
// Covers clock and serialization jitter between file creation and the
// moment its mtime is listed.
const MatchTolerance = 5 * time.Second

var (
	nonAlnum        = regexp.MustCompile(`[^a-z0-9]+`)
	timestampSuffix = regexp.MustCompile(`-(\d{14})$`)
)

// File pairs a result filename with its recorded date, the minimum a
// matcher needs. Callers convert from their own listing types.
type File struct {
	Name string
	Date time.Time
}

// Generate builds a slug from a filename and its recorded date. The
// extension is stripped, a local-time timestamp suffix is appended when
// the date is set, and the result is lowercased with every run of
// non-alphanumeric characters collapsed to a single hyphen. Generating
// from an already-slugified base is a no-op.
func Generate(filename string, date time.Time) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if !date.IsZero() {
		base += "-" + date.Local().Format(timestampLayout)
	}
	base = strings.ToLower(base)
	base = nonAlnum.ReplaceAllString(base, "-")
	return strings.Trim(base, "-")
}

// Parsed is a slug decomposed into its filename base and optional
// timestamp. Timestamp is the zero time when the slug carries no
// 14-digit suffix.
type Parsed struct {
	Base      string
	Timestamp time.Time
}

// Parse splits a slug into its base and timestamp. Anything that is not
// a trailing hyphen plus exactly 14 digits belongs to the base.
func Parse(s string) Parsed {
	m := timestampSuffix.FindStringSubmatch(s)
	if m == nil {
		return Parsed{Base: s}
	}
	ts, err := time.ParseInLocation(timestampLayout, m[1], time.Local)
	if err != nil {
		return Parsed{Base: s}
	}
	return Parsed{Base: strings.TrimSuffix(s, m[0]), Timestamp: ts}
}

// matcher attempts to resolve a parsed slug against a file listing,
// returning the matched filename or "".
type matcher func(p Parsed, files []File) string

// matchers are tried in priority order. Adding a heuristic means
// appending a function here; the existing ones stay untouched.
var matchers = []matcher{
	matchPrefixAndTimestamp,
	matchPrefix,
}

// MatchFilename resolves a slug back to a filename from the given
// listing. Returns "" when no file matches. Never panics.
func MatchFilename(s string, files []File) string {
	p := Parse(s)
	for _, m := range matchers {
		if name := m(p, files); name != "" {
			return name
		}
	}
	return ""
}

// matchPrefixAndTimestamp accepts the first file whose slugified name
// starts with the parsed base and whose date falls within MatchTolerance
// of the timestamp the slug encodes.
func matchPrefixAndTimestamp(p Parsed, files []File) string {
	if p.Timestamp.IsZero() {
		return ""
	}
	for _, f := range files {
		if !strings.HasPrefix(normalize(f.Name), p.Base) {
			continue
		}
		d := f.Date.Sub(p.Timestamp)
		if d < 0 {
			d = -d
		}
		if d <= MatchTolerance {
			return f.Name
		}
	}
	return ""
}

// matchPrefix accepts the first file whose slugified name starts with
// the parsed base, ignoring timestamps entirely.
func matchPrefix(p Parsed, files []File) string {
	for _, f := range files {
		if strings.HasPrefix(normalize(f.Name), p.Base) {
			return f.Name
		}
	}
	return ""
}

// normalize slugifies a filename without a timestamp so prefix checks
// compare like with like.
func normalize(filename string) string {
	return Generate(filename, time.Time{})
}
