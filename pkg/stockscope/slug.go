package stockscope

import (
	"context"

	"stockscope/internal/slug"
)

// SlugFor derives the shareable URL path segment for a report.
func SlugFor(f ResultFile) string {
	return slug.Generate(f.Name, f.Date)
}

// ResolveSlug maps a URL slug back to a report filename from a listing.
// Returns "" when nothing matches; the caller decides how to report
// "not found".
func ResolveSlug(s string, files []ResultFile) string {
	converted := make([]slug.File, len(files))
	for i, f := range files {
		converted[i] = slug.File{Name: f.Name, Date: f.Date}
	}
	return slug.MatchFilename(s, converted)
}

// ResolveSlug on the client resolves against a fresh listing.
func (c *Client) ResolveSlug(ctx context.Context, s string) (string, error) {
	files, err := c.Results(ctx)
	if err != nil {
		return "", err
	}
	return ResolveSlug(s, files), nil
}
