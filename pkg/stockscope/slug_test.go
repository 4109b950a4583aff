package stockscope

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugRoundTrip(t *testing.T) {
	files := []ResultFile{
		{Name: "stock_recommendations_2025-06-02.txt", Date: time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)},
		{Name: "stock_recommendations_2025-06-01.txt", Date: time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)},
	}

	for _, f := range files {
		s := SlugFor(f)
		assert.Equal(t, f.Name, ResolveSlug(s, files), "slug %q", s)
	}
}

func TestResolveSlugNoMatch(t *testing.T) {
	files := []ResultFile{
		{Name: "stock_recommendations_2025-06-01.txt", Date: time.Now()},
	}
	assert.Empty(t, ResolveSlug("something-else-entirely", files))
	assert.Empty(t, ResolveSlug("anything", nil))
}
