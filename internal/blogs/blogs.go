// Package blogs holds the rules for a user's bounded blog collection:
// the per-user cap and the pagination window used when listing.
package blogs

import (
	"errors"

	"github.com/dailyreadnest/backend/internal/models"
)

const (
	// MaxPerUser caps the number of blogs a single user may hold.
	MaxPerUser = 5
	// DefaultPageSize is applied when a listing request omits the limit.
	DefaultPageSize = 5
)

var (
	// ErrLimitReached indicates the owner already holds MaxPerUser blogs.
	ErrLimitReached = errors.New("blog limit reached")
	// ErrNotFound indicates no blog with the given id exists under the owner.
	ErrNotFound = errors.New("blog not found")
)

// Page is one window of a user's blog collection in insertion order.
type Page struct {
	Blogs      []models.Blog
	TotalBlogs int
}

// Bounds normalizes a 1-based page request into an offset and limit.
// Non-positive page numbers fall back to the first page and non-positive
// sizes to DefaultPageSize, mirroring the query-parameter defaults.
func Bounds(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return (page - 1) * pageSize, pageSize
}

// Window slices n items to the half-open interval for the requested page.
// An out-of-range page yields an empty window, never an error.
func Window(n, page, pageSize int) (start, end int) {
	offset, limit := Bounds(page, pageSize)
	if offset >= n {
		return n, n
	}
	end = offset + limit
	if end > n {
		end = n
	}
	return offset, end
}
