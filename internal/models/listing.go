package models

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Page is a normalized 1-indexed pagination window.
type Page struct {
	Number int
	Size   int
}

// NormalizedPage clamps untrusted pagination values to sane defaults rather
// than rejecting them; page and size originate from query strings.
func NormalizedPage(number, size int) Page {
	if number <= 0 {
		number = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the number of records to skip for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages computes ceil(total / size) for the page size.
func (p Page) TotalPages(total int64) int {
	if p.Size <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(p.Size)))
}

// Video listing sort fields accepted from clients.
const (
	VideoSortCreatedAt = "createdAt"
	VideoSortTitle     = "title"
	VideoSortDuration  = "duration"
	VideoSortViews     = "views"
)

// VideoFilter describes an optional text search combined (AND) with an
// optional owner filter, plus the requested sort order.
type VideoFilter struct {
	Query   string
	OwnerID string
	SortBy  string
	SortAsc bool

	// IncludeUnpublished widens the listing to unpublished videos; handlers
	// set it only when the caller filters by their own channel.
	IncludeUnpublished bool
}

// VideoPage is one page of a filtered video listing together with the total
// count computed under the same filter.
type VideoPage struct {
	Items      []VideoWithOwner
	TotalCount int64
	Page       int
	TotalPages int
}

// CommentPage is one page of a video's comments.
type CommentPage struct {
	Items      []CommentWithOwner
	TotalCount int64
	Page       int
	TotalPages int
}
