package pagination

import (
	svcErr "github.com/oggyb/vidrec/internal/errors"
)

// Page is a 1-indexed page request: Num pages of Size items each.
type Page struct {
	Size int
	Num  int
}

// New validates size and num. Both must be positive.
func New(size, num int) (Page, error) {
	if size <= 0 || num <= 0 {
		return Page{}, svcErr.ErrInvalidPage
	}
	return Page{Size: size, Num: num}, nil
}

// Offset is the index of the first item on the page.
func (p Page) Offset() int {
	return (p.Num - 1) * p.Size
}

// Apply returns the slice of items that falls on page p.
// Pages past the end yield an empty, non-nil slice.
func Apply[T any](items []T, p Page) []T {
	if p.Size <= 0 || p.Num <= 0 || p.Num-1 > len(items)/p.Size {
		return []T{}
	}
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := len(items)
	if len(items)-start > p.Size {
		end = start + p.Size
	}
	return items[start:end]
}
