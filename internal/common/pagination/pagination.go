// Package pagination slices ordered result sets into 1-indexed pages.
package pagination

import (
	commonerrors "github.com/AlibekovAA/microblog/internal/common/errors"
)

// Window describes which part of an ordered result set a page covers.
// Limit is zero when the requested page lies past the last one, and Offset
// is then clamped to Total.
type Window struct {
	Page    int
	Size    int
	Total   int
	Offset  int
	Limit   int
	HasNext bool
	HasPrev bool
}

func Paginate(totalCount, pageNumber, pageSize int) (Window, error) {
	if pageSize < 1 {
		return Window{}, commonerrors.ErrInvalidPageSize
	}
	if pageNumber < 1 {
		return Window{}, commonerrors.ErrInvalidPageNumber
	}
	if totalCount < 0 {
		totalCount = 0
	}

	// Compared by division so a huge page number cannot overflow the offset.
	if pageNumber > 1 && pageNumber-1 > (totalCount-1)/pageSize {
		return Window{
			Page:    pageNumber,
			Size:    pageSize,
			Total:   totalCount,
			Offset:  totalCount,
			HasPrev: true,
		}, nil
	}

	offset := (pageNumber - 1) * pageSize
	limit := min(pageSize, totalCount-offset)

	return Window{
		Page:    pageNumber,
		Size:    pageSize,
		Total:   totalCount,
		Offset:  offset,
		Limit:   limit,
		HasNext: offset+pageSize < totalCount,
		HasPrev: pageNumber > 1,
	}, nil
}

// TotalPages is never below one so an empty listing still has a first page.
func (w Window) TotalPages() int {
	if w.Size < 1 || w.Total == 0 {
		return 1
	}
	return (w.Total + w.Size - 1) / w.Size
}

type Page[T any] struct {
	Items   []T
	Number  int
	Size    int
	Total   int
	HasNext bool
	HasPrev bool
}

func NewPage[T any](items []T, w Window) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:   items,
		Number:  w.Page,
		Size:    w.Size,
		Total:   w.Total,
		HasNext: w.HasNext,
		HasPrev: w.HasPrev,
	}
}

func (p Page[T]) TotalPages() int {
	return Window{Size: p.Size, Total: p.Total}.TotalPages()
}

// Slice pages through an in-memory slice that is already in display order.
func Slice[T any](items []T, pageNumber, pageSize int) (Page[T], error) {
	w, err := Paginate(len(items), pageNumber, pageSize)
	if err != nil {
		return Page[T]{}, err
	}
	if w.Limit == 0 {
		return NewPage[T](nil, w), nil
	}
	return NewPage(items[w.Offset:w.Offset+w.Limit], w), nil
}
