package listing

import (
	"maps"
	"slices"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is the visible state of an Engine. Items are those of the last
// applied fetch; TotalKnown is false until the first fetch completes.
type Snapshot[T any] struct {
	Filters    map[string]string
	Sort       string
	Page       int
	PageSize   int
	TotalItems int
	TotalKnown bool
	Items      []T
	Status     Status
	Err        error
}

// TotalPages is ceil(TotalItems / PageSize); zero for an empty result.
func (s Snapshot[T]) TotalPages() int {
	return pageCount(s.TotalItems, s.PageSize)
}

func pageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total-1)/size + 1
}

func (s Snapshot[T]) clone() Snapshot[T] {
	s.Filters = maps.Clone(s.Filters)
	s.Items = slices.Clone(s.Items)
	return s
}
