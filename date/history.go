package date

import "slices"

type point[T any] struct {
	on Date
	v  T
}

// History is a series of values keyed by day, kept in chronological order
// with at most one value per day.
type History[T any] struct {
	points []point[T]
}

// Len returns the number of days with a value.
func (h *History[T]) Len() int { return len(h.points) }

func (h *History[T]) search(on Date) (int, bool) {
	return slices.BinarySearchFunc(h.points, on, func(p point[T], on Date) int { return p.on.Compare(on) })
}

// Append records v on day on, replacing any value already recorded that day.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := h.search(on)
	if found {
		h.points[i].v = v
		return h
	}
	h.points = slices.Insert(h.points, i, point[T]{on, v})
	return h
}

// ValueAsOf returns the value recorded on day, or else the latest one before
// it, with the day it was recorded. ok is false when nothing precedes day.
func (h *History[T]) ValueAsOf(day Date) (on Date, v T, ok bool) {
	i, found := h.search(day)
	if !found {
		i--
	}
	if i < 0 {
		return on, v, false
	}
	p := h.points[i]
	return p.on, p.v, true
}
