package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrInvalidCount is returned when a title count is negative
var ErrInvalidCount = errors.New("invalid title count")

// PageMark records how many titles begin on a page
type PageMark struct {
	Page   int
	Titles int
}

// Marks maps page index to title count.
// It is a value type: every mutation returns a new Marks and leaves the receiver untouched.
// A page is present only while its count is positive.
type Marks struct {
	counts map[int]int
}

// NewMarks builds a Marks from a list of page marks, dropping non-positive counts
func NewMarks(marks ...PageMark) Marks {
	m := Marks{counts: make(map[int]int, len(marks))}
	for _, pm := range marks {
		if pm.Titles > 0 {
			m.counts[pm.Page] = pm.Titles
		}
	}
	return m
}

func (m Marks) clone() Marks {
	c := Marks{counts: make(map[int]int, len(m.counts)+1)}
	maps.Copy(c.counts, m.counts)
	return c
}

// Mark sets the title count for a page. A count of zero removes the page.
func (m Marks) Mark(page, titles int) (Marks, error) {
	if titles < 0 {
		return m, fmt.Errorf("%w: %d for page %d", ErrInvalidCount, titles, page)
	}
	if titles == 0 {
		return m.Unmark(page), nil
	}
	next := m.clone()
	next.counts[page] = titles
	return next, nil
}

// Unmark removes a page; unmarking an unmarked page is a no-op
func (m Marks) Unmark(page int) Marks {
	if _, ok := m.counts[page]; !ok {
		return m
	}
	next := m.clone()
	delete(next.counts, page)
	return next
}

// Toggle unmarks a marked page or marks an unmarked page with one title
func (m Marks) Toggle(page int) Marks {
	if m.IsMarked(page) {
		return m.Unmark(page)
	}
	next := m.clone()
	next.counts[page] = 1
	return next
}

// Clear returns an empty Marks
func (m Marks) Clear() Marks {
	return Marks{}
}

// IsMarked reports whether a page carries a mark
func (m Marks) IsMarked(page int) bool {
	_, ok := m.counts[page]
	return ok
}

// Count returns the title count for a page, 0 when unmarked
func (m Marks) Count(page int) int {
	return m.counts[page]
}

// Len returns the number of marked pages
func (m Marks) Len() int {
	return len(m.counts)
}

// TotalTitles sums the title counts of all marked pages
func (m Marks) TotalTitles() int {
	total := 0
	for _, c := range m.counts {
		total += c
	}
	return total
}

// Snapshot returns the marks in ascending page order
func (m Marks) Snapshot() []PageMark {
	pages := slices.Sorted(maps.Keys(m.counts))
	out := make([]PageMark, 0, len(pages))
	for _, p := range pages {
		out = append(out, PageMark{Page: p, Titles: m.counts[p]})
	}
	return out
}
