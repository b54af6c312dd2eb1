package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMarks_ZeroCountRemoves(t *testing.T) {
	tests := []struct {
		name  string
		start Marks
	}{
		{"unmarked page", NewMarks()},
		{"page marked once", NewMarks(PageMark{Page: 3, Titles: 1})},
		{"page marked with several titles", NewMarks(PageMark{Page: 3, Titles: 4}, PageMark{Page: 7, Titles: 1})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viaMark, err := tt.start.Mark(3, 0)
			if err != nil {
				t.Fatalf("Mark(3, 0) returned error: %v", err)
			}
			viaUnmark := tt.start.Unmark(3)

			for _, m := range []Marks{viaMark, viaUnmark} {
				for _, pm := range m.Snapshot() {
					if pm.Page == 3 {
						t.Errorf("page 3 still present in snapshot: %+v", m.Snapshot())
					}
				}
				if m.IsMarked(3) {
					t.Error("IsMarked(3) = true after removal")
				}
			}
		})
	}
}

func TestMarks_MarkNegativeCount(t *testing.T) {
	m := NewMarks(PageMark{Page: 1, Titles: 2})
	got, err := m.Mark(1, -1)
	if !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
	if got.Count(1) != 2 {
		t.Errorf("failed Mark changed state: count = %d", got.Count(1))
	}
}

func TestMarks_MarkOverwrites(t *testing.T) {
	m, _ := NewMarks().Mark(5, 1)
	m, _ = m.Mark(5, 3)
	if m.Count(5) != 3 {
		t.Errorf("Count(5) = %d, expected 3", m.Count(5))
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", m.Len())
	}
}

func TestMarks_ToggleInvolution(t *testing.T) {
	tests := []struct {
		name  string
		start Marks
		page  int
	}{
		{"unmarked page", NewMarks(PageMark{Page: 2, Titles: 1}), 4},
		{"marked page", NewMarks(PageMark{Page: 4, Titles: 1}), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := tt.start.Toggle(tt.page)
			twice := once.Toggle(tt.page)

			if diff := cmp.Diff(tt.start.Snapshot(), twice.Snapshot()); diff != "" {
				t.Errorf("toggle twice changed marks (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("first toggle sets count 1", func(t *testing.T) {
		m := NewMarks().Toggle(9)
		if m.Count(9) != 1 {
			t.Errorf("Count(9) = %d, expected 1", m.Count(9))
		}
	})
}

func TestMarks_CopyOnWrite(t *testing.T) {
	base := NewMarks(PageMark{Page: 0, Titles: 1})
	_ = base.Toggle(1)
	_, _ = base.Mark(0, 5)
	_ = base.Unmark(0)

	want := []PageMark{{Page: 0, Titles: 1}}
	if diff := cmp.Diff(want, base.Snapshot()); diff != "" {
		t.Errorf("receiver was mutated (-want +got):\n%s", diff)
	}
}

func TestMarks_SnapshotSorted(t *testing.T) {
	m := NewMarks()
	for _, p := range []int{12, 3, 40, 0, 7} {
		m = m.Toggle(p)
	}
	m, _ = m.Mark(7, 2)

	want := []PageMark{
		{Page: 0, Titles: 1},
		{Page: 3, Titles: 1},
		{Page: 7, Titles: 2},
		{Page: 12, Titles: 1},
		{Page: 40, Titles: 1},
	}
	if diff := cmp.Diff(want, m.Snapshot()); diff != "" {
		t.Errorf("Snapshot mismatch (-want +got):\n%s", diff)
	}
	if m.TotalTitles() != 6 {
		t.Errorf("TotalTitles() = %d, expected 6", m.TotalTitles())
	}
}

func TestMarks_Clear(t *testing.T) {
	m := NewMarks(PageMark{Page: 1, Titles: 1}, PageMark{Page: 2, Titles: 2}).Clear()
	if m.Len() != 0 {
		t.Errorf("Len() = %d after Clear", m.Len())
	}
	if len(m.Snapshot()) != 0 {
		t.Errorf("Snapshot not empty after Clear: %+v", m.Snapshot())
	}
	// A cleared store is still usable
	if m.Toggle(1).Count(1) != 1 {
		t.Error("Toggle after Clear did not mark page")
	}
}
