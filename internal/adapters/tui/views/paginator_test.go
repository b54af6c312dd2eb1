package views

import "testing"

func TestPaginator_Paging(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(25)

	if p.TotalPages() != 3 {
		t.Errorf("TotalPages = %d, expected 3", p.TotalPages())
	}
	if !p.NextPage() || p.Cursor() != 10 || p.CurrentPage() != 2 {
		t.Errorf("after NextPage cursor=%d page=%d", p.Cursor(), p.CurrentPage())
	}
	p.NextPage()
	if p.NextPage() {
		t.Error("NextPage should stop at the last page")
	}
	start, end := p.VisibleRange()
	if start != 20 || end != 25 {
		t.Errorf("VisibleRange = %d..%d, expected 20..25", start, end)
	}
	if !p.PrevPage() || p.Cursor() != 10 {
		t.Errorf("after PrevPage cursor=%d", p.Cursor())
	}
}

func TestPaginator_CursorFollowsPage(t *testing.T) {
	p := NewPaginator(5)
	p.SetTotal(12)

	for i := 0; i < 6; i++ {
		p.CursorDown()
	}
	if p.Cursor() != 6 || p.PageOffset() != 5 || p.CursorInPage() != 1 {
		t.Errorf("cursor=%d offset=%d inPage=%d", p.Cursor(), p.PageOffset(), p.CursorInPage())
	}

	p.End()
	if p.Cursor() != 11 || p.PageOffset() != 10 {
		t.Errorf("End: cursor=%d offset=%d", p.Cursor(), p.PageOffset())
	}
	p.Home()
	if p.Cursor() != 0 || p.PageOffset() != 0 {
		t.Errorf("Home: cursor=%d offset=%d", p.Cursor(), p.PageOffset())
	}
	if p.CursorUp() {
		t.Error("CursorUp at 0 should report false")
	}
}

func TestPaginator_SetPageSizeKeepsCursorVisible(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(30)
	p.SetCursor(17)

	p.SetPageSize(4)
	start, end := p.VisibleRange()
	if p.Cursor() < start || p.Cursor() >= end {
		t.Errorf("cursor %d outside %d..%d", p.Cursor(), start, end)
	}
}

func TestPaginator_ShrinkingTotalClampsCursor(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(30)
	p.SetCursor(29)
	p.SetTotal(3)
	if p.Cursor() != 2 {
		t.Errorf("Cursor = %d, expected 2", p.Cursor())
	}
}
