package core

import "testing"

func TestWrapAndLimit(t *testing.T) {
	tests := []struct {
		n, min, max int
		wrap, limit int
	}{
		{5, 0, 5, 5, 5},
		{6, 0, 5, 0, 5},
		{-1, 0, 5, 5, 0},
		{-100, -99, 99, 99, -99},
		{100, -99, 99, -99, 99},
		{3, 0, 9, 3, 3},
	}

	for _, tt := range tests {
		if got := Wrap(tt.n, tt.min, tt.max); got != tt.wrap {
			t.Errorf("Wrap(%d, %d, %d) = %d, want %d", tt.n, tt.min, tt.max, got, tt.wrap)
		}
		if got := Limit(tt.n, tt.min, tt.max); got != tt.limit {
			t.Errorf("Limit(%d, %d, %d) = %d, want %d", tt.n, tt.min, tt.max, got, tt.limit)
		}
	}
}

func TestScrollWindow(t *testing.T) {
	// 12 entries through 4 rows
	row, top := 0, 0

	for i := 0; i < 3; i++ {
		row, top = ScrollWindow(row, top, 1, 4, 12)
	}
	if row != 3 || top != 0 {
		t.Fatalf("After 3 steps down: row=%d top=%d, want 3,0", row, top)
	}

	// Past the last row scrolls the window
	row, top = ScrollWindow(row, top, 1, 4, 12)
	if row != 3 || top != 1 {
		t.Errorf("Scrolled: row=%d top=%d, want 3,1", row, top)
	}

	// Scroll to the bottom of the list, then wrap to the top
	for i := 0; i < 7; i++ {
		row, top = ScrollWindow(row, top, 1, 4, 12)
	}
	if row != 3 || top != 8 {
		t.Fatalf("At bottom: row=%d top=%d, want 3,8", row, top)
	}
	row, top = ScrollWindow(row, top, 1, 4, 12)
	if row != 0 || top != 0 {
		t.Errorf("Wrap to top: row=%d top=%d, want 0,0", row, top)
	}

	// Going up from the very top wraps to the bottom
	row, top = ScrollWindow(row, top, -1, 4, 12)
	if row != 3 || top != 8 {
		t.Errorf("Wrap to bottom: row=%d top=%d, want 3,8", row, top)
	}
}

func TestScrollWindowShortList(t *testing.T) {
	// 5 entries through 4 rows only scroll by one
	row, top := 3, 0
	row, top = ScrollWindow(row, top, 1, 4, 5)
	if row != 3 || top != 1 {
		t.Errorf("row=%d top=%d, want 3,1", row, top)
	}
	row, top = ScrollWindow(row, top, 1, 4, 5)
	if row != 0 || top != 0 {
		t.Errorf("row=%d top=%d, want 0,0", row, top)
	}
}
