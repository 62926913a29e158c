package core

// Wrap returns max when n is below min and min when n is above max
func Wrap(n, min, max int) int {
	if n < min {
		return max
	}
	if n > max {
		return min
	}
	return n
}

// Limit clamps n into [min, max]
func Limit(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// Bound reports which side of [min, max] a value fell out of
type Bound uint8

const (
	BoundNone Bound = iota
	BoundMin
	BoundMax
)

// WrapHit is Wrap that also reports which bound was crossed
func WrapHit(n, min, max int) (int, Bound) {
	return Wrap(n, min, max), bound(n, min, max)
}

// LimitHit is Limit that also reports which bound was crossed
func LimitHit(n, min, max int) (int, Bound) {
	return Limit(n, min, max), bound(n, min, max)
}

func bound(n, min, max int) Bound {
	switch {
	case n < min:
		return BoundMin
	case n > max:
		return BoundMax
	}
	return BoundNone
}

// ScrollWindow moves a cursor over a list shown through a fixed number of
// rows. row is the cursor position on screen, top is the index of the first
// visible entry. Moving past the first or last row scrolls the window, and
// scrolling past either end of the list wraps to the other end.
func ScrollWindow(row, top, dir, rows, entries int) (int, int) {
	newRow, hit := LimitHit(row+dir, 0, rows-1)
	if hit == BoundNone {
		return newRow, top
	}

	newTop, wrapped := WrapHit(top+dir, 0, entries-rows)
	switch wrapped {
	case BoundMax:
		newRow = 0
	case BoundMin:
		newRow = rows - 1
	}
	return newRow, newTop
}
