package state

import (
	"github.com/glabrego/lemmy-cli/internal/comments"
)

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

func IndexOfID(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// CommentCursor keeps the cursor on commentID after the rows were rebuilt,
// falling back to the clamped previous position.
func CommentCursor(rows []comments.Row, commentID int64, previous int) int {
	for i, row := range rows {
		if row.CommentID == commentID {
			return i
		}
	}
	return ClampCursor(previous, len(rows))
}

// ShouldAppend reports whether the cursor is close enough to the end of the
// list to fetch the next page.
func ShouldAppend(cursor, size, threshold int) bool {
	if size == 0 {
		return false
	}
	return size-1-cursor < threshold
}
