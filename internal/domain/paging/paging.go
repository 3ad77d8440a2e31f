// Package paging computes the fixed-size page window over the loaded leaderboard rows.
package paging

// PageSize is the number of rows shown per page.
const PageSize = 5

// Window describes the visible part of a row set.
type Window struct {
	Page       int // 1-based, clamped into [1, max(1, TotalPages)]
	TotalPages int // ceil(rows / PageSize); 0 when there are no rows
	Start      int // inclusive row offset
	End        int // exclusive row offset
	HasPrev    bool
	HasNext    bool
}

// TotalPages returns ceil(rows / PageSize).
func TotalPages(rows int) int {
	if rows <= 0 {
		return 0
	}
	return (rows + PageSize - 1) / PageSize
}

// Compute derives the window for page over rows rows.
func Compute(rows, page int) Window {
	total := TotalPages(rows)
	page = clamp(page, total)

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > rows {
		end = rows
	}
	if start > end {
		start = end
	}
	return Window{
		Page:       page,
		TotalPages: total,
		Start:      start,
		End:        end,
		HasPrev:    page > 1,
		HasNext:    page < total,
	}
}

// Slice returns the rows inside w.
func Slice[T any](rows []T, w Window) []T {
	if w.Start >= len(rows) || w.Start >= w.End {
		return nil
	}
	end := w.End
	if end > len(rows) {
		end = len(rows)
	}
	return rows[w.Start:end]
}

// Next advances one page unless page is already the last.
func Next(page, totalPages int) int {
	page = clamp(page, totalPages)
	if page < totalPages {
		return page + 1
	}
	return page
}

// Prev goes back one page unless page is already the first.
func Prev(page int) int {
	if page > 1 {
		return page - 1
	}
	return 1
}

func clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}
