package trivia

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParsePage reads a 1-based page number from a query value. Missing,
// non-integer and negative values fall back to page 1; zero and values past
// the last page are kept and yield an empty page.
func ParsePage(raw string) int {
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			return math.MaxInt
		}
		return 1
	}
	if page < 0 {
		return 1
	}
	return page
}

// Paginate returns the items at offsets [(page-1)*QuestionsPerPage, page*QuestionsPerPage).
// Out-of-range pages yield an empty, non-nil slice.
func Paginate[T any](items []T, page int) []T {
	// bound page before multiplying so huge values cannot overflow
	if page < 1 || page > len(items)/QuestionsPerPage+1 {
		return []T{}
	}
	start := (page - 1) * QuestionsPerPage
	if start >= len(items) {
		return []T{}
	}
	end := start + QuestionsPerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
