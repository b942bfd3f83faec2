package util

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// ParsePage reads page/limit query values. Invalid or missing values fall back to
// the defaults and limit is capped at MaxLimit.
func ParsePage(rawPage, rawLimit string) (page, limit int) {
	page = parsePositive(rawPage, DefaultPage)
	limit = parsePositive(rawLimit, DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Pages returns the number of pages needed for total items.
func Pages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func parsePositive(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
