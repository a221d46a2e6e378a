package helpers

import (
	"math"

	"github.com/yigit/activityhub/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
	DefaultPage     = 1 // Default page is 1-based
)

// EffectivePageSize applies the default and the hard cap to a requested page size
func EffectivePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	size = EffectivePageSize(size)
	if page < 1 {
		page = DefaultPage
	}

	return uint64((page - 1) * size), uint64(size)
}

// NewPaginationInfo creates the pagination block of a list response.
// returned is the number of items actually placed on the page.
func NewPaginationInfo(total int64, page, size, returned int) dto.PaginationInfo {
	size = EffectivePageSize(size)
	if page < 1 {
		page = DefaultPage
	}

	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(size)))
	}

	skip := int64((page - 1) * size)

	return dto.PaginationInfo{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    size,
		HasMore:     skip+int64(returned) < total,
	}
}
