package utils

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// PaginationParams represents pagination query parameters
type PaginationParams struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Search string `json:"search"`
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage int  `json:"current_page"`
	PerPage     int  `json:"per_page"`
	Total       int  `json:"total"`
	LastPage    int  `json:"last_page"`
	From        int  `json:"from"`
	To          int  `json:"to"`
	HasMore     bool `json:"has_more"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message"`
	Data         interface{}    `json:"data"`
	Pagination   PaginationMeta `json:"pagination"`
	LimitOptions []int          `json:"limit_options"`
}

var limitOptions = []int{10, 25, 50, 100}

// GetPaginationParams extracts pagination parameters from the query string.
// limit=0 disables paging.
func GetPaginationParams(c *fiber.Ctx) PaginationParams {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "0"))

	if page < 1 {
		page = 1
	}
	if limit != 0 && !isLimitOption(limit) {
		limit = 25
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search", ""),
	}
}

func isLimitOption(limit int) bool {
	for _, option := range limitOptions {
		if limit == option {
			return true
		}
	}
	return false
}

// CalculatePagination calculates pagination metadata. A non-positive limit puts
// everything on one page.
func CalculatePagination(page, limit, total int) PaginationMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = total
		page = 1
	}

	lastPage := 1
	if limit > 0 {
		lastPage = int(math.Ceil(float64(total) / float64(limit)))
	}

	// Pages past the end are empty; checking first keeps page*limit from overflowing
	from, to := 0, 0
	if total > 0 && page <= lastPage {
		from = (page-1)*limit + 1
		to = page * limit
		if to > total {
			to = total
		}
	}

	return PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		LastPage:    lastPage,
		From:        from,
		To:          to,
		HasMore:     page < lastPage,
	}
}

// Paginate returns the page of items described by meta
func Paginate[T any](items []T, meta PaginationMeta) []T {
	if meta.From < 1 || meta.To < meta.From || meta.To > len(items) {
		return []T{}
	}
	return items[meta.From-1 : meta.To]
}

// PaginatedResponseBuilder creates a paginated response
func PaginatedResponseBuilder(c *fiber.Ctx, message string, data interface{}, pagination PaginationMeta) error {
	return c.JSON(PaginatedResponse{
		Success:      true,
		Message:      message,
		Data:         data,
		Pagination:   pagination,
		LimitOptions: GetLimitOptions(),
	})
}

// GetLimitOptions returns available limit options
func GetLimitOptions() []int {
	return append([]int(nil), limitOptions...)
}
