// internal/api/v2/params.go
package api

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinelog/cinelog-go/internal/pagination"
)

// parsePagination reads the page and page_size query parameters, enforcing
// the request-layer bounds (page >= 1, 1 <= page_size <= 100) before the
// services run. Absent parameters fall back to the defaults.
func parsePagination(ctx echo.Context) (*pagination.Pagination, error) {
	page := 1
	if raw := ctx.QueryParam("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("page must be an integer: %w", err)
		}
		if parsed < 1 {
			return nil, fmt.Errorf("page must be >= 1, got %d", parsed)
		}
		page = parsed
	}

	pageSize := pagination.DefaultPageSize
	if raw := ctx.QueryParam("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("page_size must be an integer: %w", err)
		}
		if parsed < 1 || parsed > pagination.MaxPageSize {
			return nil, fmt.Errorf("page_size must be between 1 and %d, got %d", pagination.MaxPageSize, parsed)
		}
		pageSize = parsed
	}

	return pagination.New(page, pageSize), nil
}
