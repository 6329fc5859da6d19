package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMeta(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		pageSize   int
		totalItems int64
		wantPages  int
	}{
		{"10 items at limit 9 span 2 pages", 2, 9, 10, 2},
		{"exact multiple", 1, 10, 20, 2},
		{"single page", 1, 10, 3, 1},
		{"empty result set", 1, 10, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := BuildMeta(tc.page, tc.pageSize, tc.totalItems)
			assert.Equal(t, tc.wantPages, meta.TotalPages)
			assert.Equal(t, tc.totalItems, meta.TotalItems)
			assert.Equal(t, tc.page, meta.CurrentPage)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, PaginationParams{Page: 1, PageSize: 9}.Offset())
	assert.Equal(t, 9, PaginationParams{Page: 2, PageSize: 9}.Offset())
	assert.Equal(t, 40, PaginationParams{Page: 5, PageSize: 10}.Offset())
}

func TestValidatePaginationParams(t *testing.T) {
	assert.Error(t, ValidatePaginationParams(PaginationParams{Page: 0, PageSize: 10}))
	assert.Error(t, ValidatePaginationParams(PaginationParams{Page: 1, PageSize: 0}))
	assert.Error(t, ValidatePaginationParams(PaginationParams{Page: 1, PageSize: 500}))
	assert.NoError(t, ValidatePaginationParams(PaginationParams{Page: 1, PageSize: 100}))
}
