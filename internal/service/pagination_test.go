package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/service-bay/ticket-service/internal/config"
	apperrors "github.com/service-bay/ticket-service/pkg/util/errorutil"
)

func TestPaginator_Resolve(t *testing.T) {
	p := paginator{cfg: config.PaginationConfig{DefaultPageSize: 10, MaxPageSize: 100}}

	cases := []struct {
		name       string
		req        PageRequest
		count      int
		wantPage   int
		wantSize   int
		wantOffset int
		wantNext   bool
		wantPrev   bool
	}{
		{name: "defaults", count: 25, wantPage: 1, wantSize: 10, wantOffset: 0, wantNext: true},
		{name: "middle", req: PageRequest{Page: 2}, count: 25, wantPage: 2, wantSize: 10, wantOffset: 10, wantNext: true, wantPrev: true},
		{name: "last", req: PageRequest{Page: LastPage}, count: 25, wantPage: 3, wantSize: 10, wantOffset: 20, wantPrev: true},
		{name: "size clamped", req: PageRequest{PageSize: 500}, count: 250, wantPage: 1, wantSize: 100, wantNext: true},
		{name: "empty listing", count: 0, wantPage: 1, wantSize: 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info, offset, err := p.resolve(tc.req, tc.count)
			require.NoError(t, err)
			assert.Equal(t, tc.wantPage, info.Page)
			assert.Equal(t, tc.wantSize, info.PageSize)
			assert.Equal(t, tc.wantOffset, offset)
			assert.Equal(t, tc.wantNext, info.HasNext)
			assert.Equal(t, tc.wantPrev, info.HasPrevious)
			assert.Equal(t, tc.count, info.Count)
		})
	}
}

func TestPaginator_InvalidPage(t *testing.T) {
	p := paginator{cfg: config.PaginationConfig{DefaultPageSize: 10, MaxPageSize: 100}}

	for _, page := range []int{4, -7} {
		_, _, err := p.resolve(PageRequest{Page: page}, 25)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
		assert.Equal(t, "Invalid page.", err.Error())
	}
}
