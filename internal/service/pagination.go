package service

import (
	"net/http"

	"github.com/service-bay/ticket-service/internal/config"
	apperrors "github.com/service-bay/ticket-service/pkg/util/errorutil"
)

// LastPage requests the final page of a listing.
const LastPage = -1

// PageRequest selects one page of a paginated listing. Zero values pick
// the first page and the default size.
type PageRequest struct {
	Page     int
	PageSize int
}

// PageInfo describes the page that was served.
type PageInfo struct {
	Count       int
	Page        int
	PageSize    int
	HasNext     bool
	HasPrevious bool
}

// ErrInvalidPage is returned for page numbers outside the listing.
func ErrInvalidPage() error {
	return apperrors.NewDomainError("NOT_FOUND", "Invalid page.", http.StatusNotFound, nil)
}

type paginator struct {
	cfg config.PaginationConfig
}

func (p paginator) size(req PageRequest) int {
	switch {
	case req.PageSize <= 0:
		return p.cfg.DefaultPageSize
	case req.PageSize > p.cfg.MaxPageSize:
		return p.cfg.MaxPageSize
	default:
		return req.PageSize
	}
}

// resolve validates req against count and returns the page and its offset.
// An empty listing still has a first page.
func (p paginator) resolve(req PageRequest, count int) (PageInfo, int, error) {
	size := p.size(req)
	pages := (count + size - 1) / size
	if pages == 0 {
		pages = 1
	}

	page := req.Page
	switch {
	case page == LastPage:
		page = pages
	case page == 0:
		page = 1
	}
	if page < 1 || page > pages {
		return PageInfo{}, 0, ErrInvalidPage()
	}

	info := PageInfo{
		Count:       count,
		Page:        page,
		PageSize:    size,
		HasNext:     page < pages,
		HasPrevious: page > 1,
	}
	return info, (page - 1) * size, nil
}
