package protocol

import (
	"net/http"
	"strconv"
)

// PagingRequest supports a request constrained to a given page number and size
type PagingRequest struct {
	// PageNumber is the requested page number for this request
	PageNumber int
	// PageSize is the requested page size for this request
	PageSize int
}

// NewPagingRequest reads paging constraints from the request querystring.
// Absent or unusable values fall back to page 1 of 20.
func NewPagingRequest(r *http.Request) *PagingRequest {
	defaultPage := 1
	defaultPageSize := 20
	pagingRequest := PagingRequest{PageNumber: defaultPage, PageSize: defaultPageSize}

	sPageNumber := r.URL.Query().Get("pageNumber")
	sPageSize := r.URL.Query().Get("pageSize")
	pageNumber, errPageNumber := strconv.Atoi(sPageNumber)
	if errPageNumber == nil && pageNumber > 0 {
		pagingRequest.PageNumber = pageNumber
	}
	pageSize, errPageSize := strconv.Atoi(sPageSize)
	if errPageSize == nil && pageSize > 0 {
		pagingRequest.PageSize = pageSize
	}

	return &pagingRequest
}
