package mapping

import (
	"github.com/bbyours/attendance-server/dao"
	"github.com/bbyours/attendance-server/protocol"
)

// MapPagingRequestToDAOPagingRequest converts a protocol PagingRequest to its
// counterpart in the dao package for use in database calls
func MapPagingRequestToDAOPagingRequest(i *protocol.PagingRequest) dao.PagingRequest {
	return dao.PagingRequest{PageNumber: i.PageNumber, PageSize: i.PageSize}
}
