package status

import "errors"

// Sentinel errors for the reservation core. Callers match with errors.Is;
// the HTTP layer maps them onto response codes.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDuplicateSale     = errors.New("sale already exists")
	ErrSaleNotFound      = errors.New("sale not found")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrPersistenceFailed = errors.New("persistence failed")
)
