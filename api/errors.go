package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talari-hunar/boxoffice/internal/status"
)

func writeError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, status.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, status.ErrDuplicateSale):
		code = http.StatusConflict
	case errors.Is(err, status.ErrSaleNotFound), errors.Is(err, status.ErrTicketNotFound):
		code = http.StatusNotFound
	case errors.Is(err, status.ErrPersistenceFailed):
		// retryable: the mutation was rolled back, the caller may repeat it
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
