package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/errors"
)

// errorResponse is the JSON body written for every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError writes err as a JSON error body, using its AppError status
// code/message when present and falling back to 500 otherwise.
func respondError(c *gin.Context, err error) {
	c.JSON(errors.GetHTTPStatus(err), errorResponse{
		Code:    errors.GetErrorCode(err),
		Message: errors.GetErrorMessage(err),
	})
}

// respondNotFound is a convenience wrapper for the common
// "no :id in the path" / "route not matched" case.
func respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorResponse{Code: "NOT_FOUND", Message: "resource not found"})
}
