// Package handlers implements the HTTP endpoints of the intelligence API.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/helix-insights/madison/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error to its HTTP status via the error
// code table.  Internal codes are masked.
func respondError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	status := code.HTTPStatus()

	message := err.Error()
	if status >= 500 {
		message = "internal server error"
	}
	c.JSON(status, ErrorResponse{Code: code.String(), Message: message})
}
