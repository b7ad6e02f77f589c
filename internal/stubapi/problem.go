package stubapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// Problem is the error body returned for every failed request.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// statusOf maps storage and validation errors onto HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidDate),
		errors.Is(err, types.ErrSameEndpoints):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// abort writes a problem body for err and stops the handler chain.
func abort(c *gin.Context, err error) {
	status := statusOf(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		detail = types.GenericErrorMessage
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, Problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}
