// Package handlers contains the HTTP handlers for the registry API.
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PatentLens/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps application errors onto HTTP statuses. Server-side
// codes are masked so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if errors.IsServerError(code) {
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Code: string(code), Message: message})
}

// parsePagination extracts page and page_size query parameters, falling
// back to the first page of twenty rows.
func parsePagination(c *gin.Context) (int, int) {
	page := 1
	pageSize := 20

	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := c.Query("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}
	return page, pageSize
}

// queryIntPtr parses an optional integer query parameter.
func queryIntPtr(c *gin.Context, name string) (*int, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, errors.InvalidParam(name + " must be an integer")
	}
	return &n, nil
}

// queryInt64Ptr parses an optional 64-bit integer query parameter.
func queryInt64Ptr(c *gin.Context, name string) (*int64, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, errors.InvalidParam(name + " must be an integer")
	}
	return &n, nil
}

// queryBoolPtr parses an optional boolean query parameter.
func queryBoolPtr(c *gin.Context, name string) (*bool, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, errors.InvalidParam(name + " must be a boolean")
	}
	return &b, nil
}
