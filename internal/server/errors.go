package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tutorly/internal/practice"
	"github.com/abhisek/tutorly/internal/problem"
	"github.com/abhisek/tutorly/internal/response"
	"github.com/abhisek/tutorly/internal/store"
)

// fail maps a service error to an API error. notFound is the code used
// for store.ErrNotFound, which depends on what was looked up.
func (h *handlers) fail(c *gin.Context, err error, notFound response.ErrCode) {
	var (
		shapeErr *problem.ShapeError
		checkErr *problem.CheckError
	)

	switch {
	case errors.As(err, &shapeErr):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrShapeMismatch, shapeErr.Error())
	case errors.As(err, &checkErr):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidProblem, checkErr.Error())
	case errors.Is(err, practice.ErrUnknownHint):
		response.Fail(c, http.StatusNotFound, response.ErrHintNotFound)
	case errors.Is(err, store.ErrNotFound):
		response.Fail(c, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrAlreadyExists):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.Fail(c, http.StatusRequestTimeout, response.ErrCanceled)
	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
