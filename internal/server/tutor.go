package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tutorly/internal/response"
	"github.com/abhisek/tutorly/internal/tutor"
	"github.com/abhisek/tutorly/internal/validator"
)

type askRequest struct {
	Question string        `json:"question" binding:"required,max=2000"`
	Context  tutor.Context `json:"context"`
}

// POST /api/v1/tutor/ask
func (h *handlers) askTutor(c *gin.Context) {
	var req askRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ctx := c.Request.Context()

	// Fill in the topic from the problem when the client only sent its id.
	if req.Context.Topic == "" && req.Context.ProblemID != "" {
		p, err := h.practice.GetProblem(ctx, req.Context.ProblemID)
		if err != nil {
			h.fail(c, err, response.ErrProblemNotFound)
			return
		}
		req.Context.Topic = p.Topic
	}

	resp, err := h.tutor.Ask(ctx, req.Question, req.Context)
	if err != nil {
		h.fail(c, err, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"response": resp})
}
