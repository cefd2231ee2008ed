package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tutorly/internal/response"
	"github.com/abhisek/tutorly/internal/validator"
)

type startSessionRequest struct {
	ProblemID string `json:"problemId" binding:"required"`
}

type revealHintRequest struct {
	HintID string `json:"hintId" binding:"required"`
}

// POST /api/v1/sessions
func (h *handlers) startSession(c *gin.Context) {
	var req startSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	v, err := h.practice.Start(c.Request.Context(), req.ProblemID)
	if err != nil {
		h.fail(c, err, response.ErrProblemNotFound)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": v})
}

// GET /api/v1/sessions/:id
func (h *handlers) getSession(c *gin.Context) {
	v, err := h.practice.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, response.ErrSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": v})
}

// PUT /api/v1/sessions/:id/answer
func (h *handlers) saveAnswer(c *gin.Context) {
	var req answerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}

	v, err := h.practice.SaveAnswer(c.Request.Context(), c.Param("id"), req.Answer)
	if err != nil {
		h.fail(c, err, response.ErrSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": v})
}

// POST /api/v1/sessions/:id/hints
func (h *handlers) revealHint(c *gin.Context) {
	var req revealHintRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	v, hint, err := h.practice.RevealHint(c.Request.Context(), c.Param("id"), req.HintID)
	if err != nil {
		h.fail(c, err, response.ErrSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": v, "hint": hint})
}

// POST /api/v1/sessions/:id/solution
func (h *handlers) revealSolution(c *gin.Context) {
	v, err := h.practice.RevealSolution(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, response.ErrSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": v, "solution": v.Solution})
}

// POST /api/v1/sessions/:id/attempts
func (h *handlers) submit(c *gin.Context) {
	var req answerRequest
	if fields := validator.BindOptional(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}

	res, err := h.practice.Submit(c.Request.Context(), c.Param("id"), req.Answer)
	if err != nil {
		h.fail(c, err, response.ErrSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, res)
}
