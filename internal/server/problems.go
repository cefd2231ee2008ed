package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tutorly/internal/problem"
	"github.com/abhisek/tutorly/internal/response"
	"github.com/abhisek/tutorly/internal/store"
	"github.com/abhisek/tutorly/internal/validator"
)

// problemView is a problem as shown to learners: no expected answer and
// no solution.
type problemView struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Prompt     string              `json:"prompt"`
	Topic      string              `json:"topic"`
	Kind       problem.Kind        `json:"kind"`
	HintIDs    []string            `json:"hintIds"`
	Difficulty int                 `json:"difficulty"`
	Stats      *store.ProblemStats `json:"stats,omitempty"`
}

func newProblemView(p *problem.Problem) problemView {
	ids := make([]string, len(p.Hints))
	for i, hint := range p.Hints {
		ids[i] = hint.ID
	}
	return problemView{
		ID:         p.ID,
		Title:      p.Title,
		Prompt:     p.Prompt,
		Topic:      p.Topic,
		Kind:       p.Kind,
		HintIDs:    ids,
		Difficulty: p.Difficulty,
	}
}

type answerRequest struct {
	Answer *problem.Answer `json:"answer"`
}

// GET /api/v1/problems
func (h *handlers) listProblems(c *gin.Context) {
	summaries, err := h.practice.ListProblems(c.Request.Context(), c.Query("topic"))
	if err != nil {
		h.fail(c, err, response.ErrNotFound)
		return
	}

	out := make([]problemView, 0, len(summaries))
	for _, s := range summaries {
		v := newProblemView(s.Problem)
		stats := s.Stats
		v.Stats = &stats
		out = append(out, v)
	}
	response.Success(c, http.StatusOK, gin.H{"problems": out})
}

// GET /api/v1/problems/:id
func (h *handlers) getProblem(c *gin.Context) {
	p, err := h.practice.GetProblem(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, response.ErrProblemNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"problem": newProblemView(p)})
}

// POST /api/v1/problems
func (h *handlers) createProblem(c *gin.Context) {
	var p problem.Problem
	if fields := validator.Bind(c, &p); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}

	if err := h.practice.CreateProblem(c.Request.Context(), &p); err != nil {
		h.fail(c, err, response.ErrProblemNotFound)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"problem": newProblemView(&p)})
}

// POST /api/v1/problems/:id/validate
func (h *handlers) validateAnswer(c *gin.Context) {
	var req answerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}

	result, err := h.practice.ValidateAnswer(c.Request.Context(), c.Param("id"), req.Answer)
	if err != nil {
		h.fail(c, err, response.ErrProblemNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}
