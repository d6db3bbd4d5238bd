package httpapi

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/finledger/finledger-backend/internal/domain"
	"github.com/finledger/finledger-backend/internal/query"
	"github.com/finledger/finledger-backend/internal/usecase/goal"
)

type goalRequest struct {
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     string          `json:"deadline"`
	Priority     int             `json:"priority"`
}

func (req *goalRequest) toInput() (goal.Input, error) {
	deadline, ok := query.ParseDate(req.Deadline)
	if !ok {
		return goal.Input{}, domain.NewFieldValidationError(
			"deadline", "must be a date (2006-01-02) or RFC 3339 timestamp", req.Deadline)
	}

	return goal.Input{
		Name:         req.Name,
		Type:         domain.GoalType(req.Type),
		TargetAmount: req.TargetAmount,
		Deadline:     deadline,
		Priority:     req.Priority,
	}, nil
}

type goalProgressRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) queryGoals(w http.ResponseWriter, r *http.Request) {
	spec := query.ParseSpec(r.URL.Query())

	result, err := s.Goals.Query(r.Context(), UserID(r.Context()), spec)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, result, "")
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	created, err := s.Goals.Create(r.Context(), UserID(r.Context()), input)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusCreated, created, "goal created")
}

func (s *Server) getGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	found, err := s.Goals.Get(r.Context(), UserID(r.Context()), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, found, "")
}

func (s *Server) updateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	updated, err := s.Goals.Update(r.Context(), UserID(r.Context()), id, input)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, updated, "goal updated")
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	if err := s.Goals.Delete(r.Context(), UserID(r.Context()), id); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil, "goal deleted")
}

func (s *Server) updateGoalProgress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	var req goalProgressRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	updated, err := s.Goals.UpdateProgress(r.Context(), UserID(r.Context()), id, req.Amount)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, updated, "goal progress updated")
}
