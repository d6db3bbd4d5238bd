package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finledger/finledger-backend/internal/domain"
	"github.com/finledger/finledger-backend/internal/query"
	"github.com/finledger/finledger-backend/internal/usecase/transaction"
)

type responsibilityRequest struct {
	ResponsibleID uuid.UUID        `json:"responsibleId"`
	Percentage    decimal.Decimal  `json:"percentage"`
	Notes         string           `json:"notes,omitempty"`
	Calculated    *decimal.Decimal `json:"calculatedAmount,omitempty"` // informational only, recomputed server-side
}

type transactionRequest struct {
	Type             string                  `json:"type"`
	Subtype          string                  `json:"subtype"`
	Source           string                  `json:"source"`
	Description      string                  `json:"description"`
	Amount           decimal.Decimal         `json:"amount"`
	Date             string                  `json:"date"`
	CategoryID       uuid.UUID               `json:"categoryId"`
	SubcategoryID    *uuid.UUID              `json:"subcategoryId,omitempty"`
	AccountID        *uuid.UUID              `json:"accountId,omitempty"`
	Installment      *domain.Installment     `json:"installment,omitempty"`
	Responsibilities []responsibilityRequest `json:"responsibilities"`
}

func (req *transactionRequest) toInput() (transaction.Input, error) {
	date, ok := query.ParseDate(req.Date)
	if !ok {
		return transaction.Input{}, domain.NewFieldValidationError(
			"date", "must be a date (2006-01-02) or RFC 3339 timestamp", req.Date)
	}

	responsibilities := make([]transaction.ResponsibilityInput, 0, len(req.Responsibilities))
	for _, r := range req.Responsibilities {
		responsibilities = append(responsibilities, transaction.ResponsibilityInput{
			ResponsibleID: r.ResponsibleID,
			Percentage:    r.Percentage,
			Notes:         r.Notes,
		})
	}

	return transaction.Input{
		Type:             domain.TransactionType(req.Type),
		Subtype:          domain.TransactionSubtype(req.Subtype),
		Source:           domain.PaymentSource(req.Source),
		Description:      req.Description,
		Amount:           req.Amount,
		Date:             date,
		CategoryID:       req.CategoryID,
		SubcategoryID:    req.SubcategoryID,
		AccountID:        req.AccountID,
		Installment:      req.Installment,
		Responsibilities: responsibilities,
	}, nil
}

// queryTransactions handles GET /api/v1/transactions, serving both list and
// metadata requests
func (s *Server) queryTransactions(w http.ResponseWriter, r *http.Request) {
	spec := query.ParseSpec(r.URL.Query())

	result, err := s.Transactions.Query(r.Context(), UserID(r.Context()), spec)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, result, "")
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	tx, err := s.Transactions.Create(r.Context(), UserID(r.Context()), input)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusCreated, tx, "transaction created")
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	tx, err := s.Transactions.Get(r.Context(), UserID(r.Context()), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, tx, "")
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	tx, err := s.Transactions.Update(r.Context(), UserID(r.Context()), id, input)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, tx, "transaction updated")
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	if err := s.Transactions.Delete(r.Context(), UserID(r.Context()), id); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil, "transaction deleted")
}

type categoryRequest struct {
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parentId,omitempty"`
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.CategoryRepo.ListByOwner(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, categories, "")
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	category := &domain.Category{
		ID:        uuid.New(),
		OwnerID:   UserID(r.Context()),
		Name:      req.Name,
		ParentID:  req.ParentID,
		CreatedAt: time.Now(),
	}
	if err := category.Validate(); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	if err := s.CategoryRepo.Create(r.Context(), category); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusCreated, category, "category created")
}

type responsibleRequest struct {
	Name string `json:"name"`
}

func (s *Server) listResponsibles(w http.ResponseWriter, r *http.Request) {
	parties, err := s.PartyRepo.ListByOwner(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, parties, "")
}

func (s *Server) createResponsible(w http.ResponseWriter, r *http.Request) {
	var req responsibleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	party := &domain.ResponsibleParty{
		ID:        uuid.New(),
		OwnerID:   UserID(r.Context()),
		Name:      req.Name,
		CreatedAt: time.Now(),
	}
	if err := party.Validate(); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	if err := s.PartyRepo.Create(r.Context(), party); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusCreated, party, "responsible party created")
}
