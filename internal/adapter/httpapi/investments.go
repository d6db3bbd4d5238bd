package httpapi

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/finledger/finledger-backend/internal/domain"
	"github.com/finledger/finledger-backend/internal/query"
	"github.com/finledger/finledger-backend/internal/usecase/investment"
)

type investmentRequest struct {
	Ticker        string          `json:"ticker"`
	Type          string          `json:"type"`
	Subtype       string          `json:"subtype,omitempty"`
	Sector        string          `json:"sector,omitempty"`
	Industry      string          `json:"industry,omitempty"`
	Exchange      string          `json:"exchange,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	AveragePrice  decimal.Decimal `json:"averagePrice"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	DividendYield decimal.Decimal `json:"dividendYield"`
}

func (req *investmentRequest) toInput() investment.Input {
	return investment.Input{
		Ticker:        req.Ticker,
		Type:          domain.InvestmentType(req.Type),
		Subtype:       req.Subtype,
		Sector:        req.Sector,
		Industry:      req.Industry,
		Exchange:      req.Exchange,
		Quantity:      req.Quantity,
		AveragePrice:  req.AveragePrice,
		CurrentPrice:  req.CurrentPrice,
		PreviousClose: req.PreviousClose,
		DividendYield: req.DividendYield,
	}
}

type priceRequest struct {
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	PreviousClose decimal.Decimal `json:"previousClose"`
}

func (s *Server) queryInvestments(w http.ResponseWriter, r *http.Request) {
	spec := query.ParseSpec(r.URL.Query())

	result, err := s.Investments.Query(r.Context(), UserID(r.Context()), spec)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, result, "")
}

func (s *Server) createInvestment(w http.ResponseWriter, r *http.Request) {
	var req investmentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	created, err := s.Investments.Create(r.Context(), UserID(r.Context()), req.toInput())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusCreated, created, "investment created")
}

func (s *Server) getInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	found, err := s.Investments.Get(r.Context(), UserID(r.Context()), id)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, found, "")
}

func (s *Server) updateInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	var req investmentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	updated, err := s.Investments.Update(r.Context(), UserID(r.Context()), id, req.toInput())
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, updated, "investment updated")
}

func (s *Server) deleteInvestment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	if err := s.Investments.Delete(r.Context(), UserID(r.Context()), id); err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil, "investment deleted")
}

func (s *Server) updateInvestmentPrice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}

	var req priceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, s.log, err)
		return
	}

	updated, err := s.Investments.UpdatePrice(r.Context(), UserID(r.Context()), id, investment.PriceInput{
		CurrentPrice:  req.CurrentPrice,
		PreviousClose: req.PreviousClose,
	})
	if err != nil {
		writeError(w, r, s.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, updated, "investment price updated")
}
