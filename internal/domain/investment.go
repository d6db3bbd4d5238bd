package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentType represents the asset class of a holding
type InvestmentType string

const (
	InvestmentTypeStock  InvestmentType = "STOCK"
	InvestmentTypeETF    InvestmentType = "ETF"
	InvestmentTypeFII    InvestmentType = "FII"
	InvestmentTypeBond   InvestmentType = "BOND"
	InvestmentTypeCrypto InvestmentType = "CRYPTO"
)

// ValidInvestmentType reports whether t is a known investment type
func ValidInvestmentType(t InvestmentType) bool {
	switch t {
	case InvestmentTypeStock, InvestmentTypeETF, InvestmentTypeFII,
		InvestmentTypeBond, InvestmentTypeCrypto:
		return true
	}
	return false
}

// Investment represents one brokerage-style holding.
// CurrentPrice and PreviousClose are externally sourced; market value and
// gain/loss are always derived, never stored.
type Investment struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       uuid.UUID       `json:"ownerId"`
	Ticker        string          `json:"ticker"`
	Type          InvestmentType  `json:"type"`
	Subtype       string          `json:"subtype,omitempty"`
	Sector        string          `json:"sector,omitempty"`
	Industry      string          `json:"industry,omitempty"`
	Exchange      string          `json:"exchange,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	AveragePrice  decimal.Decimal `json:"averagePrice"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	DividendYield decimal.Decimal `json:"dividendYield"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Validate ensures the investment adheres to domain rules
func (i *Investment) Validate() error {
	if i.Ticker == "" {
		return NewFieldValidationError("ticker", "is required", nil)
	}
	if !ValidInvestmentType(i.Type) {
		return NewFieldValidationError("type", "unknown investment type", string(i.Type))
	}
	if i.Quantity.LessThanOrEqual(decimal.Zero) {
		return NewFieldValidationError("quantity", "must be positive", i.Quantity.String())
	}
	if i.AveragePrice.LessThan(decimal.Zero) {
		return NewFieldValidationError("averagePrice", "cannot be negative", i.AveragePrice.String())
	}
	if i.CurrentPrice.LessThan(decimal.Zero) {
		return NewFieldValidationError("currentPrice", "cannot be negative", i.CurrentPrice.String())
	}
	return nil
}

// MarketValue returns Quantity × CurrentPrice
func (i *Investment) MarketValue() decimal.Decimal {
	return i.Quantity.Mul(i.CurrentPrice)
}

// TotalCost returns Quantity × AveragePrice
func (i *Investment) TotalCost() decimal.Decimal {
	return i.Quantity.Mul(i.AveragePrice)
}

// GainLoss returns MarketValue − TotalCost
func (i *Investment) GainLoss() decimal.Decimal {
	return i.MarketValue().Sub(i.TotalCost())
}

// GainLossPercent returns the gain/loss as a percentage of cost, zero when
// the holding has no cost basis
func (i *Investment) GainLossPercent() decimal.Decimal {
	cost := i.TotalCost()
	if cost.IsZero() {
		return decimal.Zero
	}
	return i.GainLoss().Div(cost).Mul(decimal.NewFromInt(100)).Round(2)
}

// DayChangePercent returns the price change since the previous close as a
// percentage, zero when no previous close is recorded
func (i *Investment) DayChangePercent() decimal.Decimal {
	if i.PreviousClose.IsZero() {
		return decimal.Zero
	}
	return i.CurrentPrice.Sub(i.PreviousClose).
		Div(i.PreviousClose).Mul(decimal.NewFromInt(100)).Round(2)
}
