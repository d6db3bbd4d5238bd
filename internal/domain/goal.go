package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalType represents the kind of financial goal
type GoalType string

const (
	GoalTypeSavings    GoalType = "SAVINGS"
	GoalTypeInvestment GoalType = "INVESTMENT"
	GoalTypeDebtPayoff GoalType = "DEBT_PAYOFF"
)

// GoalStatus represents the lifecycle state of a financial goal
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "ACTIVE"
	GoalStatusCompleted GoalStatus = "COMPLETED"
)

// ValidGoalType reports whether t is a known goal type
func ValidGoalType(t GoalType) bool {
	return t == GoalTypeSavings || t == GoalTypeInvestment || t == GoalTypeDebtPayoff
}

// FinancialGoal represents a savings, investment or debt-payoff target.
// Its lifecycle is independent from transactions; progress is mutated only
// through explicit progress-update operations.
type FinancialGoal struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       uuid.UUID       `json:"ownerId"`
	Name          string          `json:"name"`
	Type          GoalType        `json:"type"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      time.Time       `json:"deadline"`
	Status        GoalStatus      `json:"status"`
	Priority      int             `json:"priority"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Validate ensures the goal adheres to domain rules
func (g *FinancialGoal) Validate() error {
	if g.Name == "" {
		return NewFieldValidationError("name", "is required", nil)
	}
	if !ValidGoalType(g.Type) {
		return NewFieldValidationError("type", "must be SAVINGS, INVESTMENT or DEBT_PAYOFF", string(g.Type))
	}
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return NewFieldValidationError("targetAmount", "must be positive", g.TargetAmount.String())
	}
	if g.CurrentAmount.LessThan(decimal.Zero) {
		return NewFieldValidationError("currentAmount", "cannot be negative", g.CurrentAmount.String())
	}
	if g.Priority < 0 {
		return NewFieldValidationError("priority", "cannot be negative", g.Priority)
	}
	return nil
}

// Progress returns the completion percentage of the goal, capped at 100
func (g *FinancialGoal) Progress() decimal.Decimal {
	if g.TargetAmount.IsZero() {
		return decimal.Zero
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
	hundred := decimal.NewFromInt(100)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
