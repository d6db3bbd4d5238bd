package allocator

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finledger/finledger-backend/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)

	// Epsilon is the tolerance on the percentage sum: totals within 0.01 of
	// 100 are accepted, anything further off is rejected.
	Epsilon = decimal.NewFromFloat(0.01)
)

// Allocate validates a responsibility list against the transaction amount and
// computes each entry's calculated amount.
// Logic:
//  1. Reject an empty list and any entry with a nil party or a percentage
//     outside (0, 100]
//  2. Sum percentages with exact decimal arithmetic; reject when the sum is
//     off 100 by more than Epsilon
//  3. Compute each share as amount × percentage / 100, rounded half-up to
//     currency precision (2 decimal places)
//  4. Absorb the signed rounding residual into the entry with the largest
//     percentage (first in list order on ties), so the shares sum to the
//     amount exactly
//
// Safety: the returned list always satisfies Σ calculatedAmount == amount.
// Input calculated amounts are ignored and recomputed.
func Allocate(amount decimal.Decimal, responsibilities []domain.Responsibility) ([]domain.Responsibility, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewFieldValidationError("amount", "must be positive", amount.String())
	}

	if len(responsibilities) == 0 {
		return nil, &domain.ValidationError{
			Code:    domain.CodeMissingResponsible,
			Message: "transaction must have at least one responsibility",
			Fields: []domain.FieldError{
				{Field: "responsibilities", Message: "list cannot be empty"},
			},
		}
	}

	total := decimal.Zero
	for i, r := range responsibilities {
		if r.ResponsibleID == uuid.Nil {
			return nil, domain.NewFieldValidationError(
				fieldAt(i, "responsibleId"), "is required", nil)
		}
		if r.Percentage.LessThanOrEqual(decimal.Zero) || r.Percentage.GreaterThan(hundred) {
			return nil, domain.NewFieldValidationError(
				fieldAt(i, "percentage"), "must be greater than 0 and at most 100", r.Percentage.String())
		}
		total = total.Add(r.Percentage)
	}

	if total.Sub(hundred).Abs().GreaterThan(Epsilon) {
		return nil, &domain.ValidationError{
			Code:    domain.CodePercentageMismatch,
			Message: "responsibility percentages must sum to 100, got " + total.String(),
			Fields: []domain.FieldError{
				{Field: "responsibilities", Message: "percentages must sum to 100", Rejected: total.String()},
			},
		}
	}

	// Copy so the caller's slice is never mutated
	allocated := make([]domain.Responsibility, len(responsibilities))
	copy(allocated, responsibilities)

	sum := decimal.Zero
	largest := 0
	for i := range allocated {
		share := amount.Mul(allocated[i].Percentage).Div(hundred).Round(2)
		allocated[i].CalculatedAmount = share
		sum = sum.Add(share)

		if allocated[i].Percentage.GreaterThan(allocated[largest].Percentage) {
			largest = i
		}
	}

	// Residual correction: rounding can leave the shares one minimal currency
	// unit off the total. The largest-percentage entry absorbs the difference.
	residual := amount.Sub(sum)
	if !residual.IsZero() {
		allocated[largest].CalculatedAmount = allocated[largest].CalculatedAmount.Add(residual)
	}

	return allocated, nil
}

func fieldAt(index int, name string) string {
	return "responsibilities[" + strconv.Itoa(index) + "]." + name
}
