package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFinancialGoal_Validate(t *testing.T) {
	base := func() FinancialGoal {
		return FinancialGoal{
			Name:          "Emergency fund",
			Type:          GoalTypeSavings,
			TargetAmount:  decimal.NewFromInt(1000),
			CurrentAmount: decimal.Zero,
			Deadline:      time.Date(2027, time.December, 31, 0, 0, 0, 0, time.UTC),
			Status:        GoalStatusActive,
			Priority:      1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*FinancialGoal)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid goal",
			mutate: func(*FinancialGoal) {},
		},
		{
			name:    "missing name",
			mutate:  func(g *FinancialGoal) { g.Name = "" },
			wantErr: true,
			errMsg:  "name",
		},
		{
			name:    "unknown type",
			mutate:  func(g *FinancialGoal) { g.Type = "LOTTERY" },
			wantErr: true,
			errMsg:  "type",
		},
		{
			name:    "zero target",
			mutate:  func(g *FinancialGoal) { g.TargetAmount = decimal.Zero },
			wantErr: true,
			errMsg:  "targetAmount",
		},
		{
			name:    "negative current amount",
			mutate:  func(g *FinancialGoal) { g.CurrentAmount = decimal.NewFromInt(-1) },
			wantErr: true,
			errMsg:  "currentAmount",
		},
		{
			name:    "negative priority",
			mutate:  func(g *FinancialGoal) { g.Priority = -1 },
			wantErr: true,
			errMsg:  "priority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := base()
			tt.mutate(&goal)
			err := goal.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFinancialGoal_Progress(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		current string
		want    string
	}{
		{name: "halfway", target: "1000", current: "500", want: "50"},
		{name: "rounds to two decimals", target: "300", current: "100", want: "33.33"},
		{name: "capped at one hundred", target: "100", current: "150", want: "100"},
		{name: "zero target yields zero", target: "0", current: "50", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := FinancialGoal{
				TargetAmount:  decimal.RequireFromString(tt.target),
				CurrentAmount: decimal.RequireFromString(tt.current),
			}
			assert.True(t, goal.Progress().Equal(decimal.RequireFromString(tt.want)),
				"got %s", goal.Progress())
		})
	}
}
