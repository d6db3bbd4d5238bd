package goal

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finledger/finledger-backend/internal/domain"
	"github.com/finledger/finledger-backend/internal/query"
)

// Metadata tokens accepted by the goals endpoint
const (
	MetaStatusSummary = "status-summary"
	MetaTypes         = "types"
)

// Input carries the fields of a goal create or update request
type Input struct {
	Name         string
	Type         domain.GoalType
	TargetAmount decimal.Decimal
	Deadline     time.Time
	Priority     int
}

// StatusSummary is the computed view of an owner's goals by status
type StatusSummary struct {
	ActiveCount     int             `json:"activeCount"`
	CompletedCount  int             `json:"completedCount"`
	TotalTarget     decimal.Decimal `json:"totalTarget"`
	TotalCurrent    decimal.Decimal `json:"totalCurrent"`
	OverallProgress decimal.Decimal `json:"overallProgress"` // percent, 2dp
}

// Service handles financial goal operations
type Service struct {
	GoalRepo domain.GoalRepository

	resource *query.Resource[domain.FinancialGoal]
}

// NewService creates a new goal Service instance
func NewService(goalRepo domain.GoalRepository, pager query.Pager) *Service {
	s := &Service{GoalRepo: goalRepo}

	filters := query.NewRegistry[domain.FinancialGoal]().
		Search(func(g *domain.FinancialGoal) string { return g.Name }).
		Exact("type", func(g *domain.FinancialGoal) string { return string(g.Type) }).
		Exact("status", func(g *domain.FinancialGoal) string { return string(g.Status) }).
		DecimalRange("minTarget", "maxTarget", func(g *domain.FinancialGoal) decimal.Decimal { return g.TargetAmount }).
		DateRange("deadlineStart", "deadlineEnd", func(g *domain.FinancialGoal) time.Time { return g.Deadline })

	sorter := query.NewSorter("id", func(a, b *domain.FinancialGoal) bool {
		return a.ID.String() < b.ID.String()
	}).
		Field("name", func(a, b *domain.FinancialGoal) bool { return a.Name < b.Name }).
		Field("deadline", func(a, b *domain.FinancialGoal) bool { return a.Deadline.Before(b.Deadline) }).
		Field("priority", func(a, b *domain.FinancialGoal) bool { return a.Priority < b.Priority }).
		Field("targetAmount", func(a, b *domain.FinancialGoal) bool { return a.TargetAmount.LessThan(b.TargetAmount) })

	s.resource = &query.Resource[domain.FinancialGoal]{
		Filters: filters,
		Sort:    sorter,
		Pager:   pager,
		Metadata: map[string]query.Aggregator[domain.FinancialGoal]{
			MetaStatusSummary: aggregateStatusSummary,
			MetaTypes:         aggregateTypes,
		},
	}

	return s
}

// Create validates and persists a new goal, starting ACTIVE with no progress
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input Input) (*domain.FinancialGoal, error) {
	goal := &domain.FinancialGoal{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Name:          input.Name,
		Type:          input.Type,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      input.Deadline,
		Status:        domain.GoalStatusActive,
		Priority:      input.Priority,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := goal.Validate(); err != nil {
		return nil, err
	}
	if err := s.GoalRepo.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Update replaces the editable fields of a goal. Progress is only mutated
// through UpdateProgress.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, input Input) (*domain.FinancialGoal, error) {
	goal, err := s.GoalRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	goal.Name = input.Name
	goal.Type = input.Type
	goal.TargetAmount = input.TargetAmount
	goal.Deadline = input.Deadline
	goal.Priority = input.Priority
	goal.UpdatedAt = time.Now()

	if err := goal.Validate(); err != nil {
		return nil, err
	}
	if err := s.GoalRepo.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Get retrieves one goal
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.FinancialGoal, error) {
	return s.GoalRepo.GetByID(ctx, ownerID, id)
}

// Delete removes a goal
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.GoalRepo.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.GoalRepo.Delete(ctx, ownerID, id)
}

// UpdateProgress applies a signed progress delta. Reaching the target flips
// the goal to COMPLETED; a completed goal keeps accumulating but never
// reverts automatically.
func (s *Service) UpdateProgress(ctx context.Context, ownerID, id uuid.UUID, delta decimal.Decimal) (*domain.FinancialGoal, error) {
	goal, err := s.GoalRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	updated := goal.CurrentAmount.Add(delta)
	if updated.LessThan(decimal.Zero) {
		return nil, domain.NewFieldValidationError("amount",
			"progress cannot drop below zero", delta.String())
	}

	goal.CurrentAmount = updated
	if goal.Status == domain.GoalStatusActive && updated.GreaterThanOrEqual(goal.TargetAmount) {
		goal.Status = domain.GoalStatusCompleted
	}
	goal.UpdatedAt = time.Now()

	if err := s.GoalRepo.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Query runs a list or metadata request over the owner's goals
func (s *Service) Query(ctx context.Context, ownerID uuid.UUID, spec query.Spec) (interface{}, error) {
	items, err := s.GoalRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.resource.Execute(spec, items)
}

func aggregateStatusSummary(items []*domain.FinancialGoal, _ query.Params) (interface{}, error) {
	summary := StatusSummary{
		TotalTarget:     decimal.Zero,
		TotalCurrent:    decimal.Zero,
		OverallProgress: decimal.Zero,
	}

	for _, g := range items {
		if g.Status == domain.GoalStatusCompleted {
			summary.CompletedCount++
		} else {
			summary.ActiveCount++
		}
		summary.TotalTarget = summary.TotalTarget.Add(g.TargetAmount)
		summary.TotalCurrent = summary.TotalCurrent.Add(g.CurrentAmount)
	}

	if summary.TotalTarget.IsPositive() {
		summary.OverallProgress = summary.TotalCurrent.
			Div(summary.TotalTarget).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return summary, nil
}

func aggregateTypes(items []*domain.FinancialGoal, _ query.Params) (interface{}, error) {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, g := range items {
		value := string(g.Type)
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out, nil
}
