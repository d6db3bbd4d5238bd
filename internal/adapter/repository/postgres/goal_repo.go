package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finledger/finledger-backend/internal/domain"
)

// goalRepository implements domain.GoalRepository
type goalRepository struct {
	db *DB
}

// NewGoalRepository creates a new financial goal repository
func NewGoalRepository(db *DB) domain.GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *domain.FinancialGoal) error {
	query := `
		INSERT INTO financial_goals (id, owner_id, name, type, target_amount,
			current_amount, deadline, status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID, goal.OwnerID, goal.Name, string(goal.Type),
		goal.TargetAmount.String(), goal.CurrentAmount.String(),
		goal.Deadline, string(goal.Status), goal.Priority,
		goal.CreatedAt, goal.UpdatedAt,
	)
	if err != nil {
		return conflictOr(fmt.Errorf("failed to insert goal: %w", err), "goal", "name", goal.Name)
	}
	return nil
}

func (r *goalRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.FinancialGoal, error) {
	query := selectGoals + ` WHERE id = $1 AND owner_id = $2`

	goal, err := scanGoal(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("goal", id.String())
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *domain.FinancialGoal) error {
	query := `
		UPDATE financial_goals
		SET name = $1, type = $2, target_amount = $3, current_amount = $4,
		    deadline = $5, status = $6, priority = $7, updated_at = $8
		WHERE id = $9 AND owner_id = $10
	`

	result, err := r.db.ExecContext(ctx, query,
		goal.Name, string(goal.Type), goal.TargetAmount.String(),
		goal.CurrentAmount.String(), goal.Deadline, string(goal.Status),
		goal.Priority, goal.UpdatedAt, goal.ID, goal.OwnerID,
	)
	if err != nil {
		return conflictOr(fmt.Errorf("failed to update goal: %w", err), "goal", "name", goal.Name)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFoundError("goal", goal.ID.String())
	}
	return nil
}

func (r *goalRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM financial_goals WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFoundError("goal", id.String())
	}
	return nil
}

func (r *goalRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.FinancialGoal, error) {
	query := selectGoals + ` WHERE owner_id = $1 ORDER BY priority, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*domain.FinancialGoal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}
	return goals, nil
}

const selectGoals = `
	SELECT id, owner_id, name, type, target_amount, current_amount,
	       deadline, status, priority, created_at, updated_at
	FROM financial_goals`

func scanGoal(row rowScanner) (*domain.FinancialGoal, error) {
	var goal domain.FinancialGoal
	var targetStr, currentStr string

	err := row.Scan(
		&goal.ID, &goal.OwnerID, &goal.Name, &goal.Type, &targetStr, &currentStr,
		&goal.Deadline, &goal.Status, &goal.Priority, &goal.CreatedAt, &goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if goal.TargetAmount, err = decimal.NewFromString(targetStr); err != nil {
		return nil, fmt.Errorf("failed to parse goal target amount: %w", err)
	}
	if goal.CurrentAmount, err = decimal.NewFromString(currentStr); err != nil {
		return nil, fmt.Errorf("failed to parse goal current amount: %w", err)
	}
	return &goal, nil
}
