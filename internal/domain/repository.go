package domain

import (
	"context"

	"github.com/google/uuid"
)

// TransactionRepository defines the interface for transaction persistence operations.
// Implementations must write a transaction and its responsibility list
// atomically: a transaction is never persisted with a partial list.
type TransactionRepository interface {
	// Create persists a new transaction with its responsibilities
	Create(ctx context.Context, tx *Transaction) error

	// GetByID retrieves an owner's transaction by ID
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error)

	// Update replaces the transaction, including the whole responsibility list
	Update(ctx context.Context, tx *Transaction) error

	// Delete removes a transaction and its responsibilities
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// ListByOwner retrieves all transactions belonging to an owner
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Transaction, error)
}

// GoalRepository defines the interface for financial goal persistence operations
type GoalRepository interface {
	Create(ctx context.Context, goal *FinancialGoal) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*FinancialGoal, error)
	Update(ctx context.Context, goal *FinancialGoal) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*FinancialGoal, error)
}

// InvestmentRepository defines the interface for investment persistence operations
type InvestmentRepository interface {
	Create(ctx context.Context, inv *Investment) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Investment, error)
	Update(ctx context.Context, inv *Investment) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Investment, error)
}

// CategoryRepository defines the interface for category persistence operations
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Category, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Category, error)
}

// ResponsiblePartyRepository defines the interface for responsible party persistence operations
type ResponsiblePartyRepository interface {
	Create(ctx context.Context, party *ResponsibleParty) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*ResponsibleParty, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*ResponsibleParty, error)
}
