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

// investmentRepository implements domain.InvestmentRepository
type investmentRepository struct {
	db *DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *DB) domain.InvestmentRepository {
	return &investmentRepository{db: db}
}

func (r *investmentRepository) Create(ctx context.Context, inv *domain.Investment) error {
	query := `
		INSERT INTO investments (id, owner_id, ticker, type, subtype, sector,
			industry, exchange, quantity, average_price, current_price,
			previous_close, dividend_yield, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.OwnerID, inv.Ticker, string(inv.Type), inv.Subtype,
		inv.Sector, inv.Industry, inv.Exchange,
		inv.Quantity.String(), inv.AveragePrice.String(), inv.CurrentPrice.String(),
		inv.PreviousClose.String(), inv.DividendYield.String(),
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return conflictOr(fmt.Errorf("failed to insert investment: %w", err), "investment", "ticker", inv.Ticker)
	}
	return nil
}

func (r *investmentRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Investment, error) {
	query := selectInvestments + ` WHERE id = $1 AND owner_id = $2`

	inv, err := scanInvestment(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("investment", id.String())
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}
	return inv, nil
}

func (r *investmentRepository) Update(ctx context.Context, inv *domain.Investment) error {
	query := `
		UPDATE investments
		SET ticker = $1, type = $2, subtype = $3, sector = $4, industry = $5,
		    exchange = $6, quantity = $7, average_price = $8, current_price = $9,
		    previous_close = $10, dividend_yield = $11, updated_at = $12
		WHERE id = $13 AND owner_id = $14
	`

	result, err := r.db.ExecContext(ctx, query,
		inv.Ticker, string(inv.Type), inv.Subtype, inv.Sector, inv.Industry,
		inv.Exchange, inv.Quantity.String(), inv.AveragePrice.String(),
		inv.CurrentPrice.String(), inv.PreviousClose.String(),
		inv.DividendYield.String(), inv.UpdatedAt, inv.ID, inv.OwnerID,
	)
	if err != nil {
		return conflictOr(fmt.Errorf("failed to update investment: %w", err), "investment", "ticker", inv.Ticker)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFoundError("investment", inv.ID.String())
	}
	return nil
}

func (r *investmentRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM investments WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFoundError("investment", id.String())
	}
	return nil
}

func (r *investmentRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Investment, error) {
	query := selectInvestments + ` WHERE owner_id = $1 ORDER BY ticker, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	var investments []*domain.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investments: %w", err)
	}
	return investments, nil
}

const selectInvestments = `
	SELECT id, owner_id, ticker, type, subtype, sector, industry, exchange,
	       quantity, average_price, current_price, previous_close,
	       dividend_yield, created_at, updated_at
	FROM investments`

func scanInvestment(row rowScanner) (*domain.Investment, error) {
	var inv domain.Investment
	var quantityStr, avgStr, currentStr, prevStr, yieldStr string

	err := row.Scan(
		&inv.ID, &inv.OwnerID, &inv.Ticker, &inv.Type, &inv.Subtype,
		&inv.Sector, &inv.Industry, &inv.Exchange,
		&quantityStr, &avgStr, &currentStr, &prevStr, &yieldStr,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{quantityStr, &inv.Quantity},
		{avgStr, &inv.AveragePrice},
		{currentStr, &inv.CurrentPrice},
		{prevStr, &inv.PreviousClose},
		{yieldStr, &inv.DividendYield},
	}
	for _, f := range fields {
		value, err := decimal.NewFromString(f.raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse investment decimal: %w", err)
		}
		*f.dest = value
	}
	return &inv, nil
}
