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

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create persists a transaction and its responsibility list in one database
// transaction, so a partial list is never visible
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := insertTransaction(ctx, dbTx, tx); err != nil {
		return err
	}
	if err := insertResponsibilities(ctx, dbTx, tx); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Update replaces the transaction row and its whole responsibility list
// (delete + reinsert, last writer wins)
func (r *transactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	updateQuery := `
		UPDATE transactions
		SET type = $1, subtype = $2, source = $3, description = $4, amount = $5,
		    date = $6, category_id = $7, subcategory_id = $8, account_id = $9,
		    installment_number = $10, installment_total = $11, updated_at = $12
		WHERE id = $13 AND owner_id = $14
	`

	var installmentNumber, installmentTotal sql.NullInt64
	if tx.Installment != nil {
		installmentNumber = sql.NullInt64{Int64: int64(tx.Installment.Number), Valid: true}
		installmentTotal = sql.NullInt64{Int64: int64(tx.Installment.Total), Valid: true}
	}

	result, err := dbTx.ExecContext(ctx, updateQuery,
		string(tx.Type), string(tx.Subtype), string(tx.Source), tx.Description,
		tx.Amount.String(), tx.Date, tx.CategoryID, tx.SubcategoryID, tx.AccountID,
		installmentNumber, installmentTotal, tx.UpdatedAt, tx.ID, tx.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFoundError("transaction", tx.ID.String())
	}

	deleteQuery := `DELETE FROM transaction_responsibilities WHERE transaction_id = $1`
	if _, err := dbTx.ExecContext(ctx, deleteQuery, tx.ID); err != nil {
		return fmt.Errorf("failed to clear responsibilities: %w", err)
	}
	if err := insertResponsibilities(ctx, dbTx, tx); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID retrieves an owner's transaction by ID
func (r *transactionRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Transaction, error) {
	query := selectTransactions + ` WHERE id = $1 AND owner_id = $2`

	row := r.db.QueryRowContext(ctx, query, id, ownerID)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("transaction", id.String())
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if err := r.loadResponsibilities(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Delete removes a transaction; the responsibility rows cascade
func (r *transactionRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFoundError("transaction", id.String())
	}
	return nil
}

// ListByOwner retrieves all transactions belonging to an owner
func (r *transactionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Transaction, error) {
	query := selectTransactions + ` WHERE owner_id = $1 ORDER BY date DESC, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	for _, tx := range transactions {
		if err := r.loadResponsibilities(ctx, tx); err != nil {
			return nil, err
		}
	}
	return transactions, nil
}

const selectTransactions = `
	SELECT id, owner_id, type, subtype, source, description, amount, date,
	       category_id, subcategory_id, account_id,
	       installment_number, installment_total, created_at, updated_at
	FROM transactions`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var amountStr string
	var installmentNumber, installmentTotal sql.NullInt64

	err := row.Scan(
		&tx.ID, &tx.OwnerID, &tx.Type, &tx.Subtype, &tx.Source, &tx.Description,
		&amountStr, &tx.Date, &tx.CategoryID, &tx.SubcategoryID, &tx.AccountID,
		&installmentNumber, &installmentTotal, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transaction amount: %w", err)
	}
	tx.Amount = amount

	if installmentNumber.Valid && installmentTotal.Valid {
		tx.Installment = &domain.Installment{
			Number: int(installmentNumber.Int64),
			Total:  int(installmentTotal.Int64),
		}
	}
	return &tx, nil
}

func insertTransaction(ctx context.Context, dbTx *sql.Tx, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, owner_id, type, subtype, source, description,
			amount, date, category_id, subcategory_id, account_id,
			installment_number, installment_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	var installmentNumber, installmentTotal sql.NullInt64
	if tx.Installment != nil {
		installmentNumber = sql.NullInt64{Int64: int64(tx.Installment.Number), Valid: true}
		installmentTotal = sql.NullInt64{Int64: int64(tx.Installment.Total), Valid: true}
	}

	_, err := dbTx.ExecContext(ctx, query,
		tx.ID, tx.OwnerID, string(tx.Type), string(tx.Subtype), string(tx.Source),
		tx.Description, tx.Amount.String(), tx.Date, tx.CategoryID, tx.SubcategoryID,
		tx.AccountID, installmentNumber, installmentTotal, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func insertResponsibilities(ctx context.Context, dbTx *sql.Tx, tx *domain.Transaction) error {
	query := `
		INSERT INTO transaction_responsibilities
			(transaction_id, position, responsible_id, percentage, calculated_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i, resp := range tx.Responsibilities {
		_, err := dbTx.ExecContext(ctx, query,
			tx.ID, i, resp.ResponsibleID,
			resp.Percentage.String(), resp.CalculatedAmount.String(), resp.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to insert responsibility: %w", err)
		}
	}
	return nil
}

func (r *transactionRepository) loadResponsibilities(ctx context.Context, tx *domain.Transaction) error {
	query := `
		SELECT responsible_id, percentage, calculated_amount, notes
		FROM transaction_responsibilities
		WHERE transaction_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tx.ID)
	if err != nil {
		return fmt.Errorf("failed to query responsibilities: %w", err)
	}
	defer rows.Close()

	var responsibilities []domain.Responsibility
	for rows.Next() {
		var resp domain.Responsibility
		var pctStr, amountStr string

		if err := rows.Scan(&resp.ResponsibleID, &pctStr, &amountStr, &resp.Notes); err != nil {
			return fmt.Errorf("failed to scan responsibility: %w", err)
		}

		if resp.Percentage, err = decimal.NewFromString(pctStr); err != nil {
			return fmt.Errorf("failed to parse responsibility percentage: %w", err)
		}
		if resp.CalculatedAmount, err = decimal.NewFromString(amountStr); err != nil {
			return fmt.Errorf("failed to parse responsibility amount: %w", err)
		}

		responsibilities = append(responsibilities, resp)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating responsibilities: %w", err)
	}

	tx.Responsibilities = responsibilities
	return nil
}
