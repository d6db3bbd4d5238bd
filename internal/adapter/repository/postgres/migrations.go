package postgres

import (
	"database/sql"
	"fmt"
)

// migrate creates the schema when missing. Statements are idempotent so the
// server can run them at every startup.
func migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			name TEXT NOT NULL,
			parent_id UUID REFERENCES categories(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (owner_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS responsible_parties (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (owner_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			type TEXT NOT NULL,
			subtype TEXT NOT NULL,
			source TEXT NOT NULL,
			description TEXT NOT NULL,
			amount NUMERIC(18,2) NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			category_id UUID NOT NULL REFERENCES categories(id),
			subcategory_id UUID REFERENCES categories(id),
			account_id UUID,
			installment_number INT,
			installment_total INT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transaction_responsibilities (
			transaction_id UUID NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
			position INT NOT NULL,
			responsible_id UUID NOT NULL REFERENCES responsible_parties(id),
			percentage NUMERIC(7,4) NOT NULL,
			calculated_amount NUMERIC(18,2) NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (transaction_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS financial_goals (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			target_amount NUMERIC(18,2) NOT NULL,
			current_amount NUMERIC(18,2) NOT NULL,
			deadline TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL,
			priority INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (owner_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS investments (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			ticker TEXT NOT NULL,
			type TEXT NOT NULL,
			subtype TEXT NOT NULL DEFAULT '',
			sector TEXT NOT NULL DEFAULT '',
			industry TEXT NOT NULL DEFAULT '',
			exchange TEXT NOT NULL DEFAULT '',
			quantity NUMERIC(18,8) NOT NULL,
			average_price NUMERIC(18,4) NOT NULL,
			current_price NUMERIC(18,4) NOT NULL,
			previous_close NUMERIC(18,4) NOT NULL,
			dividend_yield NUMERIC(7,4) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (owner_id, ticker)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_owner ON transactions(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_owner ON financial_goals(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_investments_owner ON investments(owner_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
