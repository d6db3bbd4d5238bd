package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finledger/finledger-backend/internal/domain"
)

// responsiblePartyRepository implements domain.ResponsiblePartyRepository
type responsiblePartyRepository struct {
	db *DB
}

// NewResponsiblePartyRepository creates a new responsible party repository
func NewResponsiblePartyRepository(db *DB) domain.ResponsiblePartyRepository {
	return &responsiblePartyRepository{db: db}
}

func (r *responsiblePartyRepository) Create(ctx context.Context, party *domain.ResponsibleParty) error {
	query := `
		INSERT INTO responsible_parties (id, owner_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, party.ID, party.OwnerID, party.Name, party.CreatedAt)
	if err != nil {
		return conflictOr(fmt.Errorf("failed to insert responsible party: %w", err),
			"responsible party", "name", party.Name)
	}
	return nil
}

func (r *responsiblePartyRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.ResponsibleParty, error) {
	query := `
		SELECT id, owner_id, name, created_at
		FROM responsible_parties
		WHERE id = $1 AND owner_id = $2
	`

	var party domain.ResponsibleParty
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&party.ID, &party.OwnerID, &party.Name, &party.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("responsible party", id.String())
		}
		return nil, fmt.Errorf("failed to get responsible party: %w", err)
	}
	return &party, nil
}

func (r *responsiblePartyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.ResponsibleParty, error) {
	query := `
		SELECT id, owner_id, name, created_at
		FROM responsible_parties
		WHERE owner_id = $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responsible parties: %w", err)
	}
	defer rows.Close()

	var parties []*domain.ResponsibleParty
	for rows.Next() {
		var party domain.ResponsibleParty
		if err := rows.Scan(&party.ID, &party.OwnerID, &party.Name, &party.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan responsible party: %w", err)
		}
		parties = append(parties, &party)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating responsible parties: %w", err)
	}
	return parties, nil
}
