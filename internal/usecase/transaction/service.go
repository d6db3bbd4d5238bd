package transaction

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finledger/finledger-backend/internal/domain"
	"github.com/finledger/finledger-backend/internal/query"
	"github.com/finledger/finledger-backend/internal/usecase/allocator"
)

// Metadata tokens accepted by the transactions endpoint
const (
	MetaCategories     = "categories"
	MetaTypes          = "types"
	MetaSources        = "sources"
	MetaMonthlySummary = "monthly-summary"
	MetaByCategory     = "by-category"
)

// ResponsibilityInput is one requested share of a transaction. Calculated
// amounts sent by clients are informational only and always recomputed.
type ResponsibilityInput struct {
	ResponsibleID uuid.UUID
	Percentage    decimal.Decimal
	Notes         string
}

// Input carries the fields of a transaction create or update request
type Input struct {
	Type             domain.TransactionType
	Subtype          domain.TransactionSubtype
	Source           domain.PaymentSource
	Description      string
	Amount           decimal.Decimal
	Date             time.Time
	CategoryID       uuid.UUID
	SubcategoryID    *uuid.UUID
	AccountID        *uuid.UUID
	Installment      *domain.Installment
	Responsibilities []ResponsibilityInput
}

// MonthlySummary aggregates one calendar month of transactions
type MonthlySummary struct {
	Month   string          `json:"month"` // 2006-01
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// CategorySummary aggregates the transactions of one category
type CategorySummary struct {
	CategoryID       uuid.UUID       `json:"categoryId"`
	TransactionCount int             `json:"transactionCount"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	AverageAmount    decimal.Decimal `json:"averageAmount"`
}

// Service handles transaction operations
type Service struct {
	TxRepo       domain.TransactionRepository
	CategoryRepo domain.CategoryRepository
	PartyRepo    domain.ResponsiblePartyRepository

	resource *query.Resource[domain.Transaction]
}

// NewService creates a new transaction Service instance
func NewService(
	txRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	partyRepo domain.ResponsiblePartyRepository,
	pager query.Pager,
) *Service {
	s := &Service{
		TxRepo:       txRepo,
		CategoryRepo: categoryRepo,
		PartyRepo:    partyRepo,
	}

	filters := query.NewRegistry[domain.Transaction]().
		Search(func(t *domain.Transaction) string { return t.Description }).
		Exact("type", func(t *domain.Transaction) string { return string(t.Type) }).
		Exact("subtype", func(t *domain.Transaction) string { return string(t.Subtype) }).
		Exact("source", func(t *domain.Transaction) string { return string(t.Source) }).
		Exact("categoryId", func(t *domain.Transaction) string { return t.CategoryID.String() }).
		DecimalRange("minAmount", "maxAmount", func(t *domain.Transaction) decimal.Decimal { return t.Amount }).
		DateRange("startDate", "endDate", func(t *domain.Transaction) time.Time { return t.Date })

	sorter := query.NewSorter("id", func(a, b *domain.Transaction) bool {
		return a.ID.String() < b.ID.String()
	}).
		Field("date", func(a, b *domain.Transaction) bool { return a.Date.Before(b.Date) }).
		Field("amount", func(a, b *domain.Transaction) bool { return a.Amount.LessThan(b.Amount) }).
		Field("description", func(a, b *domain.Transaction) bool { return a.Description < b.Description }).
		Field("createdAt", func(a, b *domain.Transaction) bool { return a.CreatedAt.Before(b.CreatedAt) })

	s.resource = &query.Resource[domain.Transaction]{
		Filters: filters,
		Sort:    sorter,
		Pager:   pager,
		Metadata: map[string]query.Aggregator[domain.Transaction]{
			MetaCategories:     aggregateCategories,
			MetaTypes:          aggregateTypes,
			MetaSources:        aggregateSources,
			MetaMonthlySummary: aggregateMonthlySummary,
			MetaByCategory:     aggregateByCategory,
		},
	}

	return s
}

// Create validates and persists a new transaction. The responsibility list
// is allocated before any write: an invalid split never reaches the store.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input Input) (*domain.Transaction, error) {
	tx := &domain.Transaction{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Type:          input.Type,
		Subtype:       input.Subtype,
		Source:        input.Source,
		Description:   input.Description,
		Amount:        input.Amount,
		Date:          input.Date,
		CategoryID:    input.CategoryID,
		SubcategoryID: input.SubcategoryID,
		AccountID:     input.AccountID,
		Installment:   input.Installment,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.prepare(ctx, ownerID, tx, input.Responsibilities); err != nil {
		return nil, err
	}

	if err := s.TxRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Update replaces a transaction, including its whole responsibility list.
// Individual responsibility rows are never patched.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, input Input) (*domain.Transaction, error) {
	existing, err := s.TxRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:            existing.ID,
		OwnerID:       ownerID,
		Type:          input.Type,
		Subtype:       input.Subtype,
		Source:        input.Source,
		Description:   input.Description,
		Amount:        input.Amount,
		Date:          input.Date,
		CategoryID:    input.CategoryID,
		SubcategoryID: input.SubcategoryID,
		AccountID:     input.AccountID,
		Installment:   input.Installment,
		CreatedAt:     existing.CreatedAt,
		UpdatedAt:     time.Now(),
	}

	if err := s.prepare(ctx, ownerID, tx, input.Responsibilities); err != nil {
		return nil, err
	}

	if err := s.TxRepo.Update(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Get retrieves one transaction
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Transaction, error) {
	return s.TxRepo.GetByID(ctx, ownerID, id)
}

// Delete removes a transaction and the responsibility list it owns
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.TxRepo.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.TxRepo.Delete(ctx, ownerID, id)
}

// Query runs a list or metadata request over the owner's transactions
func (s *Service) Query(ctx context.Context, ownerID uuid.UUID, spec query.Spec) (interface{}, error) {
	items, err := s.TxRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.resource.Execute(spec, items)
}

// prepare runs field validation, reference resolution and responsibility
// allocation, mutating tx into its persistable form
func (s *Service) prepare(ctx context.Context, ownerID uuid.UUID, tx *domain.Transaction, responsibilities []ResponsibilityInput) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	if _, err := s.CategoryRepo.GetByID(ctx, ownerID, tx.CategoryID); err != nil {
		return err
	}
	if tx.SubcategoryID != nil {
		if _, err := s.CategoryRepo.GetByID(ctx, ownerID, *tx.SubcategoryID); err != nil {
			return err
		}
	}

	list := make([]domain.Responsibility, 0, len(responsibilities))
	for _, r := range responsibilities {
		list = append(list, domain.Responsibility{
			ResponsibleID: r.ResponsibleID,
			Percentage:    r.Percentage,
			Notes:         r.Notes,
		})
	}

	allocated, err := allocator.Allocate(tx.Amount, list)
	if err != nil {
		return err
	}

	for _, r := range allocated {
		if _, err := s.PartyRepo.GetByID(ctx, ownerID, r.ResponsibleID); err != nil {
			return err
		}
	}

	tx.Responsibilities = allocated
	return nil
}

func aggregateCategories(items []*domain.Transaction, _ query.Params) (interface{}, error) {
	return distinct(items, func(t *domain.Transaction) string { return t.CategoryID.String() }), nil
}

func aggregateTypes(items []*domain.Transaction, _ query.Params) (interface{}, error) {
	return distinct(items, func(t *domain.Transaction) string { return string(t.Type) }), nil
}

func aggregateSources(items []*domain.Transaction, _ query.Params) (interface{}, error) {
	return distinct(items, func(t *domain.Transaction) string { return string(t.Source) }), nil
}

// aggregateMonthlySummary groups transactions of the mandatory date range by
// calendar month. Months without activity are omitted.
func aggregateMonthlySummary(items []*domain.Transaction, params query.Params) (interface{}, error) {
	start, end, err := query.RequireDateRange(params)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*MonthlySummary)
	for _, t := range items {
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		month := t.Date.Format("2006-01")
		summary, ok := byMonth[month]
		if !ok {
			summary = &MonthlySummary{
				Month:   month,
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			}
			byMonth[month] = summary
		}
		if t.Type == domain.TransactionTypeIncome {
			summary.Income = summary.Income.Add(t.Amount)
		} else {
			summary.Expense = summary.Expense.Add(t.Amount)
		}
	}

	months := make([]MonthlySummary, 0, len(byMonth))
	for _, summary := range byMonth {
		summary.Net = summary.Income.Sub(summary.Expense)
		months = append(months, *summary)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	return months, nil
}

// aggregateByCategory summarizes the transactions of the mandatory categoryId
func aggregateByCategory(items []*domain.Transaction, params query.Params) (interface{}, error) {
	raw, err := query.RequireParam(params, "categoryId")
	if err != nil {
		return nil, err
	}
	categoryID, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NewFieldValidationError("categoryId", "must be a valid UUID", raw)
	}

	summary := CategorySummary{
		CategoryID:    categoryID,
		TotalAmount:   decimal.Zero,
		AverageAmount: decimal.Zero,
	}
	for _, t := range items {
		if t.CategoryID != categoryID {
			continue
		}
		summary.TransactionCount++
		summary.TotalAmount = summary.TotalAmount.Add(t.Amount)
	}
	if summary.TransactionCount > 0 {
		summary.AverageAmount = summary.TotalAmount.
			Div(decimal.NewFromInt(int64(summary.TransactionCount))).Round(2)
	}

	return summary, nil
}

func distinct(items []*domain.Transaction, get func(*domain.Transaction) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range items {
		value := get(item)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
