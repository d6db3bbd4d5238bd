package transaction

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/finledger/finledger-backend/internal/domain"
	"github.com/finledger/finledger-backend/internal/query"
)

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Transaction, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository for testing
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Category, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

// MockPartyRepository is a mock implementation of ResponsiblePartyRepository for testing
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) Create(ctx context.Context, party *domain.ResponsibleParty) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *MockPartyRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.ResponsibleParty, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResponsibleParty), args.Error(1)
}

func (m *MockPartyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.ResponsibleParty, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ResponsibleParty), args.Error(1)
}

func testPager() query.Pager {
	return query.Pager{DefaultSize: 20, MaxSize: 100}
}

func validInput(categoryID uuid.UUID, responsibilities ...ResponsibilityInput) Input {
	return Input{
		Type:             domain.TransactionTypeExpense,
		Subtype:          domain.TransactionSubtypeVariable,
		Source:           domain.PaymentSourceCreditCard,
		Description:      "Dinner out",
		Amount:           decimal.RequireFromString("1000.00"),
		Date:             time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC),
		CategoryID:       categoryID,
		Responsibilities: responsibilities,
	}
}

func TestCreate_StandardFlow(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	mockPartyRepo := new(MockPartyRepository)

	service := NewService(mockTxRepo, mockCategoryRepo, mockPartyRepo, testPager())

	ownerID := uuid.New()
	categoryID := uuid.New()
	party1 := uuid.New()
	party2 := uuid.New()

	mockCategoryRepo.On("GetByID", ctx, ownerID, categoryID).
		Return(&domain.Category{ID: categoryID, OwnerID: ownerID, Name: "Food"}, nil)
	mockPartyRepo.On("GetByID", ctx, ownerID, party1).
		Return(&domain.ResponsibleParty{ID: party1, OwnerID: ownerID, Name: "Ana"}, nil)
	mockPartyRepo.On("GetByID", ctx, ownerID, party2).
		Return(&domain.ResponsibleParty{ID: party2, OwnerID: ownerID, Name: "Bruno"}, nil)

	mockTxRepo.On("Create", ctx, mock.MatchedBy(func(tx *domain.Transaction) bool {
		if len(tx.Responsibilities) != 2 {
			return false
		}
		// 60/40 of 1000.00 must land as 600.00 and 400.00
		if !tx.Responsibilities[0].CalculatedAmount.Equal(decimal.RequireFromString("600.00")) {
			return false
		}
		if !tx.Responsibilities[1].CalculatedAmount.Equal(decimal.RequireFromString("400.00")) {
			return false
		}
		sum := tx.Responsibilities[0].CalculatedAmount.Add(tx.Responsibilities[1].CalculatedAmount)
		return sum.Equal(tx.Amount)
	})).Return(nil)

	input := validInput(categoryID,
		ResponsibilityInput{ResponsibleID: party1, Percentage: decimal.NewFromInt(60)},
		ResponsibilityInput{ResponsibleID: party2, Percentage: decimal.NewFromInt(40)},
	)

	tx, err := service.Create(ctx, ownerID, input)
	require.NoError(t, err)
	assert.Equal(t, ownerID, tx.OwnerID)
	assert.NotEqual(t, uuid.Nil, tx.ID)

	mockTxRepo.AssertExpectations(t)
}

func TestCreate_PercentageMismatchNoWrite(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	mockPartyRepo := new(MockPartyRepository)

	service := NewService(mockTxRepo, mockCategoryRepo, mockPartyRepo, testPager())

	ownerID := uuid.New()
	categoryID := uuid.New()

	mockCategoryRepo.On("GetByID", ctx, ownerID, categoryID).
		Return(&domain.Category{ID: categoryID, OwnerID: ownerID, Name: "Food"}, nil)

	input := validInput(categoryID,
		ResponsibilityInput{ResponsibleID: uuid.New(), Percentage: decimal.NewFromInt(50)},
		ResponsibilityInput{ResponsibleID: uuid.New(), Percentage: decimal.NewFromInt(30)},
	)

	_, err := service.Create(ctx, ownerID, input)
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.CodePercentageMismatch, ve.Code)

	mockTxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_EmptyResponsibilitiesRejected(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	mockPartyRepo := new(MockPartyRepository)

	service := NewService(mockTxRepo, mockCategoryRepo, mockPartyRepo, testPager())

	ownerID := uuid.New()
	categoryID := uuid.New()
	mockCategoryRepo.On("GetByID", ctx, ownerID, categoryID).
		Return(&domain.Category{ID: categoryID, OwnerID: ownerID, Name: "Food"}, nil)

	_, err := service.Create(ctx, ownerID, validInput(categoryID))
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.CodeMissingResponsible, ve.Code)
	mockTxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_UnknownCategoryRejected(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	mockPartyRepo := new(MockPartyRepository)

	service := NewService(mockTxRepo, mockCategoryRepo, mockPartyRepo, testPager())

	ownerID := uuid.New()
	categoryID := uuid.New()

	mockCategoryRepo.On("GetByID", ctx, ownerID, categoryID).
		Return(nil, domain.NewNotFoundError("category", categoryID.String()))

	input := validInput(categoryID,
		ResponsibilityInput{ResponsibleID: uuid.New(), Percentage: decimal.NewFromInt(100)},
	)

	_, err := service.Create(ctx, ownerID, input)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	mockTxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdate_ReplacesResponsibilityList(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	mockPartyRepo := new(MockPartyRepository)

	service := NewService(mockTxRepo, mockCategoryRepo, mockPartyRepo, testPager())

	ownerID := uuid.New()
	txID := uuid.New()
	categoryID := uuid.New()
	party := uuid.New()

	existing := &domain.Transaction{
		ID:         txID,
		OwnerID:    ownerID,
		Type:       domain.TransactionTypeExpense,
		Subtype:    domain.TransactionSubtypeFixed,
		Source:     domain.PaymentSourceCash,
		Amount:     decimal.NewFromInt(50),
		Date:       time.Now(),
		CategoryID: categoryID,
		CreatedAt:  time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Responsibilities: []domain.Responsibility{
			{ResponsibleID: uuid.New(), Percentage: decimal.NewFromInt(100)},
		},
	}

	mockTxRepo.On("GetByID", ctx, ownerID, txID).Return(existing, nil)
	mockCategoryRepo.On("GetByID", ctx, ownerID, categoryID).
		Return(&domain.Category{ID: categoryID, OwnerID: ownerID, Name: "Food"}, nil)
	mockPartyRepo.On("GetByID", ctx, ownerID, party).
		Return(&domain.ResponsibleParty{ID: party, OwnerID: ownerID, Name: "Carla"}, nil)

	mockTxRepo.On("Update", ctx, mock.MatchedBy(func(tx *domain.Transaction) bool {
		// Whole list replaced, original creation time preserved
		return len(tx.Responsibilities) == 1 &&
			tx.Responsibilities[0].ResponsibleID == party &&
			tx.CreatedAt.Equal(existing.CreatedAt)
	})).Return(nil)

	input := validInput(categoryID,
		ResponsibilityInput{ResponsibleID: party, Percentage: decimal.NewFromInt(100)},
	)

	updated, err := service.Update(ctx, ownerID, txID, input)
	require.NoError(t, err)
	assert.True(t, updated.Responsibilities[0].CalculatedAmount.Equal(input.Amount))

	mockTxRepo.AssertExpectations(t)
}

func monthTx(ownerID, categoryID uuid.UUID, txType domain.TransactionType, amount string, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Type:       txType,
		Subtype:    domain.TransactionSubtypeVariable,
		Source:     domain.PaymentSourcePix,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
		CategoryID: categoryID,
	}
}

func TestQuery_MonthlySummary(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockTxRepo, new(MockCategoryRepository), new(MockPartyRepository), testPager())

	ownerID := uuid.New()
	categoryID := uuid.New()
	items := []*domain.Transaction{
		monthTx(ownerID, categoryID, domain.TransactionTypeIncome, "3000.00",
			time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)),
		monthTx(ownerID, categoryID, domain.TransactionTypeExpense, "1200.50",
			time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC)),
		monthTx(ownerID, categoryID, domain.TransactionTypeIncome, "3000.00",
			time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC)),
	}
	mockTxRepo.On("ListByOwner", ctx, ownerID).Return(items, nil)

	spec := query.ParseSpec(url.Values{
		"data":      {MetaMonthlySummary},
		"startDate": {"2026-01-01"},
		"endDate":   {"2026-02-28"},
	})

	result, err := service.Query(ctx, ownerID, spec)
	require.NoError(t, err)

	months, ok := result.([]MonthlySummary)
	require.True(t, ok)
	require.Len(t, months, 2)

	assert.Equal(t, "2026-01", months[0].Month)
	assert.True(t, months[0].Income.Equal(decimal.RequireFromString("3000.00")))
	assert.True(t, months[0].Expense.Equal(decimal.RequireFromString("1200.50")))
	assert.True(t, months[0].Net.Equal(decimal.RequireFromString("1799.50")))

	assert.Equal(t, "2026-02", months[1].Month)
	assert.True(t, months[1].Expense.IsZero())
}

func TestQuery_MonthlySummaryRequiresDateRange(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockTxRepo, new(MockCategoryRepository), new(MockPartyRepository), testPager())

	ownerID := uuid.New()
	mockTxRepo.On("ListByOwner", ctx, ownerID).Return([]*domain.Transaction{}, nil)

	spec := query.ParseSpec(url.Values{"data": {MetaMonthlySummary}})

	_, err := service.Query(ctx, ownerID, spec)
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.CodeMissingParameter, ve.Code)
	assert.Contains(t, err.Error(), "startDate")
}

func TestQuery_ByCategoryRequiresCategoryID(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockTxRepo, new(MockCategoryRepository), new(MockPartyRepository), testPager())

	ownerID := uuid.New()
	mockTxRepo.On("ListByOwner", ctx, ownerID).Return([]*domain.Transaction{}, nil)

	spec := query.ParseSpec(url.Values{"data": {MetaByCategory}})

	_, err := service.Query(ctx, ownerID, spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categoryId")
}

func TestQuery_ByCategorySummary(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockTxRepo, new(MockCategoryRepository), new(MockPartyRepository), testPager())

	ownerID := uuid.New()
	categoryID := uuid.New()
	otherCategory := uuid.New()
	now := time.Now()

	items := []*domain.Transaction{
		monthTx(ownerID, categoryID, domain.TransactionTypeExpense, "100.00", now),
		monthTx(ownerID, categoryID, domain.TransactionTypeExpense, "50.00", now),
		monthTx(ownerID, otherCategory, domain.TransactionTypeExpense, "999.00", now),
	}
	mockTxRepo.On("ListByOwner", ctx, ownerID).Return(items, nil)

	spec := query.ParseSpec(url.Values{
		"data":       {MetaByCategory},
		"categoryId": {categoryID.String()},
	})

	result, err := service.Query(ctx, ownerID, spec)
	require.NoError(t, err)

	summary, ok := result.(CategorySummary)
	require.True(t, ok)
	assert.Equal(t, 2, summary.TransactionCount)
	assert.True(t, summary.TotalAmount.Equal(decimal.RequireFromString("150.00")))
	assert.True(t, summary.AverageAmount.Equal(decimal.RequireFromString("75.00")))
}

func TestQuery_ListFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockTxRepo, new(MockCategoryRepository), new(MockPartyRepository), testPager())

	ownerID := uuid.New()
	categoryID := uuid.New()
	now := time.Now()

	items := []*domain.Transaction{
		monthTx(ownerID, categoryID, domain.TransactionTypeIncome, "10.00", now),
		monthTx(ownerID, categoryID, domain.TransactionTypeExpense, "20.00", now),
		monthTx(ownerID, categoryID, domain.TransactionTypeExpense, "30.00", now),
	}
	mockTxRepo.On("ListByOwner", ctx, ownerID).Return(items, nil)

	spec := query.ParseSpec(url.Values{
		"type":   {"EXPENSE"},
		"sortBy": {"amount"},
	})

	result, err := service.Query(ctx, ownerID, spec)
	require.NoError(t, err)

	page, ok := result.(*query.Page[domain.Transaction])
	require.True(t, ok)
	assert.Equal(t, 2, page.TotalElements)
	assert.True(t, page.Content[0].Amount.Equal(decimal.RequireFromString("20.00")))
}

func TestQuery_DistinctTypes(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockTxRepo, new(MockCategoryRepository), new(MockPartyRepository), testPager())

	ownerID := uuid.New()
	categoryID := uuid.New()
	now := time.Now()

	items := []*domain.Transaction{
		monthTx(ownerID, categoryID, domain.TransactionTypeIncome, "10.00", now),
		monthTx(ownerID, categoryID, domain.TransactionTypeExpense, "20.00", now),
		monthTx(ownerID, categoryID, domain.TransactionTypeExpense, "30.00", now),
	}
	mockTxRepo.On("ListByOwner", ctx, ownerID).Return(items, nil)

	result, err := service.Query(ctx, ownerID, query.ParseSpec(url.Values{"data": {MetaTypes}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"EXPENSE", "INCOME"}, result)
}

func TestQuery_EmptyCollectionAggregatesToZero(t *testing.T) {
	ctx := context.Background()
	mockTxRepo := new(MockTransactionRepository)
	service := NewService(mockTxRepo, new(MockCategoryRepository), new(MockPartyRepository), testPager())

	ownerID := uuid.New()
	mockTxRepo.On("ListByOwner", ctx, ownerID).Return([]*domain.Transaction{}, nil)

	spec := query.ParseSpec(url.Values{
		"data":       {MetaByCategory},
		"categoryId": {uuid.New().String()},
	})

	result, err := service.Query(ctx, ownerID, spec)
	require.NoError(t, err)

	summary, ok := result.(CategorySummary)
	require.True(t, ok)
	assert.Equal(t, 0, summary.TransactionCount)
	assert.True(t, summary.TotalAmount.IsZero())
	assert.True(t, summary.AverageAmount.IsZero())
}
