package investment

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finledger/finledger-backend/internal/domain"
	"github.com/finledger/finledger-backend/internal/query"
)

// Metadata tokens accepted by the investments endpoint
const (
	MetaPortfolioSummary = "portfolio-summary"
	MetaTopPerformers    = "top-performers"
	MetaWorstPerformers  = "worst-performers"
	MetaTopDividendYield = "top-dividend-yield"
	MetaSectors          = "sectors"
	MetaTypes            = "types"
)

// Ranking limits: aggregators accept an optional limit, default 10, capped
const (
	defaultRankingLimit = 10
	maxRankingLimit     = 50
)

// Input carries the fields of an investment create or update request
type Input struct {
	Ticker        string
	Type          domain.InvestmentType
	Subtype       string
	Sector        string
	Industry      string
	Exchange      string
	Quantity      decimal.Decimal
	AveragePrice  decimal.Decimal
	CurrentPrice  decimal.Decimal
	PreviousClose decimal.Decimal
	DividendYield decimal.Decimal
}

// PriceInput carries an externally sourced price update
type PriceInput struct {
	CurrentPrice  decimal.Decimal
	PreviousClose decimal.Decimal
}

// Holding is the response shape of a ranked holding: the entity plus its
// derived metrics, which are never stored
type Holding struct {
	*domain.Investment
	MarketValue      decimal.Decimal `json:"marketValue"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	GainLoss         decimal.Decimal `json:"gainLoss"`
	GainLossPercent  decimal.Decimal `json:"gainLossPercent"`
	DayChangePercent decimal.Decimal `json:"dayChangePercent"`
}

// TypeBreakdown is the per-type slice of a portfolio summary
type TypeBreakdown struct {
	Type        domain.InvestmentType `json:"type"`
	MarketValue decimal.Decimal       `json:"marketValue"`
	Cost        decimal.Decimal       `json:"cost"`
	Profit      decimal.Decimal       `json:"profit"`
}

// PortfolioSummary is the composite summary of an owner's holdings
type PortfolioSummary struct {
	TotalMarketValue decimal.Decimal `json:"totalMarketValue"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	TotalProfit      decimal.Decimal `json:"totalProfit"`
	ProfitPercent    decimal.Decimal `json:"profitPercent"`
	ByType           []TypeBreakdown `json:"byType"`
}

// Service handles investment operations
type Service struct {
	InvestmentRepo domain.InvestmentRepository

	resource *query.Resource[domain.Investment]
}

// NewService creates a new investment Service instance
func NewService(investmentRepo domain.InvestmentRepository, pager query.Pager) *Service {
	s := &Service{InvestmentRepo: investmentRepo}

	filters := query.NewRegistry[domain.Investment]().
		Search(
			func(i *domain.Investment) string { return i.Ticker },
			func(i *domain.Investment) string { return i.Sector },
			func(i *domain.Investment) string { return i.Industry },
		).
		Exact("type", func(i *domain.Investment) string { return string(i.Type) }).
		Exact("sector", func(i *domain.Investment) string { return i.Sector }).
		Exact("exchange", func(i *domain.Investment) string { return i.Exchange }).
		DecimalRange("minQuantity", "maxQuantity", func(i *domain.Investment) decimal.Decimal { return i.Quantity })

	sorter := query.NewSorter("id", func(a, b *domain.Investment) bool {
		return a.ID.String() < b.ID.String()
	}).
		Field("ticker", func(a, b *domain.Investment) bool { return a.Ticker < b.Ticker }).
		Field("quantity", func(a, b *domain.Investment) bool { return a.Quantity.LessThan(b.Quantity) }).
		Field("currentPrice", func(a, b *domain.Investment) bool { return a.CurrentPrice.LessThan(b.CurrentPrice) }).
		Field("createdAt", func(a, b *domain.Investment) bool { return a.CreatedAt.Before(b.CreatedAt) })

	s.resource = &query.Resource[domain.Investment]{
		Filters: filters,
		Sort:    sorter,
		Pager:   pager,
		Metadata: map[string]query.Aggregator[domain.Investment]{
			MetaPortfolioSummary: aggregatePortfolioSummary,
			MetaTopPerformers:    rankBy(dayChange, true),
			MetaWorstPerformers:  rankBy(dayChange, false),
			MetaTopDividendYield: rankBy(dividendYield, true),
			MetaSectors:          aggregateDistinct(func(i *domain.Investment) string { return i.Sector }),
			MetaTypes:            aggregateDistinct(func(i *domain.Investment) string { return string(i.Type) }),
		},
	}

	return s
}

// Create validates and persists a new holding
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input Input) (*domain.Investment, error) {
	inv := &domain.Investment{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Ticker:        strings.ToUpper(strings.TrimSpace(input.Ticker)),
		Type:          input.Type,
		Subtype:       input.Subtype,
		Sector:        input.Sector,
		Industry:      input.Industry,
		Exchange:      input.Exchange,
		Quantity:      input.Quantity,
		AveragePrice:  input.AveragePrice,
		CurrentPrice:  input.CurrentPrice,
		PreviousClose: input.PreviousClose,
		DividendYield: input.DividendYield,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := s.InvestmentRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Update replaces the editable fields of a holding
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, input Input) (*domain.Investment, error) {
	inv, err := s.InvestmentRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	inv.Ticker = strings.ToUpper(strings.TrimSpace(input.Ticker))
	inv.Type = input.Type
	inv.Subtype = input.Subtype
	inv.Sector = input.Sector
	inv.Industry = input.Industry
	inv.Exchange = input.Exchange
	inv.Quantity = input.Quantity
	inv.AveragePrice = input.AveragePrice
	inv.CurrentPrice = input.CurrentPrice
	inv.PreviousClose = input.PreviousClose
	inv.DividendYield = input.DividendYield
	inv.UpdatedAt = time.Now()

	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := s.InvestmentRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Get retrieves one holding
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.Investment, error) {
	return s.InvestmentRepo.GetByID(ctx, ownerID, id)
}

// Delete removes a holding
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.InvestmentRepo.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.InvestmentRepo.Delete(ctx, ownerID, id)
}

// UpdatePrice records an externally sourced price point
func (s *Service) UpdatePrice(ctx context.Context, ownerID, id uuid.UUID, input PriceInput) (*domain.Investment, error) {
	if input.CurrentPrice.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewFieldValidationError("currentPrice", "must be positive", input.CurrentPrice.String())
	}
	if input.PreviousClose.LessThan(decimal.Zero) {
		return nil, domain.NewFieldValidationError("previousClose", "cannot be negative", input.PreviousClose.String())
	}

	inv, err := s.InvestmentRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	inv.CurrentPrice = input.CurrentPrice
	inv.PreviousClose = input.PreviousClose
	inv.UpdatedAt = time.Now()

	if err := s.InvestmentRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Query runs a list or metadata request over the owner's holdings
func (s *Service) Query(ctx context.Context, ownerID uuid.UUID, spec query.Spec) (interface{}, error) {
	items, err := s.InvestmentRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.resource.Execute(spec, items)
}

func aggregatePortfolioSummary(items []*domain.Investment, _ query.Params) (interface{}, error) {
	summary := PortfolioSummary{
		TotalMarketValue: decimal.Zero,
		TotalCost:        decimal.Zero,
		TotalProfit:      decimal.Zero,
		ProfitPercent:    decimal.Zero,
		ByType:           []TypeBreakdown{},
	}

	byType := make(map[domain.InvestmentType]*TypeBreakdown)
	for _, inv := range items {
		value := inv.MarketValue()
		cost := inv.TotalCost()
		summary.TotalMarketValue = summary.TotalMarketValue.Add(value)
		summary.TotalCost = summary.TotalCost.Add(cost)

		breakdown, ok := byType[inv.Type]
		if !ok {
			breakdown = &TypeBreakdown{
				Type:        inv.Type,
				MarketValue: decimal.Zero,
				Cost:        decimal.Zero,
			}
			byType[inv.Type] = breakdown
		}
		breakdown.MarketValue = breakdown.MarketValue.Add(value)
		breakdown.Cost = breakdown.Cost.Add(cost)
	}

	summary.TotalProfit = summary.TotalMarketValue.Sub(summary.TotalCost)
	if summary.TotalCost.IsPositive() {
		summary.ProfitPercent = summary.TotalProfit.
			Div(summary.TotalCost).Mul(decimal.NewFromInt(100)).Round(2)
	}

	for _, breakdown := range byType {
		breakdown.Profit = breakdown.MarketValue.Sub(breakdown.Cost)
		summary.ByType = append(summary.ByType, *breakdown)
	}
	sort.Slice(summary.ByType, func(i, j int) bool {
		return summary.ByType[i].Type < summary.ByType[j].Type
	})

	return summary, nil
}

func dayChange(i *domain.Investment) decimal.Decimal { return i.DayChangePercent() }

func dividendYield(i *domain.Investment) decimal.Decimal { return i.DividendYield }

// rankBy builds a ranking aggregator over a computed metric. Descending for
// top rankings, ascending for worst; ties always break by ID ascending so
// rankings are deterministic.
func rankBy(metric func(*domain.Investment) decimal.Decimal, descending bool) query.Aggregator[domain.Investment] {
	return func(items []*domain.Investment, params query.Params) (interface{}, error) {
		limit := query.Limit(params, defaultRankingLimit, maxRankingLimit)

		ranked := make([]*domain.Investment, len(items))
		copy(ranked, items)
		sort.SliceStable(ranked, func(i, j int) bool {
			a, b := metric(ranked[i]), metric(ranked[j])
			if !a.Equal(b) {
				if descending {
					return a.GreaterThan(b)
				}
				return a.LessThan(b)
			}
			return ranked[i].ID.String() < ranked[j].ID.String()
		})

		if len(ranked) > limit {
			ranked = ranked[:limit]
		}

		holdings := make([]Holding, 0, len(ranked))
		for _, inv := range ranked {
			holdings = append(holdings, Holding{
				Investment:       inv,
				MarketValue:      inv.MarketValue(),
				TotalCost:        inv.TotalCost(),
				GainLoss:         inv.GainLoss(),
				GainLossPercent:  inv.GainLossPercent(),
				DayChangePercent: inv.DayChangePercent(),
			})
		}
		return holdings, nil
	}
}

func aggregateDistinct(get func(*domain.Investment) string) query.Aggregator[domain.Investment] {
	return func(items []*domain.Investment, _ query.Params) (interface{}, error) {
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
		return out, nil
	}
}
