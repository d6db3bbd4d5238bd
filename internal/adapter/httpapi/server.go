package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/finledger/finledger-backend/internal/domain"
	"github.com/finledger/finledger-backend/internal/usecase/goal"
	"github.com/finledger/finledger-backend/internal/usecase/investment"
	"github.com/finledger/finledger-backend/internal/usecase/transaction"
)

// Server holds the HTTP handlers and their collaborators
type Server struct {
	Transactions *transaction.Service
	Goals        *goal.Service
	Investments  *investment.Service
	CategoryRepo domain.CategoryRepository
	PartyRepo    domain.ResponsiblePartyRepository

	log zerolog.Logger
}

// NewServer creates a new HTTP server instance
func NewServer(
	transactions *transaction.Service,
	goals *goal.Service,
	investments *investment.Service,
	categoryRepo domain.CategoryRepository,
	partyRepo domain.ResponsiblePartyRepository,
	log zerolog.Logger,
) *Server {
	return &Server{
		Transactions: transactions,
		Goals:        goals,
		Investments:  investments,
		CategoryRepo: categoryRepo,
		PartyRepo:    partyRepo,
		log:          log,
	}
}

// Router assembles the route tree
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Authenticate(s.log))

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.queryTransactions)
			r.Post("/", s.createTransaction)
			r.Get("/{id}", s.getTransaction)
			r.Put("/{id}", s.updateTransaction)
			r.Delete("/{id}", s.deleteTransaction)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", s.queryGoals)
			r.Post("/", s.createGoal)
			r.Get("/{id}", s.getGoal)
			r.Put("/{id}", s.updateGoal)
			r.Delete("/{id}", s.deleteGoal)
			r.Post("/{id}/progress", s.updateGoalProgress)
		})

		r.Route("/investments", func(r chi.Router) {
			r.Get("/", s.queryInvestments)
			r.Post("/", s.createInvestment)
			r.Get("/{id}", s.getInvestment)
			r.Put("/{id}", s.updateInvestment)
			r.Delete("/{id}", s.deleteInvestment)
			r.Put("/{id}/price", s.updateInvestmentPrice)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.listCategories)
			r.Post("/", s.createCategory)
		})

		r.Route("/responsibles", func(r chi.Router) {
			r.Get("/", s.listResponsibles)
			r.Post("/", s.createResponsible)
		})
	})

	return r
}

// pathID parses the {id} route parameter
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewFieldValidationError("id", "must be a valid UUID", raw)
	}
	return id, nil
}

// decodeBody parses a JSON request body
func decodeBody(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return domain.NewValidationError("invalid request body: %v", err)
	}
	return nil
}
