package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/finledger/finledger-backend/internal/adapter/httpapi"
	"github.com/finledger/finledger-backend/internal/adapter/repository/postgres"
	"github.com/finledger/finledger-backend/internal/config"
	"github.com/finledger/finledger-backend/internal/logger"
	"github.com/finledger/finledger-backend/internal/query"
	"github.com/finledger/finledger-backend/internal/usecase/goal"
	"github.com/finledger/finledger-backend/internal/usecase/investment"
	"github.com/finledger/finledger-backend/internal/usecase/transaction"
)

func main() {
	log := logger.New()
	cfg := config.Load()

	// 1. Setup Database
	db, err := postgres.NewDB(cfg.DatabaseConnStr())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// 2. Initialize Repositories (Postgres)
	transactionRepo := postgres.NewTransactionRepository(db)
	goalRepo := postgres.NewGoalRepository(db)
	investmentRepo := postgres.NewInvestmentRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	partyRepo := postgres.NewResponsiblePartyRepository(db)

	// 3. Initialize Services (Use Cases)
	pager := query.Pager{DefaultSize: cfg.DefaultPageSize, MaxSize: cfg.MaxPageSize}
	transactionService := transaction.NewService(transactionRepo, categoryRepo, partyRepo, pager)
	goalService := goal.NewService(goalRepo, pager)
	investmentService := investment.NewService(investmentRepo, pager)

	// 4. Start HTTP Server
	api := httpapi.NewServer(transactionService, goalService, investmentService,
		categoryRepo, partyRepo, log)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      api.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	waitForShutdown(server, log)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("HTTP server stopped")
}
