package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/punchamoorthee/payproc/internal/api"
	"github.com/punchamoorthee/payproc/internal/config"
	"github.com/punchamoorthee/payproc/internal/store"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Env == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Initialize Layers
	accounts := store.NewAccountStore()
	handler := api.NewHandler(accounts, logger)

	// Router
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", handler.HealthCheckHandler)

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/transactions", handler.SubmitTransactionHandler).Methods("POST")
	apiV1.HandleFunc("/accounts", handler.ListAccountsHandler).Methods("GET")
	apiV1.HandleFunc("/accounts/{id}", handler.GetAccountHandler).Methods("GET")

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
