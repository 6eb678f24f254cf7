package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/punchamoorthee/payproc/internal/domain"
	"github.com/punchamoorthee/payproc/internal/store"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payproc_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payproc_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})

	transactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payproc_transactions_total",
		Help: "Transactions submitted over HTTP, labeled by kind and outcome",
	}, []string{"kind", "outcome"})
)

// TransactionRequest is the payload for submitting one transaction.
// Amount is required for deposits and withdrawals and ignored for the
// dispute family.
type TransactionRequest struct {
	Type   string   `json:"type"`
	Client uint16   `json:"client"`
	Tx     uint32   `json:"tx"`
	Amount *float64 `json:"amount,omitempty"`
}

// AccountSnapshot is the canonical account view, with amounts in their
// exact four-decimal textual form.
type AccountSnapshot struct {
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
}

// Handler serves the transaction ingestion and account snapshot
// endpoints. The account store is single-owner, so one mutex serializes
// every access from the HTTP goroutines.
type Handler struct {
	mu       sync.Mutex
	accounts *store.AccountStore
	logger   *zap.Logger
}

func NewHandler(accounts *store.AccountStore, logger *zap.Logger) *Handler {
	return &Handler{accounts: accounts, logger: logger}
}

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SubmitTransactionHandler decodes one transaction and applies it.
func (h *Handler) SubmitTransactionHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/transactions"))
	defer timer.ObserveDuration()

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpRequestsTotal.WithLabelValues("POST", "/transactions", "400").Inc()
		respondWithError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	tx, err := buildTransaction(req)
	if err != nil {
		httpRequestsTotal.WithLabelValues("POST", "/transactions", "400").Inc()
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	client := domain.NewClientID(req.Client)

	h.mu.Lock()
	err = h.accounts.Apply(client, tx)
	h.mu.Unlock()

	if err != nil {
		transactionsTotal.WithLabelValues(tx.Kind().String(), "rejected").Inc()
		h.logger.Warn("transaction rejected",
			zap.Uint32("tx", req.Tx),
			zap.Uint16("client", req.Client),
			zap.Stringer("kind", tx.Kind()),
			zap.Error(err),
		)
		switch {
		case errors.Is(err, domain.ErrInsufficientFunds):
			httpRequestsTotal.WithLabelValues("POST", "/transactions", "422").Inc()
			respondWithError(w, http.StatusUnprocessableEntity, "Insufficient funds")
		case errors.Is(err, domain.ErrArithmetic):
			httpRequestsTotal.WithLabelValues("POST", "/transactions", "422").Inc()
			respondWithError(w, http.StatusUnprocessableEntity, "Arithmetic overflow")
		default:
			httpRequestsTotal.WithLabelValues("POST", "/transactions", "500").Inc()
			respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	transactionsTotal.WithLabelValues(tx.Kind().String(), "applied").Inc()
	httpRequestsTotal.WithLabelValues("POST", "/transactions", "202").Inc()
	respondWithJSON(w, http.StatusAccepted, map[string]uint32{"tx": req.Tx})
}

// GetAccountHandler returns one account snapshot.
func (h *Handler) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 16)
	if err != nil {
		httpRequestsTotal.WithLabelValues("GET", "/accounts/{id}", "400").Inc()
		respondWithError(w, http.StatusBadRequest, "Invalid client id")
		return
	}

	h.mu.Lock()
	acc, ok := h.accounts.Get(domain.NewClientID(uint16(raw)))
	var snap AccountSnapshot
	if ok {
		snap, err = snapshotOf(acc)
	}
	h.mu.Unlock()

	if !ok {
		httpRequestsTotal.WithLabelValues("GET", "/accounts/{id}", "404").Inc()
		respondWithError(w, http.StatusNotFound, "Account not found")
		return
	}
	if err != nil {
		httpRequestsTotal.WithLabelValues("GET", "/accounts/{id}", "500").Inc()
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	httpRequestsTotal.WithLabelValues("GET", "/accounts/{id}", "200").Inc()
	respondWithJSON(w, http.StatusOK, snap)
}

// ListAccountsHandler returns every account snapshot, sorted by client
// id since the store itself has no iteration order.
func (h *Handler) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	snaps := make([]AccountSnapshot, 0, h.accounts.Len())
	var snapErr error
	for _, acc := range h.accounts.All() {
		snap, err := snapshotOf(acc)
		if err != nil {
			snapErr = err
			break
		}
		snaps = append(snaps, snap)
	}
	h.mu.Unlock()

	if snapErr != nil {
		httpRequestsTotal.WithLabelValues("GET", "/accounts", "500").Inc()
		respondWithError(w, http.StatusInternalServerError, snapErr.Error())
		return
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Client < snaps[j].Client })

	httpRequestsTotal.WithLabelValues("GET", "/accounts", "200").Inc()
	respondWithJSON(w, http.StatusOK, snaps)
}

func buildTransaction(req TransactionRequest) (domain.Transaction, error) {
	var zero domain.Transaction

	kind, err := domain.ParseKind(req.Type)
	if err != nil {
		return zero, err
	}
	txID := domain.NewTxID(req.Tx)

	switch kind {
	case domain.KindDeposit, domain.KindWithdrawal:
		if req.Amount == nil {
			return zero, errors.New("amount is required for deposits and withdrawals")
		}
		amount, err := domain.AmountFromFloat(*req.Amount)
		if err != nil {
			return zero, errors.New("amount must be a non-negative finite number")
		}
		if kind == domain.KindDeposit {
			return domain.NewDeposit(txID, amount), nil
		}
		return domain.NewWithdrawal(txID, amount), nil
	case domain.KindDispute:
		return domain.NewDispute(txID), nil
	case domain.KindResolve:
		return domain.NewResolve(txID), nil
	default:
		return domain.NewChargeback(txID), nil
	}
}

func snapshotOf(acc *domain.Account) (AccountSnapshot, error) {
	total, err := acc.Total()
	if err != nil {
		return AccountSnapshot{}, err
	}
	return AccountSnapshot{
		Client:    acc.Owner().Value(),
		Available: acc.Available().String(),
		Held:      acc.Held().String(),
		Total:     total.String(),
		Locked:    acc.Locked(),
	}, nil
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}
