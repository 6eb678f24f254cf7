package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/punchamoorthee/payproc/internal/api"
	"github.com/punchamoorthee/payproc/internal/store"
)

func newRouter() *mux.Router {
	handler := api.NewHandler(store.NewAccountStore(), zap.NewNop())

	r := mux.NewRouter()
	r.HandleFunc("/health", handler.HealthCheckHandler)
	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/transactions", handler.SubmitTransactionHandler).Methods("POST")
	apiV1.HandleFunc("/accounts", handler.ListAccountsHandler).Methods("GET")
	apiV1.HandleFunc("/accounts/{id}", handler.GetAccountHandler).Methods("GET")
	return r
}

func do(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	rec := do(t, newRouter(), "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitAndFetchAccount(t *testing.T) {
	router := newRouter()

	rec := do(t, router, "POST", "/api/v1/transactions",
		`{"type":"deposit","client":1,"tx":1,"amount":1.0}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, router, "POST", "/api/v1/transactions",
		`{"type":"deposit","client":1,"tx":2,"amount":2.0}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, router, "POST", "/api/v1/transactions",
		`{"type":"dispute","client":1,"tx":1}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = do(t, router, "GET", "/api/v1/accounts/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap api.AccountSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, uint16(1), snap.Client)
	assert.Equal(t, "2.0000", snap.Available)
	assert.Equal(t, "1.0000", snap.Held)
	assert.Equal(t, "3.0000", snap.Total)
	assert.False(t, snap.Locked)
}

func TestSubmitMalformedBody(t *testing.T) {
	rec := do(t, newRouter(), "POST", "/api/v1/transactions", `{"type":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitUnknownType(t *testing.T) {
	rec := do(t, newRouter(), "POST", "/api/v1/transactions",
		`{"type":"transfer","client":1,"tx":1,"amount":1.0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitDepositWithoutAmount(t *testing.T) {
	rec := do(t, newRouter(), "POST", "/api/v1/transactions",
		`{"type":"deposit","client":1,"tx":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitNegativeAmount(t *testing.T) {
	rec := do(t, newRouter(), "POST", "/api/v1/transactions",
		`{"type":"deposit","client":1,"tx":1,"amount":-1.0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitInsufficientFunds(t *testing.T) {
	router := newRouter()

	rec := do(t, router, "POST", "/api/v1/transactions",
		`{"type":"withdrawal","client":1,"tx":1,"amount":3.0}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient funds")
}

func TestGetAccountNotFound(t *testing.T) {
	rec := do(t, newRouter(), "GET", "/api/v1/accounts/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAccountInvalidID(t *testing.T) {
	router := newRouter()

	rec := do(t, router, "GET", "/api/v1/accounts/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 70000 does not fit in a client id.
	rec = do(t, router, "GET", "/api/v1/accounts/70000", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAccountsSorted(t *testing.T) {
	router := newRouter()

	for _, body := range []string{
		`{"type":"deposit","client":3,"tx":1,"amount":3.0}`,
		`{"type":"deposit","client":1,"tx":2,"amount":1.0}`,
		`{"type":"deposit","client":2,"tx":3,"amount":2.0}`,
	} {
		rec := do(t, router, "POST", "/api/v1/transactions", body)
		require.Equal(t, http.StatusAccepted, rec.Code)
	}

	rec := do(t, router, "GET", "/api/v1/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snaps []api.AccountSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snaps))
	require.Len(t, snaps, 3)
	assert.Equal(t, uint16(1), snaps[0].Client)
	assert.Equal(t, uint16(2), snaps[1].Client)
	assert.Equal(t, uint16(3), snaps[2].Client)
	assert.Equal(t, "1.0000", snaps[0].Available)
}
