package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bankrollbot/internal/ledger"
	"bankrollbot/internal/service"
)

// API bundles the handlers over the ledger and the alert service.
type API struct {
	Ledger *ledger.Ledger
	Alerts *service.AlertService
}

// NewAPI creates the handler set.
func NewAPI(l *ledger.Ledger, alerts *service.AlertService) *API {
	return &API{Ledger: l, Alerts: alerts}
}

// Routes returns the API mux. Callers wrap it with the auth middleware.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", a.HandlePing)
	mux.HandleFunc("/bankroll", a.HandleBankroll)
	mux.HandleFunc("/bankroll/reset", a.HandleReset)
	mux.HandleFunc("/transactions", a.HandleTransactions)
	mux.HandleFunc("/transactions/", a.HandleTransactionByID)
	mux.HandleFunc("/bets", a.HandleBets)
	mux.HandleFunc("/bets/", a.HandleBetByID)
	mux.HandleFunc("/thresholds", a.HandleThresholds)
	mux.HandleFunc("/thresholds/mode", a.HandleThresholdMode)
	mux.HandleFunc("/alerts", a.HandleAlerts)
	mux.HandleFunc("/projection", a.HandleProjection)
	mux.HandleFunc("/progress", a.HandleProgress)
	return mux
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// respondJSON sends a JSON response with the given status
func respondJSON(w http.ResponseWriter, v interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondLedgerError maps the ledger's error taxonomy onto status codes.
func respondLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBankroll):
		respondWithError(w, err.Error(), http.StatusPaymentRequired)
	case errors.Is(err, ledger.ErrNotFound):
		respondWithError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidAmount):
		respondWithError(w, err.Error(), http.StatusBadRequest)
	default:
		respondWithError(w, err.Error(), http.StatusBadRequest)
	}
}
