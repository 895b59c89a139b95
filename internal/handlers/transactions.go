package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bankrollbot/internal/ledger"
	"bankrollbot/internal/logger"
)

// TransactionRequest is the body for creating or amending a transaction.
type TransactionRequest struct {
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	At          time.Time `json:"at"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
}

// HandleTransactions handles GET and POST on /transactions
func (a *API) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, a.Ledger.Transactions(), http.StatusOK)

	case http.MethodPost:
		var req TransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.At.IsZero() {
			req.At = time.Now()
		}

		tx, err := a.Ledger.Record(ledger.TransactionType(req.Type), req.Amount, req.At, req.Title, req.Description)
		if err != nil {
			respondLedgerError(w, err)
			return
		}

		logger.Debug("transaction_recorded", fmt.Sprintf("id=%s type=%s amount=%.2f balance_after=%.2f",
			tx.ID, tx.Type, tx.Amount, tx.BalanceAfter))
		respondJSON(w, tx, http.StatusCreated)

	default:
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleTransactionByID handles PUT and DELETE on /transactions/{id}
func (a *API) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	txID := strings.TrimPrefix(r.URL.Path, "/transactions/")
	if txID == "" || strings.Contains(txID, "/") {
		respondWithError(w, "Invalid transaction id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := a.Ledger.Transaction(txID)
		if err != nil {
			respondLedgerError(w, err)
			return
		}
		respondJSON(w, tx, http.StatusOK)

	case http.MethodPut:
		var req TransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.At.IsZero() {
			// An amount-only edit keeps the original transaction date
			existing, err := a.Ledger.Transaction(txID)
			if err != nil {
				respondLedgerError(w, err)
				return
			}
			req.At = existing.At
		}

		if err := a.Ledger.Amend(txID, req.Amount, req.At, req.Title, req.Description); err != nil {
			respondLedgerError(w, err)
			return
		}

		tx, err := a.Ledger.Transaction(txID)
		if err != nil {
			respondLedgerError(w, err)
			return
		}
		logger.Debug("transaction_amended", fmt.Sprintf("id=%s amount=%.2f", txID, req.Amount))
		respondJSON(w, tx, http.StatusOK)

	case http.MethodDelete:
		if err := a.Ledger.Revoke(txID); err != nil {
			respondLedgerError(w, err)
			return
		}
		logger.Debug("transaction_revoked", "id="+txID)
		w.WriteHeader(http.StatusNoContent)

	default:
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
