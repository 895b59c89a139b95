package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bankrollbot/internal/logger"
	"bankrollbot/internal/settle"
)

// BetRequest is the body for logging a bet. A single-leg body describes a
// straight bet; multiple legs form a parlay.
type BetRequest struct {
	Title    string       `json:"title,omitempty"`
	PlacedAt time.Time    `json:"placed_at"`
	Legs     []settle.Leg `json:"legs"`
}

// UpdateLegsRequest replaces a bet's legs for re-settlement.
type UpdateLegsRequest struct {
	Legs []settle.Leg `json:"legs"`
}

// HandleBets handles GET and POST on /bets
func (a *API) HandleBets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, a.Ledger.Bets(), http.StatusOK)

	case http.MethodPost:
		var req BetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.PlacedAt.IsZero() {
			req.PlacedAt = time.Now()
		}

		bet, err := a.Ledger.AddBet(req.Title, req.Legs, req.PlacedAt)
		if err != nil {
			respondLedgerError(w, err)
			return
		}

		logger.Debug("bet_logged", fmt.Sprintf("id=%s stake=%.2f odds=%.2f status=%s legs=%d",
			bet.ID, bet.Amount, bet.Odds, bet.Status, len(bet.Legs)))
		respondJSON(w, bet, http.StatusCreated)

	default:
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleBetByID handles GET, PUT and DELETE on /bets/{id}
func (a *API) HandleBetByID(w http.ResponseWriter, r *http.Request) {
	betID := strings.TrimPrefix(r.URL.Path, "/bets/")
	if betID == "" || strings.Contains(betID, "/") {
		respondWithError(w, "Invalid bet id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		bet, err := a.Ledger.Bet(betID)
		if err != nil {
			respondLedgerError(w, err)
			return
		}
		respondJSON(w, bet, http.StatusOK)

	case http.MethodPut:
		var req UpdateLegsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		bet, err := a.Ledger.UpdateBetLegs(betID, req.Legs)
		if err != nil {
			respondLedgerError(w, err)
			return
		}

		logger.Debug("bet_resettled", fmt.Sprintf("id=%s status=%s profit=%.2f applied=%v",
			bet.ID, bet.Status, bet.Profit, bet.ProfitApplied))
		respondJSON(w, bet, http.StatusOK)

	case http.MethodDelete:
		if err := a.Ledger.DeleteBet(betID); err != nil {
			respondLedgerError(w, err)
			return
		}
		logger.Debug("bet_deleted", "id="+betID)
		w.WriteHeader(http.StatusNoContent)

	default:
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
