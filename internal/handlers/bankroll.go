package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"bankrollbot/internal/ledger"
	"bankrollbot/internal/logger"
)

// UpdateBankrollRequest carries partial updates to the bankroll settings.
// Absent fields stay untouched.
type UpdateBankrollRequest struct {
	InitialBankroll  *float64 `json:"initial_bankroll,omitempty"`
	TargetMode       *string  `json:"target_mode,omitempty"`
	TargetPercentage *float64 `json:"target_percentage,omitempty"`
	TargetAmount     *float64 `json:"target_amount,omitempty"`
	ProjectionMode   *string  `json:"projection_mode,omitempty"`
}

// HandleBankroll handles GET and PUT on /bankroll
func (a *API) HandleBankroll(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, a.Ledger.State(), http.StatusOK)

	case http.MethodPut:
		var req UpdateBankrollRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.InitialBankroll != nil {
			if err := a.Ledger.SetInitialBankroll(*req.InitialBankroll); err != nil {
				respondLedgerError(w, err)
				return
			}
			logger.Debug("initial_bankroll_updated", fmt.Sprintf("amount=%.2f", *req.InitialBankroll))
		}

		if req.TargetMode != nil || req.TargetPercentage != nil || req.TargetAmount != nil {
			state := a.Ledger.State()
			mode := state.TargetMode
			pct := state.TargetPercentage
			amount := state.TargetAmount
			if req.TargetMode != nil {
				mode = ledger.TargetMode(*req.TargetMode)
			}
			if req.TargetPercentage != nil {
				pct = *req.TargetPercentage
			}
			if req.TargetAmount != nil {
				amount = *req.TargetAmount
			}
			if err := a.Ledger.SetTarget(mode, pct, amount); err != nil {
				respondLedgerError(w, err)
				return
			}
		}

		if req.ProjectionMode != nil {
			if err := a.Ledger.SetProjectionMode(ledger.ProjectionMode(*req.ProjectionMode)); err != nil {
				respondLedgerError(w, err)
				return
			}
		}

		respondJSON(w, a.Ledger.State(), http.StatusOK)

	default:
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleReset handles POST /bankroll/reset, wiping the whole tracker.
// The confirmation dialog lives in the UI; reaching this endpoint is the
// explicit user action.
func (a *API) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := a.Ledger.Reset(); err != nil {
		respondWithError(w, "Failed to reset tracker", http.StatusInternalServerError)
		return
	}
	logger.Debug("tracker_reset", "")
	respondJSON(w, a.Ledger.State(), http.StatusOK)
}
