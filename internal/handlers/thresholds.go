package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bankrollbot/internal/logger"
	"bankrollbot/internal/money"
	"bankrollbot/internal/risk"
	"bankrollbot/internal/service"
)

// SetThresholdRequest stores one stop value with its unit.
type SetThresholdRequest struct {
	Field  string  `json:"field"`
	Mode   string  `json:"mode"`
	Amount float64 `json:"amount"`
}

// SwitchModeRequest re-tags one stop between currency and percentage.
type SwitchModeRequest struct {
	Field string `json:"field"`
	Mode  string `json:"mode"`
}

// HandleThresholds handles GET and PUT on /thresholds
func (a *API) HandleThresholds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, a.Ledger.Thresholds(), http.StatusOK)

	case http.MethodPut:
		var req SetThresholdRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		mode := money.Mode(req.Mode)
		if mode != money.ModeCurrency && mode != money.ModePercentage {
			respondWithError(w, "Invalid mode: must be CURRENCY or PERCENTAGE", http.StatusBadRequest)
			return
		}

		err := a.Ledger.SetThreshold(risk.Field(req.Field), money.Value{Mode: mode, Amount: req.Amount})
		if err != nil {
			respondWithError(w, err.Error(), http.StatusBadRequest)
			return
		}

		logger.Debug("threshold_set", fmt.Sprintf("field=%s mode=%s amount=%.2f", req.Field, req.Mode, req.Amount))
		respondJSON(w, a.Ledger.Thresholds(), http.StatusOK)

	default:
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleThresholdMode handles POST /thresholds/mode: the unit switch that
// converts against the bankroll at this very moment.
func (a *API) HandleThresholdMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SwitchModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	mode := money.Mode(req.Mode)
	if mode != money.ModeCurrency && mode != money.ModePercentage {
		respondWithError(w, "Invalid mode: must be CURRENCY or PERCENTAGE", http.StatusBadRequest)
		return
	}

	if err := a.Ledger.SwitchThresholdMode(risk.Field(req.Field), mode); err != nil {
		respondWithError(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Debug("threshold_mode_switched", fmt.Sprintf("field=%s mode=%s", req.Field, req.Mode))
	respondJSON(w, a.Ledger.Thresholds(), http.StatusOK)
}

// HandleAlerts handles GET /alerts: the stops crossed as of now.
func (a *API) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	alerts := a.Alerts.Evaluate(time.Now())
	if alerts == nil {
		alerts = []service.Alert{}
	}
	respondJSON(w, alerts, http.StatusOK)
}
