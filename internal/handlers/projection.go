package handlers

import (
	"net/http"
	"strconv"
	"time"

	"bankrollbot/internal/ledger"
	"bankrollbot/internal/projection"
)

// ProjectionResponse is the response for /projection.
type ProjectionResponse struct {
	Mode           ledger.ProjectionMode `json:"mode"`
	Months         int                   `json:"months"`
	MonthlyGoalPct float64               `json:"monthly_goal_pct"`
	Projection     projection.Projection `json:"projection"`
}

// HandleProjection handles GET /projection?months=N using the stored
// projection mode and monthly goal.
func (a *API) HandleProjection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	months := 12
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondWithError(w, "Invalid months: must be a positive integer", http.StatusBadRequest)
			return
		}
		months = n
	}

	state := a.Ledger.State()
	goalPct := a.Ledger.MonthlyGoalPct()

	var proj projection.Projection
	if state.ProjectionMode == ledger.ProjectionCompound {
		proj = projection.Compound(goalPct, months, state.CurrentBankroll)
	} else {
		proj = projection.Linear(goalPct, months, state.CurrentBankroll)
	}

	respondJSON(w, ProjectionResponse{
		Mode:           state.ProjectionMode,
		Months:         months,
		MonthlyGoalPct: goalPct,
		Projection:     proj,
	}, http.StatusOK)
}

// ProgressResponse is the response for /progress.
type ProgressResponse struct {
	CurrentBankroll    float64               `json:"current_bankroll"`
	MonthStartBankroll float64               `json:"month_start_bankroll"`
	MonthlyGoalPct     float64               `json:"monthly_goal_pct"`
	Progress           projection.Progress   `json:"progress"`
	ROI                projection.ROI        `json:"roi"`
	Growth             projection.Growth     `json:"growth"`
}

// HandleProgress handles GET /progress: the monthly standing plus overall
// betting performance.
func (a *API) HandleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := time.Now()
	state := a.Ledger.State()
	bets := a.Ledger.Bets()
	txs := a.Ledger.Transactions()
	goalPct := a.Ledger.MonthlyGoalPct()

	monthStart := projection.BankrollAtMonthStart(state.CurrentBankroll, bets, txs, now)
	progress := projection.MonthlyProgress(state.CurrentBankroll, monthStart, goalPct, now)

	var deposits, withdrawals float64
	for _, tx := range txs {
		if tx.Type == ledger.TypeDeposit {
			deposits += tx.Amount
		} else {
			withdrawals += tx.Amount
		}
	}

	respondJSON(w, ProgressResponse{
		CurrentBankroll:    state.CurrentBankroll,
		MonthStartBankroll: monthStart,
		MonthlyGoalPct:     goalPct,
		Progress:           progress,
		ROI:                projection.BettingROI(bets),
		Growth:             projection.TotalGrowth(state.InitialBankroll, state.CurrentBankroll, deposits, withdrawals),
	}, http.StatusOK)
}
