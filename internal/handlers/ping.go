package handlers

import (
	"net/http"
)

// PingResponse reports liveness plus record counts, so a probe can tell a
// fresh database from a loaded one.
type PingResponse struct {
	Status       string `json:"status"`
	Service      string `json:"service"`
	Transactions int    `json:"transactions"`
	Bets         int    `json:"bets"`
}

// HandlePing handles the /ping endpoint
func (a *API) HandlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	respondJSON(w, PingResponse{
		Status:       "ok",
		Service:      "bankrollbot",
		Transactions: len(a.Ledger.Transactions()),
		Bets:         len(a.Ledger.Bets()),
	}, http.StatusOK)
}
