package settle

// Status is the settlement state of a leg or of a whole bet.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusWon     Status = "WON"
	StatusLost    Status = "LOST"
	StatusVoid    Status = "VOID"
)

// Leg is one selection inside a combination bet. Team, Market and League
// are carried for display and history only; the settlement math reads
// Amount, Odds and Status.
type Leg struct {
	Amount float64 `json:"amount"`
	Odds   float64 `json:"odds"`
	Status Status  `json:"status"`
	Team   string  `json:"team,omitempty"`
	Market string  `json:"market,omitempty"`
	League string  `json:"league,omitempty"`
}

// Result is the settled stake/odds/return/profit tuple for a bet.
type Result struct {
	Amount float64 `json:"amount"`
	Odds   float64 `json:"odds"`
	Return float64 `json:"return"`
	Profit float64 `json:"profit"`
	Status Status  `json:"status"`
}

// Settle combines one or more legs into a single settlement result.
//
// The full stake (sum over every leg) is at risk until settlement, and the
// quoted combination price is the product of every leg's odds. Status is
// derived in priority order: any lost leg sinks the whole bet; otherwise
// all-won pays the full product; otherwise void legs are treated as stake
// returned at odds 1.0, so the return is the stake times the product over
// the non-void winning legs; a remaining pending leg keeps the bet open.
//
// A bet holding both lost and void legs settles as lost: loss dominates.
// Profit is only meaningful once the bet is no longer pending; a pending
// result carries zero return and zero profit.
func Settle(legs []Leg) Result {
	var res Result
	if len(legs) == 0 {
		res.Status = StatusPending
		return res
	}

	res.Odds = 1
	anyLost := false
	anyPending := false
	anyVoid := false
	allVoid := true
	effectiveOdds := 1.0

	for _, leg := range legs {
		res.Amount += leg.Amount
		res.Odds *= leg.Odds

		switch leg.Status {
		case StatusLost:
			anyLost = true
			allVoid = false
		case StatusPending:
			anyPending = true
			allVoid = false
		case StatusWon:
			allVoid = false
			effectiveOdds *= leg.Odds
		case StatusVoid:
			// contributes odds 1.0
			anyVoid = true
		}
	}

	switch {
	case anyLost:
		res.Status = StatusLost
		res.Return = 0
	case anyPending:
		res.Status = StatusPending
		res.Return = 0
	case allVoid:
		res.Status = StatusVoid
		res.Return = res.Amount
	case anyVoid:
		// Some legs voided out; the bet still pays on the rest.
		res.Status = StatusVoid
		res.Return = res.Amount * effectiveOdds
	default:
		res.Status = StatusWon
		res.Return = res.Amount * effectiveOdds
	}

	if res.Status != StatusPending {
		res.Profit = res.Return - res.Amount
	}
	return res
}
