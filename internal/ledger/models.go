package ledger

import (
	"time"

	"bankrollbot/internal/settle"
)

// TransactionType says which way a cash movement goes.
type TransactionType string

const (
	TypeDeposit    TransactionType = "DEPOSIT"
	TypeWithdrawal TransactionType = "WITHDRAWAL"
)

// TargetMode selects which monthly goal figure is authoritative.
type TargetMode string

const (
	TargetPercentage TargetMode = "PERCENTAGE"
	TargetFixed      TargetMode = "FIXED"
)

// ProjectionMode selects linear or compound growth projection.
type ProjectionMode string

const (
	ProjectionLinear   ProjectionMode = "LINEAR"
	ProjectionCompound ProjectionMode = "COMPOUND"
)

// BankrollState is the single per-user tracker state. CurrentBankroll is
// cached but must always equal initial + deposits - withdrawals + applied
// bet profit.
type BankrollState struct {
	InitialBankroll  float64        `json:"initial_bankroll"`
	CurrentBankroll  float64        `json:"current_bankroll"`
	TargetMode       TargetMode     `json:"target_mode"`
	TargetPercentage float64        `json:"target_percentage"`
	TargetAmount     float64        `json:"target_amount"`
	ProjectionMode   ProjectionMode `json:"projection_mode"`
}

// Transaction is one deposit or withdrawal. BalanceAfter snapshots the
// bankroll immediately after the transaction was applied; it is only
// touched again through Amend.
type Transaction struct {
	ID           string          `json:"id"`
	Type         TransactionType `json:"type"`
	Amount       float64         `json:"amount"`
	At           time.Time       `json:"at"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	BalanceAfter float64         `json:"balance_after"`
}

// signed returns the transaction's contribution to the bankroll.
func (t Transaction) signed() float64 {
	if t.Type == TypeWithdrawal {
		return -t.Amount
	}
	return t.Amount
}

// Bet is one logged wager, simple or combination. Amount, Odds, Return and
// Profit are always derived from the legs through settlement, never set
// directly. ProfitApplied records whether Profit has been folded into the
// bankroll; re-renders and replays check the flag, not the status.
type Bet struct {
	ID            string        `json:"id"`
	Title         string        `json:"title,omitempty"`
	Amount        float64       `json:"amount"`
	Odds          float64       `json:"odds"`
	Return        float64       `json:"return"`
	Profit        float64       `json:"profit"`
	Status        settle.Status `json:"status"`
	Legs          []settle.Leg  `json:"legs"`
	PlacedAt      time.Time     `json:"placed_at"`
	SettledAt     *time.Time    `json:"settled_at,omitempty"`
	ProfitApplied bool          `json:"profit_applied"`
}
