package ledger

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"bankrollbot/internal/id"
	"bankrollbot/internal/money"
	"bankrollbot/internal/risk"
	"bankrollbot/internal/storage"
)

// Ledger owns the bankroll state, the transaction ledger, the bet log and
// the risk thresholds, and keeps the in-memory state and its persisted
// mirror in step. The bot, the HTTP API and the alert scheduler all reach
// the ledger from their own goroutines, so every operation serializes on
// a single mutex.
type Ledger struct {
	mu    sync.Mutex
	store storage.Store

	state      BankrollState
	txs        []Transaction
	bets       []Bet
	thresholds risk.Thresholds
}

// New loads an existing ledger from the store, or starts a zero-valued one.
func New(store storage.Store) (*Ledger, error) {
	l := &Ledger{
		store:      store,
		thresholds: risk.Default(),
		state: BankrollState{
			TargetMode:     TargetPercentage,
			ProjectionMode: ProjectionLinear,
		},
	}

	if err := load(store, storage.CollectionBankroll, &l.state); err != nil {
		return nil, err
	}
	if err := load(store, storage.CollectionTransactions, &l.txs); err != nil {
		return nil, err
	}
	if err := load(store, storage.CollectionBets, &l.bets); err != nil {
		return nil, err
	}
	if err := load(store, storage.CollectionThresholds, &l.thresholds); err != nil {
		return nil, err
	}
	return l, nil
}

func load(store storage.Store, collection string, v interface{}) error {
	data, err := store.Get(collection)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", collection, err)
	}
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return nil
}

// persist writes the named collections to the store. Each collection
// persists its own key; the caller decides which slices a mutation touched.
func (l *Ledger) persist(collections ...string) error {
	for _, c := range collections {
		var v interface{}
		switch c {
		case storage.CollectionBankroll:
			v = l.state
		case storage.CollectionTransactions:
			v = l.txs
		case storage.CollectionBets:
			v = l.bets
		case storage.CollectionThresholds:
			v = l.thresholds
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", c, err)
		}
		if err := l.store.Set(c, data); err != nil {
			return err
		}
	}
	return nil
}

// State returns a copy of the bankroll state.
func (l *Ledger) State() BankrollState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// CurrentBankroll returns the authoritative current balance.
func (l *Ledger) CurrentBankroll() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.CurrentBankroll
}

// SetInitialBankroll replaces the starting balance and recomputes the
// current one so the balance invariant keeps holding. The confirmation
// gate for this edit lives in the UI.
func (l *Ledger) SetInitialBankroll(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("%w: initial bankroll cannot be negative", ErrInvalidAmount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.state
	l.state.InitialBankroll = amount
	l.state.CurrentBankroll = l.recompute()
	if err := l.persist(storage.CollectionBankroll); err != nil {
		l.state = prev
		return err
	}
	return nil
}

// recompute derives the current bankroll from first principles:
// initial + deposits - withdrawals + applied bet profit.
func (l *Ledger) recompute() float64 {
	total := l.state.InitialBankroll
	for _, tx := range l.txs {
		total += tx.signed()
	}
	for _, b := range l.bets {
		if b.ProfitApplied {
			total += b.Profit
		}
	}
	return total
}

// SetTarget stores the monthly goal definition.
func (l *Ledger) SetTarget(mode TargetMode, percentage, amount float64) error {
	if mode != TargetPercentage && mode != TargetFixed {
		return fmt.Errorf("invalid target mode: %s", mode)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.state
	l.state.TargetMode = mode
	l.state.TargetPercentage = percentage
	l.state.TargetAmount = amount
	if err := l.persist(storage.CollectionBankroll); err != nil {
		l.state = prev
		return err
	}
	return nil
}

// MonthlyGoalPct returns the monthly goal as a percentage of the current
// bankroll, whichever way the target is expressed. A fixed target against
// an empty bankroll yields 0.
func (l *Ledger) MonthlyGoalPct() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.TargetMode == TargetFixed {
		return money.Convert(l.state.TargetAmount, money.ModeCurrency, money.ModePercentage, l.state.CurrentBankroll)
	}
	return l.state.TargetPercentage
}

// SetProjectionMode stores the projection preference.
func (l *Ledger) SetProjectionMode(mode ProjectionMode) error {
	if mode != ProjectionLinear && mode != ProjectionCompound {
		return fmt.Errorf("invalid projection mode: %s", mode)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.state
	l.state.ProjectionMode = mode
	if err := l.persist(storage.CollectionBankroll); err != nil {
		l.state = prev
		return err
	}
	return nil
}

// Reset wipes the whole tracker back to zero values. Only reachable
// through an explicit user action.
func (l *Ledger) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prevState, prevTxs, prevBets, prevTh := l.state, l.txs, l.bets, l.thresholds
	l.state = BankrollState{TargetMode: TargetPercentage, ProjectionMode: ProjectionLinear}
	l.txs = nil
	l.bets = nil
	l.thresholds = risk.Default()

	if err := l.persist(storage.CollectionBankroll, storage.CollectionTransactions,
		storage.CollectionBets, storage.CollectionThresholds); err != nil {
		l.state, l.txs, l.bets, l.thresholds = prevState, prevTxs, prevBets, prevTh
		return err
	}
	return nil
}

// Record appends a deposit or withdrawal, stamps it with the post-mutation
// balance and persists ledger and bankroll together.
func (l *Ledger) Record(txType TransactionType, amount float64, at time.Time, title, description string) (*Transaction, error) {
	if txType != TypeDeposit && txType != TypeWithdrawal {
		return nil, fmt.Errorf("invalid transaction type: %s", txType)
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if txType == TypeWithdrawal && amount > l.state.CurrentBankroll {
		return nil, fmt.Errorf("%w: withdrawal of %.2f exceeds balance %.2f",
			ErrInsufficientBankroll, amount, l.state.CurrentBankroll)
	}

	tx := Transaction{
		ID:          id.New(),
		Type:        txType,
		Amount:      amount,
		At:          at,
		Title:       title,
		Description: description,
	}

	prevState, prevTxs := l.state, l.txs
	l.state.CurrentBankroll += tx.signed()
	tx.BalanceAfter = l.state.CurrentBankroll
	l.txs = append(l.txs, tx)

	if err := l.persist(storage.CollectionTransactions, storage.CollectionBankroll); err != nil {
		l.state, l.txs = prevState, prevTxs
		return nil, err
	}
	return &tx, nil
}

// Amend edits a transaction's amount, date, title or description. An amount
// change applies the signed delta to the bankroll: a bigger deposit raises
// it, a bigger withdrawal lowers it.
func (l *Ledger) Amend(txID string, amount float64, at time.Time, title, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.txs {
		if l.txs[i].ID == txID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: transaction %s", ErrNotFound, txID)
	}

	old := l.txs[idx]
	if old.Type == TypeWithdrawal {
		// The replaced withdrawal's amount is available again
		available := l.state.CurrentBankroll + old.Amount
		if amount > available {
			return fmt.Errorf("%w: withdrawal of %.2f exceeds available %.2f",
				ErrInsufficientBankroll, amount, available)
		}
	}

	delta := amount - old.Amount
	if old.Type == TypeWithdrawal {
		delta = -delta
	}

	prevState := l.state
	updated := old
	updated.Amount = amount
	updated.At = at
	updated.Title = title
	updated.Description = description
	updated.BalanceAfter = old.BalanceAfter + delta
	l.txs[idx] = updated
	l.state.CurrentBankroll += delta

	if err := l.persist(storage.CollectionTransactions, storage.CollectionBankroll); err != nil {
		l.txs[idx] = old
		l.state = prevState
		return err
	}
	return nil
}

// Revoke removes a transaction and reverses its original signed
// contribution to the bankroll.
func (l *Ledger) Revoke(txID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.txs {
		if l.txs[i].ID == txID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: transaction %s", ErrNotFound, txID)
	}

	prevState, prevTxs := l.state, l.txs
	removed := l.txs[idx]

	txs := make([]Transaction, 0, len(l.txs)-1)
	txs = append(txs, l.txs[:idx]...)
	txs = append(txs, l.txs[idx+1:]...)
	l.txs = txs
	l.state.CurrentBankroll -= removed.signed()

	if err := l.persist(storage.CollectionTransactions, storage.CollectionBankroll); err != nil {
		l.state, l.txs = prevState, prevTxs
		return err
	}
	return nil
}

// Transactions returns the ledger ordered chronologically by transaction
// time, which is not necessarily insertion order.
func (l *Ledger) Transactions() []Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Transaction, len(l.txs))
	copy(out, l.txs)
	sort.Slice(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out
}

// Transaction returns one transaction by ID.
func (l *Ledger) Transaction(txID string) (*Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.txs {
		if l.txs[i].ID == txID {
			tx := l.txs[i]
			return &tx, nil
		}
	}
	return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, txID)
}

// Thresholds returns a copy of the stop-loss/stop-gain configuration.
func (l *Ledger) Thresholds() risk.Thresholds {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.thresholds
}

// SetThreshold stores a tagged stop value.
func (l *Ledger) SetThreshold(field risk.Field, v money.Value) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.thresholds
	if err := l.thresholds.Set(field, v); err != nil {
		return err
	}
	if err := l.persist(storage.CollectionThresholds); err != nil {
		l.thresholds = prev
		return err
	}
	return nil
}

// SwitchThresholdMode re-tags a stop between currency and percentage,
// converting against the bankroll at the moment of the switch.
func (l *Ledger) SwitchThresholdMode(field risk.Field, mode money.Mode) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.thresholds
	if err := l.thresholds.SetMode(field, mode, l.state.CurrentBankroll); err != nil {
		return err
	}
	if err := l.persist(storage.CollectionThresholds); err != nil {
		l.thresholds = prev
		return err
	}
	return nil
}
