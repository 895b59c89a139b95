package ledger

import (
	"fmt"
	"sort"
	"time"

	"bankrollbot/internal/id"
	"bankrollbot/internal/settle"
	"bankrollbot/internal/storage"
)

// AddBet logs a new wager from its legs. The combined stake, odds, return
// and profit are derived through settlement; if the legs arrive already
// decided (an imported historical bet) the profit is folded into the
// bankroll right away.
func (l *Ledger) AddBet(title string, legs []settle.Leg, placedAt time.Time) (*Bet, error) {
	if len(legs) == 0 {
		return nil, fmt.Errorf("bet needs at least one leg")
	}
	for _, leg := range legs {
		if leg.Amount <= 0 {
			return nil, fmt.Errorf("%w: leg amount", ErrInvalidAmount)
		}
		if leg.Odds <= 0 {
			return nil, fmt.Errorf("invalid odds: must be greater than 0")
		}
	}

	res := settle.Settle(legs)
	bet := Bet{
		ID:       id.New(),
		Title:    title,
		Amount:   res.Amount,
		Odds:     res.Odds,
		Return:   res.Return,
		Profit:   res.Profit,
		Status:   res.Status,
		Legs:     legs,
		PlacedAt: placedAt,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prevState, prevBets := l.state, l.bets
	if bet.Status != settle.StatusPending {
		now := time.Now()
		bet.SettledAt = &now
		bet.ProfitApplied = true
		l.state.CurrentBankroll += bet.Profit
	}
	l.bets = append(l.bets, bet)

	if err := l.persist(storage.CollectionBets, storage.CollectionBankroll); err != nil {
		l.state, l.bets = prevState, prevBets
		return nil, err
	}
	return &bet, nil
}

// UpdateBetLegs replaces a bet's legs and recomputes its settlement.
// Profit folds into the bankroll exactly once per settlement: if this bet
// already contributed, that contribution is reversed first, then the new
// profit (if the bet is still decided) is applied. Reversing and
// reapplying an unchanged settlement leaves the bankroll exactly where it
// was.
func (l *Ledger) UpdateBetLegs(betID string, legs []settle.Leg) (*Bet, error) {
	if len(legs) == 0 {
		return nil, fmt.Errorf("bet needs at least one leg")
	}
	for _, leg := range legs {
		if leg.Amount <= 0 {
			return nil, fmt.Errorf("%w: leg amount", ErrInvalidAmount)
		}
		if leg.Odds <= 0 {
			return nil, fmt.Errorf("invalid odds: must be greater than 0")
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resettleLocked(betID, legs)
}

// resettleLocked swaps in new legs and recomputes the settlement. The
// caller must hold l.mu.
func (l *Ledger) resettleLocked(betID string, legs []settle.Leg) (*Bet, error) {
	idx := -1
	for i := range l.bets {
		if l.bets[i].ID == betID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: bet %s", ErrNotFound, betID)
	}

	prevState := l.state
	old := l.bets[idx]

	updated := old
	if updated.ProfitApplied {
		l.state.CurrentBankroll -= updated.Profit
		updated.ProfitApplied = false
		updated.SettledAt = nil
	}

	res := settle.Settle(legs)
	updated.Legs = legs
	updated.Amount = res.Amount
	updated.Odds = res.Odds
	updated.Return = res.Return
	updated.Profit = res.Profit
	updated.Status = res.Status

	if updated.Status != settle.StatusPending {
		now := time.Now()
		updated.SettledAt = &now
		updated.ProfitApplied = true
		l.state.CurrentBankroll += updated.Profit
	}
	l.bets[idx] = updated

	if err := l.persist(storage.CollectionBets, storage.CollectionBankroll); err != nil {
		l.bets[idx] = old
		l.state = prevState
		return nil, err
	}
	return &updated, nil
}

// SetLegStatus settles one leg of a bet and recomputes the whole bet.
// Lookup, leg mutation and re-settlement happen in one critical section,
// so concurrent callers settling different legs never clobber each other
// with a stale copy of the legs.
func (l *Ledger) SetLegStatus(betID string, legIndex int, status settle.Status) (*Bet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var legs []settle.Leg
	for i := range l.bets {
		if l.bets[i].ID == betID {
			legs = append([]settle.Leg(nil), l.bets[i].Legs...)
			break
		}
	}
	if legs == nil {
		return nil, fmt.Errorf("%w: bet %s", ErrNotFound, betID)
	}
	if legIndex < 0 || legIndex >= len(legs) {
		return nil, fmt.Errorf("%w: leg %d", ErrNotFound, legIndex)
	}
	legs[legIndex].Status = status
	return l.resettleLocked(betID, legs)
}

// DeleteBet removes a bet. If its profit was already folded into the
// bankroll the contribution is reversed, exactly once.
func (l *Ledger) DeleteBet(betID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.bets {
		if l.bets[i].ID == betID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: bet %s", ErrNotFound, betID)
	}

	prevState, prevBets := l.state, l.bets
	removed := l.bets[idx]

	bets := make([]Bet, 0, len(l.bets)-1)
	bets = append(bets, l.bets[:idx]...)
	bets = append(bets, l.bets[idx+1:]...)
	l.bets = bets
	if removed.ProfitApplied {
		l.state.CurrentBankroll -= removed.Profit
	}

	if err := l.persist(storage.CollectionBets, storage.CollectionBankroll); err != nil {
		l.state, l.bets = prevState, prevBets
		return err
	}
	return nil
}

// Bets returns the bet log ordered by placement time.
func (l *Ledger) Bets() []Bet {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Bet, len(l.bets))
	copy(out, l.bets)
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlacedAt.Before(out[j].PlacedAt)
	})
	return out
}

// Bet returns one bet by ID.
func (l *Ledger) Bet(betID string) (*Bet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.bets {
		if l.bets[i].ID == betID {
			bet := l.bets[i]
			return &bet, nil
		}
	}
	return nil, fmt.Errorf("%w: bet %s", ErrNotFound, betID)
}
