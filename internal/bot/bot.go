package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bankrollbot/internal/ledger"
	"bankrollbot/internal/logger"
	"bankrollbot/internal/projection"
	"bankrollbot/internal/service"
	"bankrollbot/internal/settle"

	"gopkg.in/telebot.v3"
)

// formatMoney formats an amount in bankroll units
func formatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// Bot is the Telegram front end. Only the configured owner may use it.
type Bot struct {
	tb      *telebot.Bot
	ledger  *ledger.Ledger
	alerts  *service.AlertService
	ownerID int64
}

// New creates the bot and registers all command handlers.
func New(token string, ownerID int64, l *ledger.Ledger, alerts *service.AlertService) (*Bot, error) {
	tb, err := telebot.NewBot(telebot.Settings{
		Token: token,
		Poller: &telebot.LongPoller{
			Timeout: 10,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{tb: tb, ledger: l, alerts: alerts, ownerID: ownerID}
	b.registerHandlers()
	return b, nil
}

// Start begins long polling. Blocks until Stop is called.
func (b *Bot) Start() {
	b.tb.Start()
}

// Stop shuts down long polling.
func (b *Bot) Stop() {
	b.tb.Stop()
}

// Notify sends a message to the owner chat. Implements service.Notifier.
func (b *Bot) Notify(text string) error {
	_, err := b.tb.Send(&telebot.User{ID: b.ownerID}, text, telebot.ModeMarkdown)
	return err
}

// ownerOnly wraps a handler so that anyone but the owner gets turned away.
func (b *Bot) ownerOnly(handler func(c telebot.Context) error) func(c telebot.Context) error {
	return func(c telebot.Context) error {
		if c.Sender().ID != b.ownerID {
			logger.Debug("access_denied", fmt.Sprintf("telegram_id=%d username=%s", c.Sender().ID, c.Sender().Username))
			return c.Send("This is a private bankroll tracker.")
		}
		return handler(c)
	}
}

func (b *Bot) registerHandlers() {
	b.tb.Handle("/start", b.ownerOnly(func(c telebot.Context) error {
		logger.Debug("command_start", fmt.Sprintf("username=%s", c.Sender().Username))
		msg := fmt.Sprintf("Welcome back! 🏦\n\nCurrent bankroll: *%s*\n\nUse /help to see what I can do.",
			formatMoney(b.ledger.CurrentBankroll()))
		return c.Send(msg, telebot.ModeMarkdown)
	}))

	b.tb.Handle("/help", b.ownerOnly(func(c telebot.Context) error {
		logger.Debug("command_help", "")
		helpText := "📚 *Available Commands*\n\n" +
			"/balance - Current bankroll\n" +
			"/deposit <amount> [title] - Record a deposit\n" +
			"/withdraw <amount> [title] - Record a withdrawal\n" +
			"/history - Recent deposits and withdrawals\n" +
			"/bet <stake> <odds> [title] - Log a pending single bet\n" +
			"/settle <bet_id> <won|lost|void> - Settle a single bet\n" +
			"/bets - Recent bets\n" +
			"/progress - Monthly goal standing\n" +
			"/projection [months] - Project the bankroll forward\n" +
			"/alerts - Loss and gain stops crossed today"
		return c.Send(helpText, telebot.ModeMarkdown)
	}))

	b.tb.Handle("/balance", b.ownerOnly(func(c telebot.Context) error {
		logger.Debug("command_balance", "")
		state := b.ledger.State()
		msg := fmt.Sprintf("💰 *Bankroll*\n\nCurrent: %s\nInitial: %s",
			formatMoney(state.CurrentBankroll), formatMoney(state.InitialBankroll))
		return c.Send(msg, telebot.ModeMarkdown)
	}))

	b.tb.Handle("/deposit", b.ownerOnly(func(c telebot.Context) error {
		return b.recordCommand(c, ledger.TypeDeposit)
	}))

	b.tb.Handle("/withdraw", b.ownerOnly(func(c telebot.Context) error {
		return b.recordCommand(c, ledger.TypeWithdrawal)
	}))

	b.tb.Handle("/history", b.ownerOnly(func(c telebot.Context) error {
		logger.Debug("command_history", "")
		txs := b.ledger.Transactions()
		if len(txs) == 0 {
			return c.Send("No deposits or withdrawals yet.")
		}

		// Newest last, capped at the ten most recent
		if len(txs) > 10 {
			txs = txs[len(txs)-10:]
		}
		var sb strings.Builder
		sb.WriteString("📒 *Recent transactions*\n\n")
		for _, tx := range txs {
			sign := "+"
			if tx.Type == ledger.TypeWithdrawal {
				sign = "-"
			}
			sb.WriteString(fmt.Sprintf("%s  %s%s  %s  → %s\n",
				formatTime(tx.At), sign, formatMoney(tx.Amount), tx.Title, formatMoney(tx.BalanceAfter)))
		}
		return c.Send(sb.String(), telebot.ModeMarkdown)
	}))

	b.tb.Handle("/bet", b.ownerOnly(func(c telebot.Context) error {
		args := c.Args()
		if len(args) < 2 {
			return c.Send("Usage: /bet <stake> <odds> [title]")
		}
		stake, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return c.Send("Invalid stake. Usage: /bet <stake> <odds> [title]")
		}
		odds, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return c.Send("Invalid odds. Usage: /bet <stake> <odds> [title]")
		}
		title := strings.Join(args[2:], " ")

		bet, err := b.ledger.AddBet(title, []settle.Leg{{Amount: stake, Odds: odds, Status: settle.StatusPending}}, time.Now())
		if err != nil {
			logger.Error("bet_failed", err)
			return c.Send(fmt.Sprintf("Could not log the bet: %v", err))
		}
		logger.Debug("command_bet", fmt.Sprintf("id=%s stake=%.2f odds=%.2f", bet.ID, stake, odds))
		return c.Send(fmt.Sprintf("🎯 Bet logged.\n\nID: `%s`\nStake: %s at %.2f\nPotential return: %s",
			bet.ID, formatMoney(bet.Amount), bet.Odds, formatMoney(bet.Amount*bet.Odds)), telebot.ModeMarkdown)
	}))

	b.tb.Handle("/settle", b.ownerOnly(func(c telebot.Context) error {
		args := c.Args()
		if len(args) != 2 {
			return c.Send("Usage: /settle <bet_id> <won|lost|void>")
		}
		var status settle.Status
		switch strings.ToLower(args[1]) {
		case "won":
			status = settle.StatusWon
		case "lost":
			status = settle.StatusLost
		case "void":
			status = settle.StatusVoid
		default:
			return c.Send("Usage: /settle <bet_id> <won|lost|void>")
		}

		bet, err := b.ledger.SetLegStatus(args[0], 0, status)
		if err != nil {
			logger.Error("settle_failed", err)
			return c.Send(fmt.Sprintf("Could not settle the bet: %v", err))
		}
		logger.Debug("command_settle", fmt.Sprintf("id=%s status=%s profit=%.2f", bet.ID, bet.Status, bet.Profit))

		msg := fmt.Sprintf("Bet settled as *%s*.\nProfit: %s\nBankroll: %s",
			bet.Status, formatMoney(bet.Profit), formatMoney(b.ledger.CurrentBankroll()))
		return c.Send(msg, telebot.ModeMarkdown)
	}))

	b.tb.Handle("/bets", b.ownerOnly(func(c telebot.Context) error {
		logger.Debug("command_bets", "")
		bets := b.ledger.Bets()
		if len(bets) == 0 {
			return c.Send("No bets logged yet.")
		}

		if len(bets) > 10 {
			bets = bets[len(bets)-10:]
		}
		var sb strings.Builder
		sb.WriteString("🎲 *Recent bets*\n\n")
		for _, bet := range bets {
			icon := "⏳"
			switch bet.Status {
			case settle.StatusWon:
				icon = "✅"
			case settle.StatusLost:
				icon = "❌"
			case settle.StatusVoid:
				icon = "↩️"
			}
			title := bet.Title
			if title == "" {
				title = "(untitled)"
			}
			sb.WriteString(fmt.Sprintf("%s %s  %s at %.2f  %s\n`%s`\n",
				icon, title, formatMoney(bet.Amount), bet.Odds, bet.Status, bet.ID))
		}
		return c.Send(sb.String(), telebot.ModeMarkdown)
	}))

	b.tb.Handle("/progress", b.ownerOnly(func(c telebot.Context) error {
		logger.Debug("command_progress", "")
		now := time.Now()
		state := b.ledger.State()
		goalPct := b.ledger.MonthlyGoalPct()
		monthStart := projection.BankrollAtMonthStart(state.CurrentBankroll, b.ledger.Bets(), b.ledger.Transactions(), now)
		progress := projection.MonthlyProgress(state.CurrentBankroll, monthStart, goalPct, now)

		status := "behind pace"
		if progress.IsOnTrack {
			status = "on track"
		}
		msg := fmt.Sprintf("📈 *Monthly progress*\n\nGoal: %.2f%%\nSo far: %.2f%% (%s)\nDay %d of %d\nBankroll: %s (month started at %s)",
			goalPct, progress.CurrentProgressPercentage, status,
			progress.DaysElapsed, progress.DaysInMonth,
			formatMoney(state.CurrentBankroll), formatMoney(monthStart))
		return c.Send(msg, telebot.ModeMarkdown)
	}))

	b.tb.Handle("/projection", b.ownerOnly(func(c telebot.Context) error {
		months := 12
		if args := c.Args(); len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return c.Send("Usage: /projection [months]")
			}
			months = n
		}
		logger.Debug("command_projection", fmt.Sprintf("months=%d", months))

		state := b.ledger.State()
		goalPct := b.ledger.MonthlyGoalPct()
		var proj projection.Projection
		if state.ProjectionMode == ledger.ProjectionCompound {
			proj = projection.Compound(goalPct, months, state.CurrentBankroll)
		} else {
			proj = projection.Linear(goalPct, months, state.CurrentBankroll)
		}

		msg := fmt.Sprintf("🔮 *Projection* (%s, %d months)\n\nProjected bankroll: %s\nProfit: %s\nGrowth: %.2f%%",
			strings.ToLower(string(state.ProjectionMode)), months,
			formatMoney(proj.Bankroll), formatMoney(proj.Profit), proj.Percentage)
		return c.Send(msg, telebot.ModeMarkdown)
	}))

	b.tb.Handle("/alerts", b.ownerOnly(func(c telebot.Context) error {
		logger.Debug("command_alerts", "")
		alerts := b.alerts.Evaluate(time.Now())
		if len(alerts) == 0 {
			return c.Send("No stops crossed. 👍")
		}
		var sb strings.Builder
		sb.WriteString("🚨 *Stops crossed*\n\n")
		for _, a := range alerts {
			sb.WriteString(a.String() + "\n")
		}
		return c.Send(sb.String(), telebot.ModeMarkdown)
	}))
}

// recordCommand handles /deposit and /withdraw, which share a shape.
func (b *Bot) recordCommand(c telebot.Context, txType ledger.TransactionType) error {
	args := c.Args()
	if len(args) < 1 {
		return c.Send(fmt.Sprintf("Usage: /%s <amount> [title]", strings.ToLower(string(txType))))
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return c.Send("Invalid amount.")
	}
	title := strings.Join(args[1:], " ")
	if title == "" {
		if txType == ledger.TypeDeposit {
			title = "Deposit"
		} else {
			title = "Withdrawal"
		}
	}

	tx, err := b.ledger.Record(txType, amount, time.Now(), title, "")
	if err != nil {
		logger.Error("transaction_failed", err)
		return c.Send(fmt.Sprintf("Could not record the transaction: %v", err))
	}
	logger.Debug("command_transaction", fmt.Sprintf("id=%s type=%s amount=%.2f", tx.ID, tx.Type, tx.Amount))
	return c.Send(fmt.Sprintf("Recorded %s of %s.\nBankroll: %s",
		strings.ToLower(string(tx.Type)), formatMoney(tx.Amount), formatMoney(tx.BalanceAfter)), telebot.ModeMarkdown)
}
