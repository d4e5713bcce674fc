// Package bot turns inbound chat messages into replies. It owns the command
// surface, the access gate, and the commit path from a confirmed draft to the
// ledger.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"caja/internal/auth"
	"caja/internal/core"
	"caja/internal/dialog"
	"caja/internal/ledger"
	"caja/internal/log"
	"caja/internal/report"
)

type Engine struct {
	gate    *auth.Gate
	machine *dialog.Machine
	backend ledger.Backend
	logger  *log.Logger
	now     func() time.Time
}

// Config wires the engine's collaborators.
type Config struct {
	Gate    *auth.Gate
	Machine *dialog.Machine
	Backend ledger.Backend
	Logger  *log.Logger
	// Now returns the current time in the business timezone.
	Now func() time.Time
}

func NewEngine(cfg Config) *Engine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentBot)
	}
	return &Engine{
		gate:    cfg.Gate,
		machine: cfg.Machine,
		backend: cfg.Backend,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}
}

// Handle processes one user message and returns the replies to send back, in
// order. Unauthorized users get exactly one rejection and nothing else.
func (e *Engine) Handle(ctx context.Context, userID int64, text string) []string {
	if !e.gate.IsAuthorized(userID) {
		e.logger.WarnContext(ctx, "Rejected unauthorized user", log.FieldUserID, userID)
		return []string{msgUnauthorized}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	key := strconv.FormatInt(userID, 10)
	if strings.HasPrefix(text, "/") {
		return e.command(ctx, key, userID, text)
	}

	turn, ok := e.machine.Input(key, text)
	if !ok {
		var replies []string
		if turn.Expired {
			replies = append(replies, msgDraftExpired)
		}
		return append(replies, msgNoActiveFlow)
	}
	return e.turnReplies(ctx, key, userID, turn)
}

func (e *Engine) command(ctx context.Context, key string, userID int64, text string) []string {
	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	// Group chats address commands as /venta@BotName.
	if at := strings.IndexByte(cmd, '@'); at > 0 {
		cmd = cmd[:at]
	}

	switch cmd {
	case "/start", "/ayuda", "/help":
		return []string{msgHelp}

	case "/venta":
		return e.start(ctx, key, userID, core.KindSale)

	case "/gasto":
		return e.start(ctx, key, userID, core.KindExpense)

	case "/cancelar":
		if e.machine.Cancel(key) {
			return []string{msgCancelled}
		}
		return []string{msgNothingToCancel}

	case "/estado":
		// Current-month summary; an in-progress draft is mentioned first.
		var replies []string
		if kind, ok := e.machine.Active(key); ok {
			replies = append(replies, fmt.Sprintf(msgActiveFlow, flowName(kind)))
		}
		return append(replies, e.reportReplies(ctx, userID, "mes")...)

	case "/reporte":
		if len(fields) < 2 {
			return []string{msgReportUsage}
		}
		return e.reportReplies(ctx, userID, strings.ToLower(fields[1]))

	default:
		e.logger.InfoContext(ctx, "Unknown command", log.FieldUserID, userID, "command", cmd)
		return []string{msgUnknownCommand}
	}
}

func (e *Engine) start(ctx context.Context, key string, userID int64, kind core.Kind) []string {
	turn, err := e.machine.Start(key, kind)
	if errors.Is(err, dialog.ErrFlowInProgress) {
		return []string{msgFlowInProgress}
	}
	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to start flow",
			log.FieldUserID, userID, log.FieldFlow, string(kind), log.FieldError, err)
		return []string{msgInternalError}
	}

	e.logger.InfoContext(ctx, "Flow started", log.FieldUserID, userID, log.FieldFlow, string(kind))

	var replies []string
	if turn.Expired {
		replies = append(replies, msgDraftExpired)
	}
	return append(replies, turn.Prompt)
}

func (e *Engine) turnReplies(ctx context.Context, key string, userID int64, turn dialog.Turn) []string {
	switch turn.Kind {
	case dialog.TurnRecord:
		return []string{e.commit(ctx, key, userID, *turn.Record)}
	default:
		return []string{turn.Prompt}
	}
}

// commit appends the confirmed record. On failure the draft stays alive so
// answering Sí again retries the append.
func (e *Engine) commit(ctx context.Context, key string, userID int64, rec core.Record) string {
	ref, err := e.backend.Append(ctx, rec)
	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to persist record",
			log.FieldUserID, userID,
			log.FieldKind, string(rec.Kind),
			log.FieldAmountCents, rec.Amount.Cents,
			log.FieldError, err)
		return msgSaveFailed
	}
	e.machine.Finish(key)

	e.logger.InfoContext(ctx, "Record committed",
		log.FieldUserID, userID,
		log.FieldKind, string(rec.Kind),
		log.FieldAmountCents, rec.Amount.Cents,
		log.FieldRecordDate, rec.Date.Format(),
		log.FieldPaymentMethod, rec.PaymentMethod,
		log.FieldLedgerRef, ref)

	return successMessage(rec)
}

func (e *Engine) reportReplies(ctx context.Context, userID int64, period string) []string {
	w, ok := report.PeriodWindow(period, e.now())
	if !ok {
		return []string{msgReportUsage}
	}

	records, err := e.backend.ListRecords(ctx, w)
	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to read ledger for report",
			log.FieldUserID, userID, log.FieldPeriod, period, log.FieldError, err)
		return []string{msgReportFailed}
	}

	summary := report.Summarize(records, w)
	e.logger.InfoContext(ctx, "Report generated",
		log.FieldUserID, userID,
		log.FieldPeriod, period,
		"sales_count", summary.SalesCount,
		"expense_count", summary.ExpenseCount)

	return []string{renderSummary(summary)}
}
