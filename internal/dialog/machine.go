package dialog

import (
	"errors"
	"fmt"
	"time"

	"caja/internal/core"
	"caja/internal/session"
)

// ErrFlowInProgress is returned by Start when the user already has an active
// draft. The caller should guide the user to finish or cancel it; the
// existing draft is left untouched.
var ErrFlowInProgress = errors.New("a flow is already in progress")

// Affirmative and negative confirmation answers. Anything else re-prompts.
var (
	yesWords = map[string]struct{}{"sí": {}, "si": {}, "s": {}, "yes": {}, "y": {}}
	noWords  = map[string]struct{}{"no": {}, "n": {}}
)

// TurnKind classifies the machine's reaction to one inbound event.
type TurnKind int

const (
	// TurnPrompt asks for the next field.
	TurnPrompt TurnKind = iota
	// TurnInvalid rejects the input and repeats the same prompt.
	TurnInvalid
	// TurnConfirm shows the collected draft and asks for confirmation.
	TurnConfirm
	// TurnRecord delivers the confirmed record. The draft stays alive until
	// the caller reports successful persistence via Finish, so a failed
	// append can be retried without re-entering fields.
	TurnRecord
	// TurnCancelled means the draft was discarded.
	TurnCancelled
)

// Turn is the machine's response to one user message.
type Turn struct {
	Kind   TurnKind
	Prompt string
	Record *core.Record
	// Expired is set when an idle draft of this user timed out since the
	// last interaction; the caller should mention it once.
	Expired bool
}

// Draft is the mutable in-progress transaction for one user. It exists only
// in memory and is owned by the machine's session store.
type Draft struct {
	Flow       *Flow
	Step       int
	Values     map[string]Value
	Confirming bool
}

func (d *Draft) value(name string) Value { return d.Values[name] }

// Machine drives the record-sale and record-expense dialogues. Each user has
// at most one draft; turns for a single user are processed in arrival order
// by the transport, so drafts are never accessed concurrently.
type Machine struct {
	flows     map[core.Kind]*Flow
	sessions  *session.Store[*Draft]
	now       func() time.Time
	graceDays int
}

// Config for the machine.
type Config struct {
	Flows       map[core.Kind]*Flow
	MaxSessions int
	IdleTTL     time.Duration
	GraceDays   int
	Now         func() time.Time
}

func NewMachine(cfg Config) *Machine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	return &Machine{
		flows:     cfg.Flows,
		sessions:  session.NewStore[*Draft](cfg.MaxSessions, cfg.IdleTTL),
		now:       cfg.Now,
		graceDays: cfg.GraceDays,
	}
}

// Sessions exposes the draft store for periodic sweeping.
func (m *Machine) Sessions() *session.Store[*Draft] { return m.sessions }

// Active reports the kind of the user's draft, if any.
func (m *Machine) Active(userID string) (core.Kind, bool) {
	d, ok := m.sessions.Get(userID)
	if !ok {
		return "", false
	}
	return d.Flow.Kind, true
}

// TakeExpired reports (once) that the user's idle draft timed out.
func (m *Machine) TakeExpired(userID string) bool {
	return m.sessions.TakeExpired(userID)
}

// Start opens a new flow for the user. It fails with ErrFlowInProgress when
// a draft is already active.
func (m *Machine) Start(userID string, kind core.Kind) (Turn, error) {
	expired := m.sessions.TakeExpired(userID)
	if _, ok := m.sessions.Get(userID); ok {
		return Turn{}, ErrFlowInProgress
	}
	flow, ok := m.flows[kind]
	if !ok {
		return Turn{}, fmt.Errorf("unknown flow kind: %s", kind)
	}
	d := &Draft{Flow: flow, Values: make(map[string]Value)}
	m.sessions.Set(userID, d)
	return Turn{
		Kind:    TurnPrompt,
		Prompt:  flow.Title + "\n\n" + flow.Fields[0].Prompt,
		Expired: expired,
	}, nil
}

// Input feeds one user message to the active draft. The boolean is false
// when the user has no active draft.
func (m *Machine) Input(userID, text string) (Turn, bool) {
	d, ok := m.sessions.Get(userID)
	if !ok {
		return Turn{Expired: m.sessions.TakeExpired(userID)}, false
	}

	if d.Confirming {
		return m.confirm(userID, d, text), true
	}

	field := d.Flow.Fields[d.Step]
	var val Value
	if field.Optional && core.IsSkip(text) {
		val = Value{Text: field.SkipValue}
	} else {
		var err error
		val, err = field.Validate(text, Env{Now: m.now(), GraceDays: m.graceDays})
		if err != nil {
			// Invalid input never advances the step and never loses
			// previously collected fields.
			m.sessions.Set(userID, d)
			return Turn{Kind: TurnInvalid, Prompt: "❌ " + err.Error() + "\n\n" + field.Prompt}, true
		}
	}

	d.Values[field.Name] = val
	d.Step++
	if d.Step < len(d.Flow.Fields) {
		m.sessions.Set(userID, d)
		next := d.Flow.Fields[d.Step]
		return Turn{Kind: TurnPrompt, Prompt: "✅ " + fieldEcho(field, val) + "\n\n" + next.Prompt}, true
	}

	d.Confirming = true
	m.sessions.Set(userID, d)
	return Turn{Kind: TurnConfirm, Prompt: confirmMessage(d)}, true
}

func (m *Machine) confirm(userID string, d *Draft, text string) Turn {
	answer := normalizeAnswer(text)
	if _, yes := yesWords[answer]; yes {
		rec := buildRecord(d)
		// The draft stays in the store; Finish removes it after the append
		// succeeds so a persistence failure keeps the retry cheap.
		m.sessions.Set(userID, d)
		return Turn{Kind: TurnRecord, Record: &rec}
	}
	if _, no := noWords[answer]; no {
		m.sessions.Delete(userID)
		return Turn{Kind: TurnCancelled, Prompt: cancelMessage(d.Flow.Kind)}
	}
	m.sessions.Set(userID, d)
	return Turn{Kind: TurnConfirm, Prompt: "Responde Sí o No.\n\n" + confirmMessage(d)}
}

// Finish removes the user's draft after its record was durably appended.
func (m *Machine) Finish(userID string) {
	m.sessions.Delete(userID)
}

// Cancel discards the user's draft. It reports whether one existed.
func (m *Machine) Cancel(userID string) bool {
	_, ok := m.sessions.Get(userID)
	m.sessions.Delete(userID)
	return ok
}

// buildRecord assembles the immutable record from the validated values only;
// raw input never reaches the record.
func buildRecord(d *Draft) core.Record {
	rec := core.Record{
		Kind:          d.Flow.Kind,
		Date:          d.value(FieldDate).Date,
		Amount:        d.value(FieldAmount).Money,
		PaymentMethod: d.value(FieldPayment).Text,
		Notes:         d.value(FieldNotes).Text,
	}
	switch d.Flow.Kind {
	case core.KindSale:
		rec.InvoiceOrCategory = d.value(FieldInvoice).Text
		rec.Counterparty = d.value(FieldClient).Text
	case core.KindExpense:
		rec.InvoiceOrCategory = d.value(FieldCategory).Text
		rec.Counterparty = d.value(FieldSupplier).Text
	}
	return rec
}

func normalizeAnswer(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '.', '!':
			continue
		}
		out = append(out, toLowerRune(r))
	}
	return string(out)
}

func toLowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	if r == 'Í' {
		return 'í'
	}
	return r
}
