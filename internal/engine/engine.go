package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MichaelAmon/was-project/internal/geofence"
	"github.com/MichaelAmon/was-project/internal/ledger"
	"github.com/MichaelAmon/was-project/internal/pending"
	"github.com/MichaelAmon/was-project/internal/roster"
)

// EventKind discriminates inbound webhook messages.
type EventKind string

const (
	KindText     EventKind = "text"
	KindLocation EventKind = "location"
	KindOther    EventKind = "other"
)

// InboundEvent is one WhatsApp message, already unwrapped from the webhook
// envelope. From is the canonical +-prefixed phone number.
type InboundEvent struct {
	From      string
	Kind      EventKind
	Text      string
	Latitude  float64
	Longitude float64
}

// User-visible replies. Wording is part of the bot's contract with its
// users; keep stable.
const (
	replyUnauthorized      = "Unauthorized user."
	replyNoPending         = `Please send "clock in" or "clock out" first.`
	replyTimedOut          = "Your request timed out. Please send the command again."
	replyNoOffice          = "Location not at any office. Try again."
	replyOfficeNotAllowed  = "You are not authorized to clock in or out at this location."
	replyAlreadyClockedIn  = "You already clocked in today."
	replyAlreadyClockedOut = "You already clocked out today."
	replyNoClockInRecord   = "No clock-in record found for today."
	replySystemError       = "Something went wrong on our side. Please try again later."
	promptShareLocationFmt = "Please share your location to confirm %s."
	replyClockedInFmt      = "Clocked in successfully at %s at %s."
	replyClockedOutFmt     = "Clocked out successfully at %s at %s."
)

type Roster interface {
	FindByPhone(ctx context.Context, phone string) (*roster.StaffMember, error)
}

type Ledger interface {
	FindOpenRecord(ctx context.Context, phone string, day time.Time) (*ledger.AttendanceRecord, error)
	Insert(ctx context.Context, rec *ledger.AttendanceRecord) error
	Update(ctx context.Context, rec *ledger.AttendanceRecord) error
}

type Notifier interface {
	SendText(ctx context.Context, to, body string) error
	SendLocationRequest(ctx context.Context, to, body string) error
}

// Engine drives the two-message clock-in/clock-out conversation. All state
// transitions for one phone number run under that phone's lock, so
// concurrent redeliveries cannot double-insert a day's row.
type Engine struct {
	roster   Roster
	ledger   Ledger
	notifier Notifier
	pending  *pending.Store
	matcher  *geofence.Matcher

	locks  *keyedMutex
	now    func() time.Time
	logger *zap.Logger
}

func New(
	rosterSvc Roster,
	ledgerSvc Ledger,
	notifier Notifier,
	pendingStore *pending.Store,
	matcher *geofence.Matcher,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		roster:   rosterSvc,
		ledger:   ledgerSvc,
		notifier: notifier,
		pending:  pendingStore,
		matcher:  matcher,
		locks:    newKeyedMutex(),
		now:      time.Now,
		logger:   logger.Named("engine"),
	}
}

// HandleInbound processes one message to completion. It never returns an
// error: every failure is logged and answered in-band, and the webhook
// delivery is acknowledged regardless.
func (e *Engine) HandleInbound(ctx context.Context, ev InboundEvent) {
	lock := e.locks.forKey(ev.From)
	lock.Lock()
	defer lock.Unlock()

	// Roster rechecked on every event, location shares included. Staff can
	// be removed between the command and the location.
	staff, err := e.roster.FindByPhone(ctx, ev.From)
	if err != nil {
		e.logger.Error("roster lookup failed", zap.String("phone", ev.From), zap.Error(err))
		e.reply(ctx, ev.From, replySystemError)
		return
	}
	if staff == nil {
		e.reply(ctx, ev.From, replyUnauthorized)
		return
	}

	switch ev.Kind {
	case KindText:
		e.handleText(ctx, ev, staff)
	case KindLocation:
		e.handleLocation(ctx, ev)
	default:
		// Media, reactions, statuses: ignore.
	}
}

func (e *Engine) handleText(ctx context.Context, ev InboundEvent, staff *roster.StaffMember) {
	text := strings.ToLower(strings.TrimSpace(ev.Text))

	var action pending.Action
	switch text {
	case string(pending.ActionClockIn):
		action = pending.ActionClockIn
	case string(pending.ActionClockOut):
		action = pending.ActionClockOut
	default:
		// Unrecognized text is idle chatter, not an error. No reply.
		return
	}

	e.pending.Put(ev.From, action, pending.StaffSnapshot{
		Name:           staff.FullName,
		Department:     staff.Department,
		AllowedOffices: staff.AllowedOfficeIDs(),
	})
	e.replyLocationRequest(ctx, ev.From, fmt.Sprintf(promptShareLocationFmt, text))
}

func (e *Engine) handleLocation(ctx context.Context, ev InboundEvent) {
	req, ok := e.pending.Get(ev.From)
	if !ok {
		e.reply(ctx, ev.From, replyNoPending)
		return
	}

	if req.Expired(e.now()) {
		e.pending.Remove(ev.From)
		e.reply(ctx, ev.From, replyTimedOut)
		return
	}

	office, ok := e.matcher.Locate(ev.Latitude, ev.Longitude)
	if !ok {
		// Pending request survives so the user can re-share from the right
		// place. Intentional asymmetry with the allow-list rejection below.
		e.reply(ctx, ev.From, replyNoOffice)
		return
	}

	if !req.Staff.AllowsOffice(office) {
		e.pending.Remove(ev.From)
		e.reply(ctx, ev.From, replyOfficeNotAllowed)
		return
	}

	e.applyAttendanceAction(ctx, ev.From, req, office)
	e.pending.Remove(ev.From)
}

func (e *Engine) applyAttendanceAction(ctx context.Context, phone string, req pending.Request, office string) {
	now := e.now().UTC()
	day := now.Truncate(24 * time.Hour)
	timestamp := now.Format(time.RFC3339)

	rec, err := e.ledger.FindOpenRecord(ctx, phone, day)
	if err != nil {
		e.logger.Error("ledger lookup failed", zap.String("phone", phone), zap.Error(err))
		e.reply(ctx, phone, replySystemError)
		return
	}

	switch req.Action {
	case pending.ActionClockIn:
		if rec != nil && !rec.TimeIn.IsZero() {
			e.reply(ctx, phone, replyAlreadyClockedIn)
			return
		}

		err := e.ledger.Insert(ctx, &ledger.AttendanceRecord{
			Phone:          phone,
			FullName:       req.Staff.Name,
			Department:     req.Staff.Department,
			AttendanceDate: day,
			TimeIn:         now,
			Location:       office,
		})
		if err != nil {
			e.logger.Error("ledger insert failed", zap.String("phone", phone), zap.Error(err))
			e.reply(ctx, phone, replySystemError)
			return
		}
		e.reply(ctx, phone, fmt.Sprintf(replyClockedInFmt, timestamp, office))

	case pending.ActionClockOut:
		if rec == nil || rec.TimeIn.IsZero() {
			e.reply(ctx, phone, replyNoClockInRecord)
			return
		}
		if rec.TimeOut != nil {
			e.reply(ctx, phone, replyAlreadyClockedOut)
			return
		}

		rec.TimeOut = &now
		rec.Location = office
		if err := e.ledger.Update(ctx, rec); err != nil {
			e.logger.Error("ledger update failed", zap.String("phone", phone), zap.Error(err))
			e.reply(ctx, phone, replySystemError)
			return
		}
		e.reply(ctx, phone, fmt.Sprintf(replyClockedOutFmt, timestamp, office))
	}
}

// reply is fire-and-forget: delivery failures are logged and dropped.
func (e *Engine) reply(ctx context.Context, to, body string) {
	if err := e.notifier.SendText(ctx, to, body); err != nil {
		e.logger.Warn("send text failed", zap.String("to", to), zap.Error(err))
	}
}

func (e *Engine) replyLocationRequest(ctx context.Context, to, body string) {
	if err := e.notifier.SendLocationRequest(ctx, to, body); err != nil {
		e.logger.Warn("send location request failed", zap.String("to", to), zap.Error(err))
	}
}
