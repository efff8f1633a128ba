// Package worker turns session.finalized events into per-player payment
// notices. Delivery is pluggable; the default sender only logs.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"courtbook/pkg/kafka"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"
	"courtbook/pkg/money"
)

type Sender interface {
	Send(ctx context.Context, notice model.PaymentNotice, body string) error
}

type Worker struct {
	sender Sender
	log    *logger.Logger
}

func New(sender Sender, log *logger.Logger) *Worker {
	if sender == nil {
		sender = NewLogSender(log)
	}
	return &Worker{sender: sender, log: log.Component("notification-worker")}
}

// Handle is a kafka.MessageHandler. Messages of other event types are
// skipped; a payload that cannot be decoded is a permanent failure.
func (w *Worker) Handle(ctx context.Context, msg kafka.Message) error {
	if eventType := msg.GetEventType(); eventType != model.EventSessionFinalized {
		w.log.Debug("Skipping unrelated event",
			"event_type", eventType,
			"event_id", msg.GetEventID(),
		)
		return nil
	}

	var event model.SessionFinalizedEvent
	if err := msg.DecodeValue(&event); err != nil {
		return err
	}
	if event.SessionID == "" {
		return kafka.NewPermanentError("session finalized event without session id", nil)
	}

	if len(event.Notices) == 0 {
		w.log.Info("Session finalized with no players to notify",
			"session_id", event.SessionID,
		)
		return nil
	}

	var errs []error
	for _, notice := range event.Notices {
		if err := w.sender.Send(ctx, notice, FormatNotice(event, notice)); err != nil {
			errs = append(errs, fmt.Errorf("notice for slot %d: %w", notice.SlotID, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return kafka.NewTransientError("failed to send payment notices", err)
	}

	w.log.Info("Payment notices sent",
		"session_id", event.SessionID,
		"correlation_id", msg.GetCorrelationID(),
		"count", len(event.Notices),
	)
	return nil
}

// FormatNotice renders the message a player receives.
func FormatNotice(event model.SessionFinalizedEvent, notice model.PaymentNotice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", notice.PlayerName)
	fmt.Fprintf(&b, "Badminton on %s, %s-%s at %s is now finalized.\n", event.Date, event.StartTime, event.EndTime, event.Location)
	fmt.Fprintf(&b, "Your share: $%.2f (total $%.2f, %s split).\n\n", money.Round2(notice.Amount), money.Round2(event.TotalAmount), event.SplitMode)
	b.WriteString("Payment Details:\n")
	fmt.Fprintf(&b, "Account Name: %s\n", event.AccountName)
	fmt.Fprintf(&b, "Account Number: %s\n", event.AccountNo)
	fmt.Fprintf(&b, "Bank: %s\n", event.BankName)
	return b.String()
}

// LogSender writes each notice to the log instead of delivering it.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, notice model.PaymentNotice, body string) error {
	s.log.Info("Payment notice",
		"slot_id", notice.SlotID,
		"player_name", notice.PlayerName,
		"email", notice.Email,
		"phone", notice.Phone,
		"amount", money.Round2(notice.Amount),
		"body", body,
	)
	return nil
}
