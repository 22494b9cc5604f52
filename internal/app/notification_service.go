// internal/app/notification_service.go
package app

import (
	"context"

	"suspended_business_scanner/internal/domain/notify"

	"github.com/sirupsen/logrus"
)

// Dispatcher fans a composed message out to recipients across channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipients []notify.Recipient, subject, body string) []notify.Outcome
}

// NotificationService implements Dispatcher. A nil transport disables that
// channel for the whole run: recipients who only have that contact field are
// recorded as skipped, never failed.
type NotificationService struct {
	email  notify.EmailTransport
	chat   notify.ChatTransport
	logger *logrus.Logger
}

func NewNotificationService(email notify.EmailTransport, chat notify.ChatTransport, logger *logrus.Logger) *NotificationService {
	return &NotificationService{email: email, chat: chat, logger: logger}
}

// Dispatch attempts exactly one send per (recipient, channel) pair. A failed
// send is recorded and the loop moves on; nothing here aborts delivery to
// the remaining recipients or channels, and nothing is retried.
func (s *NotificationService) Dispatch(ctx context.Context, recipients []notify.Recipient, subject, body string) []notify.Outcome {
	outcomes := make([]notify.Outcome, 0, len(recipients)*len(notify.Channels()))
	for _, r := range recipients {
		for _, ch := range notify.Channels() {
			outcome := s.attempt(ctx, r, ch, subject, body)
			switch outcome.Status {
			case notify.StatusDelivered:
				s.logger.Infof("Delivered %s notification to %s.", ch, r.Name)
			case notify.StatusFailed:
				s.logger.Errorf("Failed to deliver %s notification to %s: %s", ch, r.Name, outcome.Reason)
			case notify.StatusSkipped:
				s.logger.Debugf("Skipped %s notification for %s: %s", ch, r.Name, outcome.Reason)
			}
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes
}

func (s *NotificationService) attempt(ctx context.Context, r notify.Recipient, ch notify.Channel, subject, body string) notify.Outcome {
	outcome := notify.Outcome{Recipient: r.Name, Channel: ch}

	switch ch {
	case notify.ChannelEmail:
		if s.email == nil {
			outcome.Status = notify.StatusSkipped
			outcome.Reason = "email transport not configured"
			return outcome
		}
		if r.EmailAddress == "" {
			outcome.Status = notify.StatusSkipped
			outcome.Reason = "no email address on file"
			return outcome
		}
		if err := s.email.SendEmail(ctx, r.EmailAddress, subject, body); err != nil {
			outcome.Status = notify.StatusFailed
			outcome.Reason = err.Error()
			return outcome
		}
	case notify.ChannelWhatsApp:
		if s.chat == nil {
			outcome.Status = notify.StatusSkipped
			outcome.Reason = "whatsapp transport not configured"
			return outcome
		}
		if r.WhatsAppNumber == "" {
			outcome.Status = notify.StatusSkipped
			outcome.Reason = "no whatsapp number on file"
			return outcome
		}
		if err := s.chat.SendChat(ctx, r.WhatsAppNumber, body); err != nil {
			outcome.Status = notify.StatusFailed
			outcome.Reason = err.Error()
			return outcome
		}
	default:
		outcome.Status = notify.StatusSkipped
		outcome.Reason = "unknown channel"
		return outcome
	}

	outcome.Status = notify.StatusDelivered
	outcome.Reason = "accepted by transport"
	return outcome
}
