package notify

import "context"

// EmailTransport sends one plain-text email. Implementations wrap a concrete
// provider so the dispatcher stays decoupled from any particular API.
type EmailTransport interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// ChatTransport sends one plain-text chat message to an E.164 number.
type ChatTransport interface {
	SendChat(ctx context.Context, to, body string) error
}
