package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridTransport implements notify.EmailTransport via the SendGrid v3
// mail send API. One message per recipient; the dispatcher owns fan-out.
type SendGridTransport struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridTransport(apiKey, fromEmail, fromName string) *SendGridTransport {
	return &SendGridTransport{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendEmail sends one plain-text email and treats anything other than a 2xx
// acceptance as a failure.
func (t *SendGridTransport) SendEmail(ctx context.Context, to, subject, body string) error {
	from := mail.NewEmail(t.fromName, t.fromEmail)
	message := mail.NewSingleEmailPlainText(from, subject, mail.NewEmail("", to), body)

	resp, err := t.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
