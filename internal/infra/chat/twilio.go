package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsAppPrefix = "whatsapp:"

// TwilioTransport implements notify.ChatTransport via the Twilio messaging
// API, using WhatsApp-prefixed addresses.
type TwilioTransport struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioTransport(accountSID, authToken, from string) *TwilioTransport {
	return &TwilioTransport{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: whatsAppAddress(from),
	}
}

// SendChat sends one message to an E.164 number. The Twilio SDK carries no
// context on message creation, so ctx is only honored up front.
func (t *TwilioTransport) SendChat(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(whatsAppAddress(to))
	params.SetBody(body)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}
	return nil
}

func whatsAppAddress(number string) string {
	if strings.HasPrefix(number, whatsAppPrefix) {
		return number
	}
	return whatsAppPrefix + number
}
