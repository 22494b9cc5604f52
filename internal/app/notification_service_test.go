package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"suspended_business_scanner/internal/domain/notify"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmail struct {
	sent   []string
	failOn map[string]error
}

func (f *fakeEmail) SendEmail(_ context.Context, to, _, _ string) error {
	if err := f.failOn[to]; err != nil {
		return err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeChat struct {
	sent   []string
	failOn map[string]error
}

func (f *fakeChat) SendChat(_ context.Context, to, _ string) error {
	if err := f.failOn[to]; err != nil {
		return err
	}
	f.sent = append(f.sent, to)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func findOutcome(t *testing.T, outcomes []notify.Outcome, recipient string, ch notify.Channel) notify.Outcome {
	t.Helper()
	for _, o := range outcomes {
		if o.Recipient == recipient && o.Channel == ch {
			return o
		}
	}
	t.Fatalf("no outcome for (%s, %s)", recipient, ch)
	return notify.Outcome{}
}

func TestDispatchIsolatesPerRecipientFailures(t *testing.T) {
	emailT := &fakeEmail{failOn: map[string]error{"two@example.com": errors.New("mailbox on fire")}}
	svc := NewNotificationService(emailT, nil, quietLogger())

	recipients := []notify.Recipient{
		{Name: "One", EmailAddress: "one@example.com"},
		{Name: "Two", EmailAddress: "two@example.com"},
		{Name: "Three", EmailAddress: "three@example.com"},
	}
	outcomes := svc.Dispatch(context.Background(), recipients, "subj", "body")

	assert.Equal(t, []string{"one@example.com", "three@example.com"}, emailT.sent,
		"recipients after the failure still get their attempts")

	assert.Equal(t, notify.StatusDelivered, findOutcome(t, outcomes, "One", notify.ChannelEmail).Status)
	failed := findOutcome(t, outcomes, "Two", notify.ChannelEmail)
	assert.Equal(t, notify.StatusFailed, failed.Status)
	assert.Contains(t, failed.Reason, "mailbox on fire")
	assert.Equal(t, notify.StatusDelivered, findOutcome(t, outcomes, "Three", notify.ChannelEmail).Status)
}

func TestDispatchSkipsUnconfiguredChannel(t *testing.T) {
	// No email transport configured. A recipient with only a WhatsApp number
	// must be skipped for email, never failed.
	chatT := &fakeChat{}
	svc := NewNotificationService(nil, chatT, quietLogger())

	recipients := []notify.Recipient{{Name: "WhatsAppOnly", WhatsAppNumber: "+15551230001"}}
	outcomes := svc.Dispatch(context.Background(), recipients, "subj", "body")

	emailOutcome := findOutcome(t, outcomes, "WhatsAppOnly", notify.ChannelEmail)
	assert.Equal(t, notify.StatusSkipped, emailOutcome.Status)
	assert.NotEqual(t, notify.StatusFailed, emailOutcome.Status)

	assert.Equal(t, notify.StatusDelivered, findOutcome(t, outcomes, "WhatsAppOnly", notify.ChannelWhatsApp).Status)
	assert.Equal(t, []string{"+15551230001"}, chatT.sent)
}

func TestDispatchSkipsMissingContactField(t *testing.T) {
	emailT := &fakeEmail{}
	chatT := &fakeChat{}
	svc := NewNotificationService(emailT, chatT, quietLogger())

	recipients := []notify.Recipient{{Name: "EmailOnly", EmailAddress: "e@example.com"}}
	outcomes := svc.Dispatch(context.Background(), recipients, "subj", "body")

	assert.Equal(t, notify.StatusDelivered, findOutcome(t, outcomes, "EmailOnly", notify.ChannelEmail).Status)
	chatOutcome := findOutcome(t, outcomes, "EmailOnly", notify.ChannelWhatsApp)
	assert.Equal(t, notify.StatusSkipped, chatOutcome.Status)
	assert.Empty(t, chatT.sent)
}

func TestDispatchRecordsEveryPair(t *testing.T) {
	svc := NewNotificationService(&fakeEmail{}, &fakeChat{}, quietLogger())
	recipients := []notify.Recipient{
		{Name: "A", EmailAddress: "a@example.com", WhatsAppNumber: "+1"},
		{Name: "B", EmailAddress: "b@example.com"},
	}
	outcomes := svc.Dispatch(context.Background(), recipients, "s", "b")
	require.Len(t, outcomes, 4)
	for _, o := range outcomes {
		assert.NotEmpty(t, o.Reason, "every attempt carries a diagnosable reason")
	}
}
