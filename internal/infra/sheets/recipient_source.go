package sheets

import (
	"context"
	"fmt"
	"strings"

	"suspended_business_scanner/internal/domain/notify"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/sheets/v4"
)

// RecipientTab is the shared, externally edited recipient list.
// Header row: name, email_address, whatsapp_number.
const RecipientTab = "Config_Recipients"

// RecipientSource implements notify.Source on the Config_Recipients tab.
type RecipientSource struct {
	svc           *sheets.Service
	spreadsheetID string
	log           *logrus.Logger
}

func NewRecipientSource(svc *sheets.Service, spreadsheetID string, log *logrus.Logger) *RecipientSource {
	return &RecipientSource{svc: svc, spreadsheetID: spreadsheetID, log: log}
}

// LoadRecipients reads the recipient tab top to bottom, dropping the header
// row and any row without a name or without at least one contact field.
func (s *RecipientSource) LoadRecipients(ctx context.Context) ([]notify.Recipient, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, RecipientTab+"!A:C").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", RecipientTab, err)
	}

	rows := make([]notify.Recipient, 0, len(resp.Values))
	for i, row := range resp.Values {
		name := cellString(row, 0)
		if i == 0 && strings.EqualFold(name, "name") {
			continue
		}
		rows = append(rows, notify.Recipient{
			Name:           name,
			EmailAddress:   cellString(row, 1),
			WhatsAppNumber: cellString(row, 2),
		})
	}

	valid := notify.FilterValid(rows)
	if dropped := len(rows) - len(valid); dropped > 0 {
		s.log.Warnf("Dropped %d invalid recipient row(s) from %s.", dropped, RecipientTab)
	}
	return valid, nil
}
