package database

import (
	"context"
	"database/sql"
	"fmt"

	"suspended_business_scanner/internal/domain/notify"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresRecipientSource implements notify.Source on a config_recipients
// table mirroring the shared sheet's header: name, email_address,
// whatsapp_number. The table is edited externally; the scanner only reads.
type PostgresRecipientSource struct {
	db *sql.DB
}

func NewPostgresRecipientSource(db *sql.DB) *PostgresRecipientSource {
	return &PostgresRecipientSource{db: db}
}

func (r *PostgresRecipientSource) LoadRecipients(ctx context.Context) ([]notify.Recipient, error) {
	query := `SELECT name, email_address, whatsapp_number
               FROM config_recipients ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing recipients: %w", err)
	}
	defer rows.Close()

	recipients := make([]notify.Recipient, 0)
	for rows.Next() {
		var name, email, whatsapp sql.NullString
		if err := rows.Scan(&name, &email, &whatsapp); err != nil {
			return nil, fmt.Errorf("error scanning recipient: %w", err)
		}
		recipients = append(recipients, notify.Recipient{
			Name:           name.String,
			EmailAddress:   email.String,
			WhatsAppNumber: whatsapp.String,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipients: %w", err)
	}
	return notify.FilterValid(recipients), nil
}
