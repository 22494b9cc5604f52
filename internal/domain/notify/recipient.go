package notify

import "context"

// Recipient is one entry from the externally edited Config_Recipients table.
// Either contact field may be empty; a recipient with neither is invalid.
type Recipient struct {
	Name           string
	EmailAddress   string
	WhatsAppNumber string // E.164
}

// HasContact reports whether at least one contact field is populated.
func (r Recipient) HasContact() bool {
	return r.EmailAddress != "" || r.WhatsAppNumber != ""
}

// Source yields the current recipient list. It is re-read on every run; the
// table is edited externally and the scanner never caches or writes it.
type Source interface {
	LoadRecipients(ctx context.Context) ([]Recipient, error)
}

// FilterValid drops rows missing a name or missing both contact fields,
// preserving source order. Contact format is not validated here; a malformed
// address surfaces later as a per-recipient transport failure.
func FilterValid(rows []Recipient) []Recipient {
	valid := make([]Recipient, 0, len(rows))
	for _, r := range rows {
		if r.Name == "" || !r.HasContact() {
			continue
		}
		valid = append(valid, r)
	}
	return valid
}
