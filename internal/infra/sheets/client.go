package sheets

import (
	"context"
	"encoding/json"
	"fmt"

	"suspended_business_scanner/internal/infra/config"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// CredentialsJSON assembles a Google service account credentials document
// from the individual .env fields.
func CredentialsJSON(sa config.ServiceAccount) ([]byte, error) {
	if err := sa.Validate(); err != nil {
		return nil, err
	}
	doc := map[string]string{
		"type":                        sa.Type,
		"project_id":                  sa.ProjectID,
		"private_key_id":              sa.PrivateKeyID,
		"private_key":                 sa.PrivateKey,
		"client_email":                sa.ClientEmail,
		"client_id":                   sa.ClientID,
		"auth_uri":                    sa.AuthURI,
		"token_uri":                   sa.TokenURI,
		"auth_provider_x509_cert_url": sa.AuthProviderX509CertURL,
		"client_x509_cert_url":        sa.ClientX509CertURL,
		"universe_domain":             sa.UniverseDomain,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal service account credentials: %w", err)
	}
	return raw, nil
}

// NewService creates an authorized Sheets API client from the configured
// service account.
func NewService(ctx context.Context, sa config.ServiceAccount) (*sheets.Service, error) {
	creds, err := CredentialsJSON(sa)
	if err != nil {
		return nil, err
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return svc, nil
}
