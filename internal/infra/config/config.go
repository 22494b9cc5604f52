package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends for raw tables and the recipient list.
const (
	StoreBackendSheets   = "sheets"
	StoreBackendPostgres = "postgres"
)

// Run modes.
const (
	RunModeOnce = "once"
	RunModeCron = "cron"
)

// ServiceAccount holds the Google service account fields assembled from the
// environment. The private key is stored with real newlines.
type ServiceAccount struct {
	Type                    string
	ProjectID               string
	PrivateKeyID            string
	PrivateKey              string
	ClientEmail             string
	ClientID                string
	AuthURI                 string
	TokenURI                string
	AuthProviderX509CertURL string
	ClientX509CertURL       string
	UniverseDomain          string
}

// AppConfig holds all configuration for the application.
type AppConfig struct {
	StoreBackend string
	DatabaseURL  string // postgres backend only

	SpreadsheetID  string
	SheetLink      string
	ServiceAccount ServiceAccount

	PlacesAPIKey string

	SendGridAPIKey string
	FromEmail      string
	FromName       string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string

	CitiesConfigPath string
	SnapshotDir      string // empty disables CSV snapshots

	WriteEnabled   bool
	SendEvenIfZero bool

	RunMode        string
	CronSpecWeekly string

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.StoreBackend = strings.ToLower(os.Getenv("STORE_BACKEND"))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = StoreBackendSheets
	}
	switch cfg.StoreBackend {
	case StoreBackendSheets, StoreBackendPostgres:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q (want %q or %q)", cfg.StoreBackend, StoreBackendSheets, StoreBackendPostgres)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.StoreBackend == StoreBackendPostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set (required for the postgres backend)")
	}

	cfg.SpreadsheetID = os.Getenv("SPREADSHEET_ID")
	if cfg.StoreBackend == StoreBackendSheets && cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID is not set")
	}
	cfg.SheetLink = os.Getenv("SHEET_LINK")

	cfg.PlacesAPIKey = os.Getenv("PLACES_API_KEY")
	if cfg.PlacesAPIKey == "" {
		return nil, fmt.Errorf("PLACES_API_KEY is not set")
	}

	cfg.ServiceAccount = loadServiceAccount()

	// Transport credentials are optional: a missing credential disables that
	// channel for the run rather than failing startup.
	cfg.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	cfg.FromEmail = os.Getenv("FROM_EMAIL")
	cfg.FromName = os.Getenv("FROM_NAME")
	if cfg.SendGridAPIKey != "" && cfg.FromEmail == "" {
		return nil, fmt.Errorf("FROM_EMAIL is not set (required when SENDGRID_API_KEY is set)")
	}

	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.TwilioWhatsAppFrom = os.Getenv("TWILIO_WHATSAPP_FROM")
	if cfg.TwilioAccountSID != "" && (cfg.TwilioAuthToken == "" || cfg.TwilioWhatsAppFrom == "") {
		return nil, fmt.Errorf("TWILIO_AUTH_TOKEN and TWILIO_WHATSAPP_FROM must be set when TWILIO_ACCOUNT_SID is set")
	}

	cfg.CitiesConfigPath = os.Getenv("CITIES_CONFIG")
	cfg.SnapshotDir = os.Getenv("SNAPSHOT_DIR")

	var err error
	cfg.WriteEnabled, err = boolEnv("WRITE_ENABLED", true)
	if err != nil {
		return nil, err
	}
	cfg.SendEvenIfZero, err = boolEnv("NOTIFY_SEND_EVEN_IF_ZERO", false)
	if err != nil {
		return nil, err
	}

	cfg.RunMode = strings.ToLower(os.Getenv("RUN_MODE"))
	if cfg.RunMode == "" {
		cfg.RunMode = RunModeOnce
	}
	switch cfg.RunMode {
	case RunModeOnce, RunModeCron:
	default:
		return nil, fmt.Errorf("invalid RUN_MODE %q (want %q or %q)", cfg.RunMode, RunModeOnce, RunModeCron)
	}

	cfg.CronSpecWeekly = os.Getenv("CRON_SPEC_WEEKLY")
	if cfg.CronSpecWeekly == "" {
		cfg.CronSpecWeekly = "0 9 * * 1" // Default: 09:00 every Monday
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// EmailConfigured reports whether the email channel has credentials.
func (c *AppConfig) EmailConfigured() bool {
	return c.SendGridAPIKey != "" && c.FromEmail != ""
}

// ChatConfigured reports whether the WhatsApp channel has credentials.
func (c *AppConfig) ChatConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppFrom != ""
}

func loadServiceAccount() ServiceAccount {
	sa := ServiceAccount{
		Type:                    os.Getenv("TYPE"),
		ProjectID:               os.Getenv("PROJECT_ID"),
		PrivateKeyID:            os.Getenv("PRIVATE_KEY_ID"),
		PrivateKey:              strings.ReplaceAll(os.Getenv("PRIVATE_KEY"), `\n`, "\n"),
		ClientEmail:             os.Getenv("CLIENT_EMAIL"),
		ClientID:                os.Getenv("CLIENT_ID"),
		AuthURI:                 os.Getenv("AUTH_URI"),
		TokenURI:                os.Getenv("TOKEN_URI"),
		AuthProviderX509CertURL: os.Getenv("AUTH_PROVIDER_X509_CERT_URL"),
		ClientX509CertURL:       os.Getenv("CLIENT_X509_CERT_URL"),
		UniverseDomain:          os.Getenv("UNIVERSE_DOMAIN"),
	}
	if sa.Type == "" {
		sa.Type = "service_account"
	}
	if sa.UniverseDomain == "" {
		sa.UniverseDomain = "googleapis.com"
	}
	return sa
}

// Validate checks the fields a Google credential cannot work without.
func (sa ServiceAccount) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"PROJECT_ID", sa.ProjectID},
		{"PRIVATE_KEY_ID", sa.PrivateKeyID},
		{"PRIVATE_KEY", sa.PrivateKey},
		{"CLIENT_EMAIL", sa.ClientEmail},
		{"CLIENT_ID", sa.ClientID},
		{"TOKEN_URI", sa.TokenURI},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required service account fields in env: %s", strings.Join(missing, ", "))
	}
	return nil
}

func boolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
