package config

import "github.com/kelseyhightower/envconfig"

// Config holds all runtime settings, filled from LICENSED_* environment
// variables.
type Config struct {
	ListenAddr    string `envconfig:"LISTEN_ADDR" default:":8080"`
	DatabasePath  string `envconfig:"DATABASE_PATH" default:"data/license.db"`
	AccountURL    string `envconfig:"ACCOUNT_URL" default:"https://example.com/my-account"`
	JWTSecret     string `envconfig:"JWT_SECRET" default:"change-me"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin"`
	SeedDemo      bool   `envconfig:"SEED_DEMO" default:"false"`

	// Google Sheets activation sync, disabled unless configured.
	SheetSyncEnabled bool   `envconfig:"SHEET_SYNC_ENABLED" default:"false"`
	SheetCredentials string `envconfig:"SHEET_CREDENTIALS"`
	SpreadsheetID    string `envconfig:"SPREADSHEET_ID"`
	SheetName        string `envconfig:"SHEET_NAME" default:"activations"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("LICENSED", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
