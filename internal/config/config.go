package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/mamadbah2/bagstock/internal/domain/bags"
)

const (
	SalesSourceMongo  = "mongo"
	SalesSourceSheets = "sheets"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Sales     SalesConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	Stock     StockConfig
	AI        AIConfig
	MongoDB   MongoDBConfig
	LogLevel  string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// SalesConfig selects where sale lines are read from.
type SalesConfig struct {
	Source string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
// The integration is disabled when AccessToken is empty.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
	ManagerID     string
}

// Enabled reports whether WhatsApp credentials were supplied.
func (c WhatsAppConfig) Enabled() bool { return c.AccessToken != "" }

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether a spreadsheet was configured.
func (c SheetsConfig) Enabled() bool { return c.SpreadsheetID != "" }

// ReportingConfig holds scheduler and reporting window settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
	LookbackDays int
}

// Location resolves the configured timezone.
func (c ReportingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// StockConfig holds the bag counts on hand when tracking started.
type StockConfig struct {
	Initial bags.Counts
}

// AIConfig holds settings for LLM providers.
type AIConfig struct {
	AnthropicKey string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	lookback, err := getenvInt("REPORT_LOOKBACK_DAYS", 180)
	if err != nil {
		return nil, err
	}

	stock, err := loadInitialStock()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Sales: SalesConfig{
			Source: strings.ToLower(getenvWithDefault("SALES_SOURCE", SalesSourceMongo)),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:   os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ManagerID:     os.Getenv("WHATSAPP_MANAGER_ID"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * 5"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Santiago"),
			LookbackDays: lookback,
		},
		Stock: StockConfig{Initial: stock},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "bagstock"),
		},
		LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Sales.Source {
	case SalesSourceMongo:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	case SalesSourceSheets:
		if !c.Sheets.Enabled() {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided when SALES_SOURCE=sheets")
		}
	default:
		return fmt.Errorf("unsupported SALES_SOURCE %q", c.Sales.Source)
	}

	if c.Sheets.Enabled() && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.VerifyToken == "":
			return errors.New("META_VERIFY_TOKEN must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if _, err := c.Reporting.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}

	if c.Reporting.LookbackDays < 0 {
		return errors.New("REPORT_LOOKBACK_DAYS must not be negative")
	}

	return nil
}

var stockEnvKeys = map[bags.Unit]string{
	bags.SmallLavender: "STOCK_INICIAL_8_LAV",
	bags.LargeLavender: "STOCK_INICIAL_20_LAV",
	bags.SmallCarbon:   "STOCK_INICIAL_8_CARBON",
	bags.LargeCarbon:   "STOCK_INICIAL_20_CARBON",
	bags.LargeTalc:     "STOCK_INICIAL_20_TALCO",
}

func loadInitialStock() (bags.Counts, error) {
	stock := bags.DefaultInitialStock
	for _, u := range bags.Units {
		v, err := getenvInt(stockEnvKeys[u], stock[u])
		if err != nil {
			return bags.Counts{}, err
		}
		stock[u] = v
	}
	return stock, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
