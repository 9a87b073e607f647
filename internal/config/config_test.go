package config

import (
	"strings"
	"testing"

	"github.com/mamadbah2/bagstock/internal/domain/bags"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "SALES_SOURCE", "MONGODB_URI", "MONGODB_DB_NAME",
		"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID",
		"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "META_VERIFY_TOKEN",
		"WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_MANAGER_ID",
		"REPORT_CRON_SCHEDULE", "TIMEZONE", "REPORT_LOOKBACK_DAYS",
		"STOCK_INICIAL_8_LAV", "STOCK_INICIAL_20_LAV", "STOCK_INICIAL_8_CARBON",
		"STOCK_INICIAL_20_CARBON", "STOCK_INICIAL_20_TALCO",
		"ANTHROPIC_API_KEY", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("testdata/missing.env")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" || cfg.Sales.Source != SalesSourceMongo {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Reporting.Timezone != "America/Santiago" || cfg.Reporting.LookbackDays != 180 {
		t.Errorf("unexpected reporting defaults %+v", cfg.Reporting)
	}
	if cfg.Stock.Initial != bags.DefaultInitialStock {
		t.Errorf("initial stock = %v", cfg.Stock.Initial)
	}
	if cfg.WhatsApp.Enabled() || cfg.Sheets.Enabled() {
		t.Error("optional integrations should be disabled by default")
	}
}

func TestLoad_StockOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOCK_INICIAL_20_TALCO", "300")
	t.Setenv("STOCK_INICIAL_8_LAV", "-5")

	cfg, err := Load("testdata/missing.env")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Stock.Initial[bags.LargeTalc] != 300 || cfg.Stock.Initial[bags.SmallLavender] != -5 {
		t.Errorf("initial stock = %v", cfg.Stock.Initial)
	}
	if cfg.Stock.Initial[bags.SmallCarbon] != 999 {
		t.Errorf("unrelated stock changed: %v", cfg.Stock.Initial)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad_stock", map[string]string{"STOCK_INICIAL_8_CARBON": "many"}, "STOCK_INICIAL_8_CARBON"},
		{"bad_lookback", map[string]string{"REPORT_LOOKBACK_DAYS": "-1"}, "REPORT_LOOKBACK_DAYS"},
		{"bad_source", map[string]string{"SALES_SOURCE": "csv"}, "SALES_SOURCE"},
		{"sheets_without_id", map[string]string{"SALES_SOURCE": "sheets"}, "GOOGLE_SHEET_DATABASE_ID"},
		{"sheets_without_credentials", map[string]string{"GOOGLE_SHEET_DATABASE_ID": "sheet"}, "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{"whatsapp_partial", map[string]string{"WHATSAPP_TOKEN": "t"}, "WHATSAPP_PHONE_NUMBER_ID"},
		{"bad_timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}, "TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("testdata/missing.env")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_SheetsSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("SALES_SOURCE", "Sheets")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")

	cfg, err := Load("testdata/missing.env")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sales.Source != SalesSourceSheets {
		t.Errorf("source = %s", cfg.Sales.Source)
	}
}
