package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
)

func newTestServer(t *testing.T, status int, reply string, captured *messageRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "key" {
			t.Errorf("missing api key header")
		}
		if captured != nil {
			_ = json.NewDecoder(r.Body).Decode(captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
}

func TestTranslateToCommand(t *testing.T) {
	var req messageRequest
	srv := newTestServer(t, http.StatusOK, `{"content":[{"text":"consumo 2026-01-01 2026-01-31\nextra"}]}`, &req)
	defer srv.Close()

	c := newClient("key", srv.URL)
	c.now = func() time.Time { return time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC) }

	got, err := c.TranslateToCommand(context.Background(), "consumo de enero")
	if err != nil {
		t.Fatalf("TranslateToCommand: %v", err)
	}
	if got != "/consumo 2026-01-01 2026-01-31" {
		t.Errorf("got %q", got)
	}

	if !strings.Contains(req.System, "Today is 2026-10-15") {
		t.Errorf("system prompt missing date: %s", req.System)
	}
	if len(req.Messages) != 2 || req.Messages[1].Content != "/" {
		t.Errorf("expected prefilled assistant turn, got %+v", req.Messages)
	}
}

func TestTranslateToCommand_TodayInReportingZone(t *testing.T) {
	loc, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	var req messageRequest
	srv := newTestServer(t, http.StatusOK, `{"content":[{"text":"inventario"}]}`, &req)
	defer srv.Close()

	c := newClient("key", srv.URL)
	c.loc = loc
	// 01:30 UTC is still the previous evening in Santiago
	c.now = func() time.Time { return time.Date(2026, 10, 16, 1, 30, 0, 0, time.UTC) }

	if _, err := c.TranslateToCommand(context.Background(), "stock de hoy"); err != nil {
		t.Fatalf("TranslateToCommand: %v", err)
	}
	if !strings.Contains(req.System, "Today is 2026-10-15") {
		t.Errorf("system prompt date not in reporting zone: %s", req.System)
	}
}

func TestTranslateToCommand_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
	}{
		{"api_error", http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`},
		{"empty_content", http.StatusOK, `{"content":[]}`},
		{"blank_text", http.StatusOK, `{"content":[{"text":"  "}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.reply, nil)
			defer srv.Close()

			if _, err := newClient("key", srv.URL).TranslateToCommand(context.Background(), "hola"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
