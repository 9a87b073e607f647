package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/bagstock/internal/domain/models"
)

type fakeMessaging struct {
	handled  int
	sent     []models.OutboundMessageRequest
	err      error
	verifyOK bool
}

func (f *fakeMessaging) VerifyWebhookToken(_, _, challenge string) (string, error) {
	if !f.verifyOK {
		return "", errors.New("invalid verify token")
	}
	return challenge, nil
}

func (f *fakeMessaging) HandleWebhook(context.Context, models.WebhookPayload) error {
	f.handled++
	return f.err
}

func (f *fakeMessaging) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	f.sent = append(f.sent, req)
	return f.err
}

func newWebhookEngine(svc *fakeMessaging) *gin.Engine {
	h := NewWebhookHandler(svc, nil)
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	r.POST("/send-message", h.SendMessage)
	return r
}

func TestWebhookVerify(t *testing.T) {
	r := newWebhookEngine(&fakeMessaging{verifyOK: true})
	w := serve(r, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=t&hub.challenge=42", "")
	if w.Code != http.StatusOK || w.Body.String() != "42" {
		t.Fatalf("status = %d, body %q", w.Code, w.Body.String())
	}

	r = newWebhookEngine(&fakeMessaging{})
	if w := serve(r, http.MethodGet, "/webhook?hub.mode=subscribe", ""); w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestWebhookReceive_AcknowledgesFailures(t *testing.T) {
	svc := &fakeMessaging{err: errors.New("send failed")}
	r := newWebhookEngine(svc)

	body := `{"object":"whatsapp_business_account","entry":[{"changes":[{"field":"messages","value":{"messages":[{"from":"569","id":"m1","type":"text","text":{"body":"/consumo"}}]}}]}]}`
	w := serve(r, http.MethodPost, "/webhook", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.handled != 1 {
		t.Errorf("handled %d payloads", svc.handled)
	}

	if w := serve(r, http.MethodPost, "/webhook", "not json"); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestWebhookReceive_StatusCallbackSkipsDispatch(t *testing.T) {
	svc := &fakeMessaging{}
	r := newWebhookEngine(svc)

	body := `{"object":"whatsapp_business_account","entry":[{"changes":[{"field":"messages","value":{"messaging_product":"whatsapp"}}]}]}`
	if w := serve(r, http.MethodPost, "/webhook", body); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.handled != 0 {
		t.Errorf("status callback dispatched %d times", svc.handled)
	}
}

func TestSendMessage(t *testing.T) {
	svc := &fakeMessaging{}
	r := newWebhookEngine(svc)

	w := serve(r, http.MethodPost, "/send-message", `{"to":"569","message":"hola"}`)
	if w.Code != http.StatusAccepted || !strings.Contains(w.Body.String(), `"to":"569"`) {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(svc.sent) != 1 || svc.sent[0].To != "569" {
		t.Errorf("unexpected sent %+v", svc.sent)
	}

	if w := serve(r, http.MethodPost, "/send-message", `{"to":"569"}`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	svc.err = errors.New("api down")
	if w := serve(r, http.MethodPost, "/send-message", `{"to":"569","message":"hola"}`); w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}
