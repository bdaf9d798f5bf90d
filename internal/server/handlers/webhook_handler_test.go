package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/herd-admin/internal/domain/models"
)

type stubMessaging struct {
	payloads []models.WebhookPayload
	err      error
}

func (s *stubMessaging) VerifyWebhookToken(mode, token, challenge string) (string, error) {
	if token != "tok" {
		return "", errors.New("invalid verify token")
	}
	return challenge, nil
}

func (s *stubMessaging) HandleWebhook(_ context.Context, payload models.WebhookPayload) error {
	s.payloads = append(s.payloads, payload)
	return s.err
}

func webhookEngine(svc *stubMessaging) *gin.Engine {
	h := NewWebhookHandler(svc, nil)
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	return r
}

func TestWebhookVerify(t *testing.T) {
	engine := webhookEngine(&stubMessaging{})

	rec := perform(engine, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=tok&hub.challenge=99", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "99" {
		t.Fatalf("verify: status=%d body=%q", rec.Code, rec.Body.String())
	}

	rec = perform(engine, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=bad&hub.challenge=99", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("bad token: want=403 got=%d", rec.Code)
	}
}

func TestWebhookReceiveAcknowledgesFailures(t *testing.T) {
	svc := &stubMessaging{err: errors.New("send failed")}
	engine := webhookEngine(svc)

	body := `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"messages":[{"from":"549","type":"text","text":{"body":"/ayuda"}}]}}]}]}`
	rec := perform(engine, http.MethodPost, "/webhook", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	if len(svc.payloads) != 1 || svc.payloads[0].Entry[0].Changes[0].Value.Messages[0].TextBody() != "/ayuda" {
		t.Fatalf("payload: %+v", svc.payloads)
	}

	if rec := perform(engine, http.MethodPost, "/webhook", "{"); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed: want=400 got=%d", rec.Code)
	}
}
