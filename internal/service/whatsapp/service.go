package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/config"
	"github.com/mamadbah2/herd-admin/internal/domain/models"
	client "github.com/mamadbah2/herd-admin/pkg/clients/whatsapp"
)

const (
	helpMessage    = "Comandos disponibles:\n/resumen [año] - resumen anual de reportes\n/ayuda - esta ayuda"
	unknownMessage = "Comando no reconocido. Envie /ayuda para ver las opciones."
	replyTimeout   = 10 * time.Second
)

// DigestBuilder renders the yearly digest text.
type DigestBuilder interface {
	CurrentYear() int
	Build(ctx context.Context, year int) string
}

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
}

// MetaWhatsAppService answers report queries received through the WhatsApp
// Cloud API webhook.
type MetaWhatsAppService struct {
	cfg     config.WhatsAppConfig
	client  client.Client
	digest  DigestBuilder
	allowed map[string]struct{}
	logger  *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. Only numbers in
// allowed get answers.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, digest DigestBuilder, allowed []string, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:     cfg,
		client:  client,
		digest:  digest,
		allowed: make(map[string]struct{}, len(allowed)),
		logger:  logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	for _, number := range allowed {
		svc.allowed[number] = struct{}{}
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook answers every inbound message of the payload. The first
// failure is returned after all messages were attempted.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	if _, ok := s.allowed[msg.From]; !ok {
		s.logger.Warn("ignoring message from unknown number", zap.String("from", msg.From))
		return nil
	}

	text := msg.TextBody()
	if text == "" {
		s.logger.Debug("ignoring message without text", zap.String("type", msg.Type))
		return nil
	}

	cmd := models.ParseCommand(text)
	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Int("year", cmd.Year))

	var reply string
	switch cmd.Type {
	case models.CommandSummary:
		year := cmd.Year
		if year == 0 {
			year = s.digest.CurrentYear()
		}
		reply = s.digest.Build(ctx, year)
	case models.CommandHelp:
		reply = helpMessage
	default:
		reply = unknownMessage
	}

	replyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), replyTimeout)
	defer cancel()

	_, err := s.client.SendTextMessage(replyCtx, client.SendTextMessageRequest{To: msg.From, Body: reply})
	return err
}
