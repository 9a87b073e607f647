package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/bagstock/internal/config"
	"github.com/mamadbah2/bagstock/internal/domain/models"
	"github.com/mamadbah2/bagstock/internal/service/commands"
	"github.com/mamadbah2/bagstock/pkg/clients/anthropic"
	client "github.com/mamadbah2/bagstock/pkg/clients/whatsapp"
)

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	ai         anthropic.Client
	dispatcher commands.Dispatcher
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. ai may be nil, in
// which case only slash commands are understood.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, ai anthropic.Client, dispatcher commands.Dispatcher, logger *zap.Logger) *MetaWhatsAppService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		ai:         ai,
		dispatcher: dispatcher,
		logger:     logger,
	}
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

// HandleWebhook answers every inbound message in the payload. All messages
// are attempted; the first failure is returned.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, msg := range payload.Messages() {
		if err := s.handleInboundMessage(ctx, msg); err != nil {
			s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	text := strings.TrimSpace(msg.Body())
	if text == "" {
		return errors.New("empty message body")
	}

	text = s.translate(ctx, text)
	cmd := models.ParseCommand(text)

	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	reply := s.reply(ctx, cmd, msg.From)
	return s.send(ctx, msg.From, reply, false)
}

// translate rewrites free text into a slash command when an AI client is available.
func (s *MetaWhatsAppService) translate(ctx context.Context, text string) string {
	if s.ai == nil || models.IsSlashCommand(text) {
		return text
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	translated, err := s.ai.TranslateToCommand(ctxWithTimeout, text)
	if err != nil {
		s.logger.Warn("ai translation failed", zap.Error(err))
		return text
	}
	s.logger.Debug("ai translated message", zap.String("input", text), zap.String("command", translated))
	return translated
}

func (s *MetaWhatsAppService) reply(ctx context.Context, cmd models.Command, sender string) string {
	if s.dispatcher == nil {
		return commands.HelpText
	}

	reply, err := s.dispatcher.HandleCommand(ctx, cmd, sender)
	switch {
	case err == nil:
		return reply
	case errors.Is(err, commands.ErrUnsupportedCommand):
		return "Comando no reconocido.\n" + commands.HelpText
	case errors.Is(err, commands.ErrInvalidArguments):
		return "Argumentos inválidos. Uso: /consumo [desde] [hasta] con fechas AAAA-MM-DD."
	default:
		s.logger.Error("command failed", zap.String("command", string(cmd.Type)), zap.Error(err))
		return "No se pudo generar el reporte. Intenta nuevamente más tarde."
	}
}

// SendOutbound lets internal operators and the scheduler push notifications.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	return s.send(ctx, req.To, req.Message, req.PreviewURL)
}

func (s *MetaWhatsAppService) send(ctx context.Context, to, body string, previewURL bool) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, chunk := range client.SplitBody(body, client.MaxBodyLength) {
		_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
			To:         to,
			Body:       chunk,
			PreviewURL: previewURL,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
