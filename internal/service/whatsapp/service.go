package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pramodporuwa/shopsense/internal/config"
	"github.com/pramodporuwa/shopsense/internal/domain/models"
	"github.com/pramodporuwa/shopsense/internal/service/analytics"
	"github.com/pramodporuwa/shopsense/internal/service/assistant"
	"github.com/pramodporuwa/shopsense/internal/service/commands"
	client "github.com/pramodporuwa/shopsense/pkg/clients/whatsapp"
)

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
	SendDocument(ctx context.Context, to, link, filename, caption string) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	assistant  *assistant.Service
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, assistant *assistant.Service, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		assistant:  assistant,
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
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

// HandleWebhook processes inbound webhook payloads.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	if len(payload.Entry) == 0 {
		return nil
	}

	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if len(change.Value.Messages) == 0 {
				continue
			}

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
	text := extractMessageText(msg)
	if text == "" {
		return errors.New("empty message body")
	}

	reply := s.buildReply(ctx, msg.From, text)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         msg.From,
		Body:       reply,
		PreviewURL: false,
	})
	return err
}

func (s *MetaWhatsAppService) buildReply(ctx context.Context, from, text string) string {
	// Slash-prefixed messages are commands; everything else goes to the
	// assistant when one is configured.
	if strings.HasPrefix(strings.TrimSpace(text), "/") {
		cmd := models.ParseCommand(text)

		s.logger.Info("parsed inbound command",
			zap.String("from", from),
			zap.String("command", string(cmd.Type)),
			zap.Any("args", cmd.Args))

		reply, err := s.dispatcher.HandleCommand(ctx, cmd, from)
		if err != nil {
			return commandErrorReply(err)
		}
		return reply
	}

	if s.assistant != nil && s.assistant.Enabled() {
		answer, err := s.assistant.Answer(ctx, from, text)
		if err != nil {
			s.logger.Error("assistant failed", zap.Error(err), zap.String("from", from))
			return "Sorry, I could not work that out right now. Try /help for direct commands."
		}
		return answer
	}

	return "Send /help to see the available commands."
}

func commandErrorReply(err error) string {
	switch {
	case errors.Is(err, commands.ErrUnsupportedCommand):
		return "Unknown command. Send /help to see what I understand."
	case errors.Is(err, commands.ErrInvalidArguments), errors.Is(err, analytics.ErrInvalidArgument):
		return "I could not read those numbers. Send /help for examples."
	case errors.Is(err, analytics.ErrStoreUnavailable):
		return "The analytics store is unreachable right now. Please try again shortly."
	default:
		return "Something went wrong handling that command."
	}
}

// SendOutbound lets internal operators push quick notifications via HTTP.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	return err
}

// SendDocument delivers a link-based document, e.g. a rendered PDF report.
func (s *MetaWhatsAppService) SendDocument(ctx context.Context, to, link, filename, caption string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.client.SendDocumentMessage(ctxWithTimeout, client.SendDocumentMessageRequest{
		To:       to,
		Link:     link,
		Filename: filename,
		Caption:  caption,
	})
	return err
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}

	if msg.Interactive != nil {
		if msg.Interactive.ButtonReply != nil {
			return msg.Interactive.ButtonReply.ID
		}
		if msg.Interactive.ListReply != nil {
			return msg.Interactive.ListReply.ID
		}
	}

	return ""
}
