package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/risk-catalog/internal/config"
	"github.com/spec-kit/risk-catalog/internal/events"
)

// AuditService records auth and catalog-mutation events as structured audit
// log entries.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AuditConfig
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleAuthEvent)
	a.dispatcher.Subscribe(events.EventUserLoggedIn, a.handleAuthEvent)
	a.dispatcher.Subscribe(events.EventEntityCreated, a.handleMutationEvent)
	a.dispatcher.Subscribe(events.EventEntityUpdated, a.handleMutationEvent)
	a.dispatcher.Subscribe(events.EventEntityDeleted, a.handleMutationEvent)
}

func (a *AuditService) handleAuthEvent(ctx context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event", string(event.Type)),
		zap.String("actor", event.Actor.UserID),
		zap.Time("at", event.Timestamp))
	a.sendWebhookStub(ctx, event)
	return nil
}

func (a *AuditService) handleMutationEvent(ctx context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event", string(event.Type)),
		zap.String("collection", event.Collection),
		zap.String("entity_id", event.EntityID),
		zap.String("actor", event.Actor.UserID),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.Time("at", event.Timestamp))
	a.sendWebhookStub(ctx, event)
	return nil
}

func (a *AuditService) sendWebhookStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	a.logger.Debug("sendWebhookStub",
		zap.String("url", a.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
