package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/risk-catalog/internal/domain"
	"github.com/spec-kit/risk-catalog/internal/events"
	"github.com/spec-kit/risk-catalog/internal/store"
	apperrors "github.com/spec-kit/risk-catalog/pkg/util"
)

// CatalogService fronts the generic document CRUD for catalog collections and
// publishes mutation events for the audit trail.
type CatalogService struct {
	docs       store.DocumentStore
	dispatcher events.Dispatcher
}

// NewCatalogService builds the service.
func NewCatalogService(docs store.DocumentStore, dispatcher events.Dispatcher) *CatalogService {
	return &CatalogService{docs: docs, dispatcher: dispatcher}
}

// List returns every document in the collection.
func (s *CatalogService) List(ctx context.Context, collection string) ([]store.Document, error) {
	docs, err := s.docs.List(ctx, collection)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return docs, nil
}

// Create inserts a document, assigning a logical id when the caller supplied
// none, and returns the stored document.
func (s *CatalogService) Create(ctx context.Context, collection string, doc store.Document, actor *domain.Principal) (store.Document, error) {
	if doc.LogicalID() == "" {
		doc[store.IDField] = uuid.NewString()
	}
	if _, err := s.docs.Insert(ctx, collection, doc); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return nil, apperrors.NewAlreadyExists("document already exists")
		}
		return nil, apperrors.MapError(err)
	}

	s.publishMutation(ctx, events.EventEntityCreated, collection, doc.LogicalID(), actor, nil)
	return doc, nil
}

// Update applies a partial patch to the document with the given logical id.
func (s *CatalogService) Update(ctx context.Context, collection, id string, patch store.Document, actor *domain.Principal) error {
	changed, err := s.docs.Update(ctx, collection, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return apperrors.NewAlreadyExists("document already exists")
		}
		return apperrors.MapError(err)
	}
	if !changed {
		return apperrors.NewNotFound("document", map[string]any{"collection": collection, "id": id})
	}

	fields := make([]string, 0, len(patch))
	for k := range patch {
		fields = append(fields, k)
	}
	s.publishMutation(ctx, events.EventEntityUpdated, collection, id, actor, fields)
	return nil
}

// Delete removes the document with the given logical id.
func (s *CatalogService) Delete(ctx context.Context, collection, id string, actor *domain.Principal) error {
	existed, err := s.docs.Delete(ctx, collection, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !existed {
		return apperrors.NewNotFound("document", map[string]any{"collection": collection, "id": id})
	}

	s.publishMutation(ctx, events.EventEntityDeleted, collection, id, actor, nil)
	return nil
}

func (s *CatalogService) publishMutation(ctx context.Context, eventType events.EventType, collection, id string, actor *domain.Principal, fields []string) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Collection: collection,
		EntityID:   id,
		Timestamp:  time.Now().UTC(),
	}
	if actor != nil {
		event.Actor = events.Actor{UserID: actor.ID, Role: actor.Role}
	}
	if len(fields) > 0 {
		event.Payload = events.EntityChangedPayload{Fields: fields}
	}
	_ = s.dispatcher.Publish(ctx, event)
}
