package repository

import (
	"context"
	"time"

	"github.com/spec-kit/risk-catalog/internal/domain"
	"github.com/spec-kit/risk-catalog/internal/store"
)

// UserRepository defines persistence access for principals. Principals live in
// the users collection of whichever document store backs the process, keyed by
// their application-level id.
type UserRepository interface {
	Create(ctx context.Context, p *domain.Principal) error
	GetByID(ctx context.Context, id string) (*domain.Principal, error)
	List(ctx context.Context) ([]*domain.Principal, error)
	Update(ctx context.Context, id string, patch store.Document) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type userRepository struct {
	docs store.DocumentStore
}

// NewUserRepository returns a document-store-backed implementation.
func NewUserRepository(docs store.DocumentStore) UserRepository {
	return &userRepository{docs: docs}
}

func (r *userRepository) Create(ctx context.Context, p *domain.Principal) error {
	_, err := r.docs.Insert(ctx, domain.CollectionUsers, principalToDoc(p))
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.Principal, error) {
	doc, err := r.docs.FindByID(ctx, domain.CollectionUsers, id)
	if err != nil {
		return nil, err
	}
	return docToPrincipal(doc), nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.Principal, error) {
	docs, err := r.docs.List(ctx, domain.CollectionUsers)
	if err != nil {
		return nil, err
	}
	principals := make([]*domain.Principal, 0, len(docs))
	for _, doc := range docs {
		principals = append(principals, docToPrincipal(doc))
	}
	return principals, nil
}

func (r *userRepository) Update(ctx context.Context, id string, patch store.Document) (bool, error) {
	return r.docs.Update(ctx, domain.CollectionUsers, id, patch)
}

func (r *userRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.docs.Delete(ctx, domain.CollectionUsers, id)
}

func principalToDoc(p *domain.Principal) store.Document {
	return store.Document{
		store.IDField:   p.ID,
		"email":         p.Email,
		"role":          string(p.Role),
		"companyName":   p.CompanyName,
		"password_hash": p.PasswordHash,
		"created_at":    p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func docToPrincipal(doc store.Document) *domain.Principal {
	p := &domain.Principal{
		ID:   doc.LogicalID(),
		Role: domain.RoleUser,
	}
	if email, ok := doc["email"].(string); ok {
		p.Email = email
	}
	if role, ok := doc["role"].(string); ok && domain.Role(role).Valid() {
		p.Role = domain.Role(role)
	}
	if company, ok := doc["companyName"].(string); ok {
		p.CompanyName = company
	}
	if hash, ok := doc["password_hash"].(string); ok {
		p.PasswordHash = hash
	}
	if created, ok := doc["created_at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, created); err == nil {
			p.CreatedAt = ts
		}
	}
	return p
}
