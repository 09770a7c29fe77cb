package memory

import (
	"context"
	"sync"

	"github.com/civic-hub/civic-site/internal/domain/about"
	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// AboutRepository holds the single organization record.
type AboutRepository struct {
	mu  sync.RWMutex
	org *about.Organization
}

var _ about.Repository = (*AboutRepository)(nil)

func NewAboutRepository(org *about.Organization) *AboutRepository {
	return &AboutRepository{org: org}
}

func (r *AboutRepository) GetOrganization(ctx context.Context) (*about.Organization, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.org == nil {
		return nil, shared.NotFound("organization", "GetOrganization", "default")
	}
	return r.org, nil
}

func (r *AboutRepository) SaveOrganization(ctx context.Context, org *about.Organization) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	r.org = org
	r.mu.Unlock()
	return nil
}
