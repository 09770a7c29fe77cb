package query

import (
	"context"
	"fmt"

	"github.com/civic-hub/civic-site/internal/application/dto"
	"github.com/civic-hub/civic-site/internal/domain/about"
)

// GetAboutPageHandler renders the organization record.
type GetAboutPageHandler struct {
	repo about.Repository
}

func NewGetAboutPageHandler(repo about.Repository) *GetAboutPageHandler {
	return &GetAboutPageHandler{repo: repo}
}

// Handle returns an error matching shared.ErrNotFound until an organization
// has been saved.
func (h *GetAboutPageHandler) Handle(ctx context.Context) (dto.AboutPageDto, error) {
	org, err := h.repo.GetOrganization(ctx)
	if err != nil {
		return dto.AboutPageDto{}, fmt.Errorf("about page: %w", err)
	}
	return dto.FromOrganization(org), nil
}
