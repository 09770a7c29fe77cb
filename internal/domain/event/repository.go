package event

import (
	"context"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// Repository stores events. Implementations live in infrastructure/persistence.
type Repository interface {
	// FindByID returns the event or an error matching shared.ErrNotFound.
	FindByID(ctx context.Context, id shared.EventID) (*Event, error)

	// FindAll applies filters (evaluated at now), sorting and pagination.
	FindAll(ctx context.Context, filters Filters, sort shared.SortOptions, page shared.Pagination, now time.Time) (shared.Page[*Event], error)

	// FindUpcoming returns up to limit upcoming events, soonest first.
	FindUpcoming(ctx context.Context, now time.Time, limit int) ([]*Event, error)

	// FindByType returns every event of the given type.
	FindByType(ctx context.Context, t Type) ([]*Event, error)

	Save(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id shared.EventID) error
	Exists(ctx context.Context, id shared.EventID) (bool, error)
	GetPopularTags(ctx context.Context, limit int) ([]shared.TagCount, error)
}
