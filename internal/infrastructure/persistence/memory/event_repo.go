package memory

import (
	"context"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/event"
	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// EventRepository implements event.Repository.
type EventRepository struct {
	store *store[shared.EventID, *event.Event]
}

var _ event.Repository = (*EventRepository)(nil)

func NewEventRepository(seed ...*event.Event) *EventRepository {
	r := &EventRepository{store: newStore[shared.EventID, *event.Event]()}
	for _, e := range seed {
		r.store.put(e.ID(), e)
	}
	return r
}

func (r *EventRepository) FindByID(ctx context.Context, id shared.EventID) (*event.Event, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	e, ok := r.store.get(id)
	if !ok {
		return nil, shared.NotFound("event", "FindByID", id.String())
	}
	return e, nil
}

func (r *EventRepository) FindAll(ctx context.Context, filters event.Filters, sort shared.SortOptions, page shared.Pagination, now time.Time) (shared.Page[*event.Event], error) {
	if err := alive(ctx); err != nil {
		return shared.Page[*event.Event]{}, err
	}
	matched := event.FilterEvents(r.store.all(), filters, now)
	return shared.Paginate(event.SortEvents(matched, sort), page), nil
}

func (r *EventRepository) FindUpcoming(ctx context.Context, now time.Time, limit int) ([]*event.Event, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	return event.GetUpcomingEvents(r.store.all(), now, limit), nil
}

func (r *EventRepository) FindByType(ctx context.Context, t event.Type) ([]*event.Event, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	return shared.Filter(r.store.all(), func(e *event.Event) bool { return e.Type() == t }), nil
}

func (r *EventRepository) Save(ctx context.Context, e *event.Event) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.store.put(e.ID(), e)
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id shared.EventID) error {
	if err := alive(ctx); err != nil {
		return err
	}
	if !r.store.remove(id) {
		return shared.NotFound("event", "Delete", id.String())
	}
	return nil
}

func (r *EventRepository) Exists(ctx context.Context, id shared.EventID) (bool, error) {
	if err := alive(ctx); err != nil {
		return false, err
	}
	_, ok := r.store.get(id)
	return ok, nil
}

func (r *EventRepository) GetPopularTags(ctx context.Context, limit int) ([]shared.TagCount, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	return event.GetPopularTags(r.store.all(), limit), nil
}
