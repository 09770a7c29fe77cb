package news

import (
	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

// AggregateType is the aggregate name carried by every news event.
const AggregateType = "NewsArticle"

const (
	EventNewsPublished   shared.EventType = "NewsPublished"
	EventNewsUnpublished shared.EventType = "NewsUnpublished"
)

// PublicationChangedEvent - an article was published or taken down.
type PublicationChangedEvent struct {
	shared.BaseEvent
	Slug        string
	PublishedAt string // empty when unpublished
}

func NewPublicationChangedEvent(a *Article) PublicationChangedEvent {
	t := EventNewsUnpublished
	at := ""
	if published, ok := a.PublishedAt(); ok {
		t = EventNewsPublished
		at = timeutil.FormatISO(published)
	}
	return PublicationChangedEvent{
		BaseEvent:   shared.NewBaseEvent(t, AggregateType, a.ID().String()),
		Slug:        a.Slug().String(),
		PublishedAt: at,
	}
}

// EventData implements shared.DomainEvent.
func (e PublicationChangedEvent) EventData() map[string]any {
	data := map[string]any{"slug": e.Slug}
	if e.PublishedAt != "" {
		data["publishedAt"] = e.PublishedAt
	}
	return data
}
