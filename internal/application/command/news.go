package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/civic-hub/civic-site/internal/application/dto"
	"github.com/civic-hub/civic-site/internal/domain/news"
	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/logger"
)

// PublishNewsCommand publishes a draft. A zero PublishedAt means now.
type PublishNewsCommand struct {
	NewsID      string `validate:"required"`
	PublishedAt time.Time
}

// UnpublishNewsCommand turns an article back into a draft.
type UnpublishNewsCommand struct {
	NewsID string `validate:"required"`
}

type publicationHandler struct {
	repo      news.Repository
	publisher shared.EventPublisher
	log       *slog.Logger
}

func (h publicationHandler) handle(ctx context.Context, rawID, op string, apply func(*news.Article) (*news.Article, error)) Result[dto.NewsDto] {
	id, err := shared.ParseNewsID(rawID)
	if err != nil {
		return failWith[dto.NewsDto](err, ErrNewsNotFound)
	}
	current, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return failWith[dto.NewsDto](err, ErrNewsNotFound)
	}

	updated, err := apply(current)
	if err != nil {
		return failWith[dto.NewsDto](err, ErrNewsNotFound)
	}
	// Publishing twice or unpublishing a draft returns the same article.
	if updated == current {
		h.log.DebugContext(ctx, "publication unchanged", logger.Operation(op), logger.NewsID(rawID))
		return ok(dto.FromArticle(updated))
	}

	if err := h.repo.Save(ctx, updated); err != nil {
		err = fmt.Errorf("save article %s: %w", id, err)
		h.log.ErrorContext(ctx, "publication failed", logger.Operation(op), logger.Err(err))
		return fail[dto.NewsDto](ErrRepository, err.Error())
	}
	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, news.NewPublicationChangedEvent(updated)); err != nil {
			h.log.ErrorContext(ctx, "failed to publish news event", logger.NewsID(rawID), logger.Err(err))
		}
	}
	h.log.InfoContext(ctx, "publication changed", logger.Operation(op), logger.NewsID(rawID))
	return ok(dto.FromArticle(updated))
}

// PublishNewsHandler handles PublishNewsCommand. Publishing an already
// published article succeeds and keeps its original date.
type PublishNewsHandler struct {
	inner publicationHandler
}

func NewPublishNewsHandler(repo news.Repository, publisher shared.EventPublisher, log *slog.Logger) *PublishNewsHandler {
	return &PublishNewsHandler{inner: publicationHandler{
		repo:      repo,
		publisher: publisher,
		log:       logger.OrDefault(log).With(logger.Component("news_commands")),
	}}
}

func (h *PublishNewsHandler) Handle(ctx context.Context, cmd PublishNewsCommand) Result[dto.NewsDto] {
	if err := checkInput(cmd); err != nil {
		return fail[dto.NewsDto](ErrInvalidInput, err.Error())
	}
	return h.inner.handle(ctx, cmd.NewsID, "publish", func(a *news.Article) (*news.Article, error) {
		return a.Publish(cmd.PublishedAt)
	})
}

// UnpublishNewsHandler handles UnpublishNewsCommand.
type UnpublishNewsHandler struct {
	inner publicationHandler
}

func NewUnpublishNewsHandler(repo news.Repository, publisher shared.EventPublisher, log *slog.Logger) *UnpublishNewsHandler {
	return &UnpublishNewsHandler{inner: publicationHandler{
		repo:      repo,
		publisher: publisher,
		log:       logger.OrDefault(log).With(logger.Component("news_commands")),
	}}
}

func (h *UnpublishNewsHandler) Handle(ctx context.Context, cmd UnpublishNewsCommand) Result[dto.NewsDto] {
	if err := checkInput(cmd); err != nil {
		return fail[dto.NewsDto](ErrInvalidInput, err.Error())
	}
	return h.inner.handle(ctx, cmd.NewsID, "unpublish", (*news.Article).Unpublish)
}
