package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/civic-hub/civic-site/internal/application/dto"
	"github.com/civic-hub/civic-site/internal/domain/event"
	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/logger"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

// ParticipationCommand identifies the event a participant registers for or
// cancels.
type ParticipationCommand struct {
	EventID string `validate:"required"`
}

type participationHandler struct {
	repo      event.Repository
	publisher shared.EventPublisher
	log       *slog.Logger
}

func newParticipationHandler(repo event.Repository, publisher shared.EventPublisher, log *slog.Logger) participationHandler {
	return participationHandler{repo: repo, publisher: publisher, log: logger.OrDefault(log).With(logger.Component("event_commands"))}
}

func (h participationHandler) handle(
	ctx context.Context,
	cmd ParticipationCommand,
	op string,
	apply func(*event.Event) (*event.Event, error),
	raise func(*event.Event) shared.DomainEvent,
) Result[dto.EventDto] {
	if err := checkInput(cmd); err != nil {
		return fail[dto.EventDto](ErrInvalidInput, err.Error())
	}
	id, err := shared.ParseEventID(cmd.EventID)
	if err != nil {
		return failWith[dto.EventDto](err, ErrEventNotFound)
	}

	current, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return failWith[dto.EventDto](err, ErrEventNotFound)
	}

	updated, err := apply(current)
	if err != nil {
		h.log.DebugContext(ctx, "participation rejected",
			logger.Operation(op), logger.EventID(cmd.EventID), logger.Err(err))
		return failWith[dto.EventDto](err, ErrEventNotFound)
	}

	if err := h.repo.Save(ctx, updated); err != nil {
		err = fmt.Errorf("save event %s: %w", id, err)
		h.log.ErrorContext(ctx, "participation failed", logger.Operation(op), logger.Err(err))
		return fail[dto.EventDto](ErrRepository, err.Error())
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, raise(updated)); err != nil {
			h.log.ErrorContext(ctx, "failed to publish participation event",
				logger.EventID(cmd.EventID), logger.Err(err))
		}
	}

	h.log.InfoContext(ctx, "participation updated",
		logger.Operation(op),
		logger.EventID(cmd.EventID),
		slog.Int("participants", updated.CurrentParticipants()))
	return ok(dto.FromEvent(updated, timeutil.Now()))
}

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER PARTICIPANT
// ══════════════════════════════════════════════════════════════════════════════

// RegisterParticipantHandler adds one participant to an event. Failures map to
// EVENT_FULL or REGISTRATION_CLOSED.
type RegisterParticipantHandler struct {
	inner participationHandler
}

func NewRegisterParticipantHandler(repo event.Repository, publisher shared.EventPublisher, log *slog.Logger) *RegisterParticipantHandler {
	return &RegisterParticipantHandler{inner: newParticipationHandler(repo, publisher, log)}
}

func (h *RegisterParticipantHandler) Handle(ctx context.Context, cmd ParticipationCommand) Result[dto.EventDto] {
	return h.inner.handle(ctx, cmd, "register_participant",
		(*event.Event).AddParticipant,
		func(e *event.Event) shared.DomainEvent { return event.NewParticipantRegisteredEvent(e) })
}

// ══════════════════════════════════════════════════════════════════════════════
// CANCEL PARTICIPATION
// ══════════════════════════════════════════════════════════════════════════════

// CancelParticipationHandler removes one participant. An event without
// participants yields NO_PARTICIPANTS.
type CancelParticipationHandler struct {
	inner participationHandler
}

func NewCancelParticipationHandler(repo event.Repository, publisher shared.EventPublisher, log *slog.Logger) *CancelParticipationHandler {
	return &CancelParticipationHandler{inner: newParticipationHandler(repo, publisher, log)}
}

func (h *CancelParticipationHandler) Handle(ctx context.Context, cmd ParticipationCommand) Result[dto.EventDto] {
	return h.inner.handle(ctx, cmd, "cancel_participation",
		(*event.Event).RemoveParticipant,
		func(e *event.Event) shared.DomainEvent { return event.NewParticipationCancelledEvent(e) })
}
