package command

import (
	"context"
	"log/slog"

	"github.com/civic-hub/civic-site/internal/application/dto"
	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/internal/domain/user"
	"github.com/civic-hub/civic-site/pkg/logger"
)

// userError refines validation failures into INVALID_EMAIL / INVALID_NAME.
func userError[T any](err error) Result[T] {
	if shared.IsValidation(err) {
		switch shared.ValidationFieldOf(err) {
		case "email":
			return fail[T](ErrInvalidEmail, err.Error())
		case "name":
			return fail[T](ErrInvalidName, err.Error())
		}
	}
	if shared.IsAlreadyExists(err) {
		return fail[T](ErrEmailAlreadyExists, err.Error())
	}
	return failWith[T](err, ErrUserNotFound)
}

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER USER
// ══════════════════════════════════════════════════════════════════════════════

type RegisterUserCommand struct {
	Email string
	Name  string
	Role  string `validate:"omitempty,oneof=admin editor member"`
}

type RegisterUserHandler struct {
	repo user.Repository
	log  *slog.Logger
}

func NewRegisterUserHandler(repo user.Repository, log *slog.Logger) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo, log: logger.OrDefault(log).With(logger.Component("user_commands"))}
}

// Handle creates the account. Addresses are compared after normalization, so
// "Ada@Example.org" collides with "ada@example.org".
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) Result[dto.UserDto] {
	if err := checkInput(cmd); err != nil {
		return fail[dto.UserDto](ErrInvalidInput, err.Error())
	}

	u, err := user.NewUser(cmd.Email, cmd.Name, user.Role(cmd.Role))
	if err != nil {
		return userError[dto.UserDto](err)
	}

	taken, err := h.repo.ExistsByEmail(ctx, u.Email())
	if err != nil {
		h.log.ErrorContext(ctx, "email lookup failed", logger.Err(err))
		return fail[dto.UserDto](ErrRepository, err.Error())
	}
	if taken {
		return fail[dto.UserDto](ErrEmailAlreadyExists, "email "+u.Email().String()+" is already registered")
	}

	if err := h.repo.Save(ctx, u); err != nil {
		if !shared.IsAlreadyExists(err) {
			h.log.ErrorContext(ctx, "save user failed", logger.Err(err))
		}
		return userError[dto.UserDto](err)
	}
	h.log.InfoContext(ctx, "user registered", logger.UserID(u.ID().String()), slog.String("role", u.Role().String()))
	return ok(dto.FromUser(u))
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE USER NAME
// ══════════════════════════════════════════════════════════════════════════════

type UpdateUserNameCommand struct {
	UserID string `validate:"required"`
	Name   string
}

type UpdateUserNameHandler struct {
	repo user.Repository
	log  *slog.Logger
}

func NewUpdateUserNameHandler(repo user.Repository, log *slog.Logger) *UpdateUserNameHandler {
	return &UpdateUserNameHandler{repo: repo, log: logger.OrDefault(log).With(logger.Component("user_commands"))}
}

func (h *UpdateUserNameHandler) Handle(ctx context.Context, cmd UpdateUserNameCommand) Result[dto.UserDto] {
	if err := checkInput(cmd); err != nil {
		return fail[dto.UserDto](ErrInvalidInput, err.Error())
	}
	id, err := shared.ParseUserID(cmd.UserID)
	if err != nil {
		return fail[dto.UserDto](ErrInvalidInput, err.Error())
	}
	current, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return userError[dto.UserDto](err)
	}
	renamed, err := current.UpdateName(cmd.Name)
	if err != nil {
		return userError[dto.UserDto](err)
	}
	if err := h.repo.Save(ctx, renamed); err != nil {
		h.log.ErrorContext(ctx, "save user failed", logger.Err(err))
		return userError[dto.UserDto](err)
	}
	return ok(dto.FromUser(renamed))
}
