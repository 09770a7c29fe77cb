// Package command contains write operations (CQRS - Commands).
//
// Handlers never return Go errors. Every outcome, including repository
// failures, is reported through Result with an ErrorCode.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/civic-hub/civic-site/internal/domain/event"
	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// ErrorCode identifies why a command failed.
type ErrorCode string

const (
	ErrInvalidInput            ErrorCode = "INVALID_INPUT"
	ErrInvalidEmail            ErrorCode = "INVALID_EMAIL"
	ErrInvalidName             ErrorCode = "INVALID_NAME"
	ErrEmailAlreadyExists      ErrorCode = "EMAIL_ALREADY_EXISTS"
	ErrUserNotFound            ErrorCode = "USER_NOT_FOUND"
	ErrProjectNotFound         ErrorCode = "PROJECT_NOT_FOUND"
	ErrEventNotFound           ErrorCode = "EVENT_NOT_FOUND"
	ErrNewsNotFound            ErrorCode = "NEWS_NOT_FOUND"
	ErrInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"
	ErrEventFull               ErrorCode = "EVENT_FULL"
	ErrRegistrationClosed      ErrorCode = "REGISTRATION_CLOSED"
	ErrNoParticipants          ErrorCode = "NO_PARTICIPANTS"
	ErrRepository              ErrorCode = "REPOSITORY_ERROR"
)

// Result is the outcome of a command.
type Result[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data,omitempty"`
	Error   ErrorCode `json:"error,omitempty"`
	Message string    `json:"message,omitempty"`
}

func ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](code ErrorCode, message string) Result[T] {
	return Result[T]{Error: code, Message: message}
}

// failWith classifies err. notFound is the code used for missing entities.
func failWith[T any](err error, notFound ErrorCode) Result[T] {
	return fail[T](classify(err, notFound), err.Error())
}

func classify(err error, notFound ErrorCode) ErrorCode {
	switch {
	case shared.IsNotFound(err):
		return notFound
	case shared.ValidationCodeOf(err) == shared.CodeEventFull:
		return ErrEventFull
	case errors.Is(err, shared.ErrStateTransition):
		switch shared.ValidationFieldOf(err) {
		case event.FieldRegistration:
			return ErrRegistrationClosed
		case event.FieldParticipants:
			return ErrNoParticipants
		default:
			return ErrInvalidStatusTransition
		}
	case shared.IsValidation(err):
		return ErrInvalidInput
	default:
		return ErrRepository
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// INPUT VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkInput runs struct tag validation and renders the first failures as
// a single message.
func checkInput(cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(parts, "; "))
}
