package service

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kruxfinance/support-chat/internal/store"
	apperrors "github.com/kruxfinance/support-chat/pkg/util/errorutil"
)

// InvalidCredentialsMessage is the message shown for any failed login.
const InvalidCredentialsMessage = "Invalid credentials. Please try again."

// ResolutionNote is appended by the agent who resolves a ticket.
const ResolutionNote = "This conversation has been marked as resolved."

func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrTicketNotFound):
		return apperrors.NewNotFound("ticket", nil)
	case errors.Is(err, store.ErrInvalidTransition), errors.Is(err, store.ErrStatusChanged):
		return apperrors.NewConflict(err.Error(), nil)
	case errors.Is(err, store.ErrInvalidMessage), errors.Is(err, store.ErrInvalidTicket):
		return apperrors.NewValidationError(err.Error(), nil)
	default:
		return apperrors.NewInternalError(err)
	}
}

func newTicketID() string {
	return "ticket-" + uuid.NewString()
}

func newMessageID() string {
	return "msg-" + uuid.NewString()
}
