package handler

import (
	"errors"

	"dinio/internal/model"
	"dinio/internal/service"
)

// flashMessage turns a service error into the user-visible text rendered
// as a flash or inline form error. Ownership failures already arrive as
// ErrNotFound, so nothing here can reveal that a foreign zone exists.
func flashMessage(err error) string {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.Is(err, service.ErrConflict):
		return "An entry with the same values already exists."
	case errors.Is(err, service.ErrNotFound):
		return "Not found, or it does not belong to you."
	default:
		return "Error: " + err.Error()
	}
}

func usernameOf(u *model.User) string {
	if u != nil {
		return u.Username
	}
	return ""
}
