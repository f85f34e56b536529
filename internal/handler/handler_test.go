package handler

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"dinio/internal/service"
)

func TestFlashMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"validation error uses its message",
			&service.ValidationError{Field: "name", Message: "record name is required"},
			"record name is required",
		},
		{
			"wrapped conflict",
			fmt.Errorf("record with the same values: %w", service.ErrConflict),
			"An entry with the same values already exists.",
		},
		{
			"not found hides ownership",
			service.ErrNotFound,
			"Not found, or it does not belong to you.",
		},
		{
			"unknown error passes through",
			errors.New("connection refused"),
			"Error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flashMessage(tt.err); !strings.Contains(got, tt.want) && got != tt.want {
				t.Errorf("flashMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
