package app_errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgxError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		keys     []string
		wantCode int
		wantType string
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, nil, fiber.StatusConflict, ErrConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, nil, fiber.StatusBadRequest, ErrValidation},
		{"rls", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "42501"}), nil, fiber.StatusForbidden, ErrForbidden},
		{"no rows with key", pgx.ErrNoRows, []string{"task_not_found"}, fiber.StatusNotFound, ErrNotFound},
		{"no rows without key", pgx.ErrNoRows, nil, fiber.StatusInternalServerError, ErrInternal},
		{"other", errors.New("boom"), nil, fiber.StatusInternalServerError, ErrInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapPgxError(tc.err, tc.keys...)
			assert.Equal(t, tc.wantCode, got.Code)
			assert.Equal(t, tc.wantType, got.Type)
		})
	}
}

func TestParseValidationError(t *testing.T) {
	type req struct {
		DisplayName string `validate:"required"`
		Email       string `validate:"required,email"`
	}

	err := validator.New().Struct(req{Email: "nope"})
	details := ParseValidationError(err)

	assert.Len(t, details, 2)
	assert.Equal(t, "display_name", details[0].Field)
	assert.Equal(t, "validation.required", details[0].MessageKey)
	assert.Equal(t, "email", details[1].Field)
	assert.Equal(t, "validation.email", details[1].MessageKey)
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "db down", err.Error())
	assert.Equal(t, "forbidden", Forbidden("forbidden").Error())
}
