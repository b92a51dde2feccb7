package app_errors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapPgxError translates driver errors into AppErrors. notFoundKey is used for
// pgx.ErrNoRows; pass "" to treat a missing row as an internal error.
func MapPgxError(err error, notFoundKey ...string) *AppError {
	if errors.Is(err, pgx.ErrNoRows) && len(notFoundKey) > 0 && notFoundKey[0] != "" {
		return NotFound(notFoundKey[0])
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return NewAppError(fiber.StatusConflict, ErrConflict, "conflict", err)
		case "23503", "23514": // foreign_key_violation, check_violation
			return NewAppError(fiber.StatusBadRequest, ErrValidation, "invalid_request", err)
		case "42501": // insufficient_privilege, raised by row-level security
			return NewAppError(fiber.StatusForbidden, ErrForbidden, "forbidden", err)
		}
	}

	return Internal(err)
}
