package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
)

// Postgres SQLSTATE codes the store reacts to.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// translate maps driver and gorm errors onto the apperr taxonomy. op names the
// failed operation for logs; notFound is the client message used when the row
// is missing. Already classified errors pass through untouched.
func translate(err error, op, notFound string) error {
	if err == nil {
		return nil
	}

	var classified *apperr.Error
	if errors.As(err, &classified) {
		return err
	}

	if notFound == "" {
		notFound = "resource not found"
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.New(apperr.NotFound, notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.Conflict, err, op+": duplicate key")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Wrap(apperr.NotFound, err, notFound)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return apperr.Wrap(apperr.InvalidArgument, err, op+": value out of range")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgSerializationFailure, pgDeadlockDetected:
			return apperr.Wrap(apperr.Conflict, err, op+": concurrent write")
		case pgForeignKeyViolation:
			return apperr.Wrap(apperr.NotFound, err, notFound)
		case pgCheckViolation:
			return apperr.Wrap(apperr.InvalidArgument, err, op+": value out of range")
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return apperr.Wrap(apperr.Conflict, err, op+": duplicate key")
		case sqlite3.ErrConstraintForeignKey:
			return apperr.Wrap(apperr.NotFound, err, notFound)
		case sqlite3.ErrConstraintCheck:
			return apperr.Wrap(apperr.InvalidArgument, err, op+": value out of range")
		}
		if liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked {
			return apperr.Wrap(apperr.Conflict, err, op+": database busy")
		}
	}

	return apperr.Wrap(apperr.Internal, err, op)
}
