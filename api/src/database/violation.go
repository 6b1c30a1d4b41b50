package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/ydb-platform/ydb-go-genproto/protos/Ydb"
	"github.com/ydb-platform/ydb-go-sdk/v3"
)

type Violation int

const (
	NoViolation Violation = iota
	PrimaryKeyViolation
	UniqueViolation
)

func (v Violation) String() string {
	switch v {
	case PrimaryKeyViolation:
		return "primary key violation"
	case UniqueViolation:
		return "unique violation"
	default:
		return "no violation"
	}
}

const pgUniqueViolation = "23505"

// ConstraintViolation classifies an insert/update error by the constraint
// that rejected it. YDB reports both key and unique index conflicts as
// PRECONDITION_FAILED, so callers there check uniqueness first and treat
// the status as a primary-key clash.
func ConstraintViolation(err error) Violation {
	if err == nil {
		return NoViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return NoViolation
		}
		if strings.HasSuffix(pgErr.ConstraintName, "_pkey") {
			return PrimaryKeyViolation
		}
		return UniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey:
			return PrimaryKeyViolation
		case sqlite3.ErrConstraintUnique:
			return UniqueViolation
		}
		return NoViolation
	}

	if ydb.IsOperationError(err, Ydb.StatusIds_PRECONDITION_FAILED) {
		return PrimaryKeyViolation
	}

	return NoViolation
}
