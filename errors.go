// Copyright 2026 Seaware Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package ormlet

import (
	"database/sql"
	"errors"

	"github.com/seaware/ormlet/internal/predicate"
	"github.com/seaware/ormlet/internal/sqlbuild"
	"github.com/seaware/ormlet/internal/track"
	"github.com/seaware/ormlet/internal/typeinfo"
)

// ErrNoRows is returned by GetByID when no row has the given key.
var ErrNoRows = sql.ErrNoRows

// ErrDuplicateTransaction is returned by Begin while a transaction is
// already active on the unit of work.
var ErrDuplicateTransaction = errors.New("transaction already begun")

// ErrNoActiveTransaction is returned by Commit and Rollback when no
// transaction is active.
var ErrNoActiveTransaction = errors.New("no active transaction")

// MissingPrimaryKeyError is returned when an operation requires a primary
// key binding that the entity type does not declare.
type MissingPrimaryKeyError = typeinfo.MissingPrimaryKeyError

// UnsafeStatementError is returned when an UPDATE or DELETE would be built
// without a WHERE clause.
type UnsafeStatementError = sqlbuild.UnsafeStatementError

// UnsupportedExpressionError is returned when a predicate tree contains a
// node kind the compiler cannot translate.
type UnsupportedExpressionError = predicate.UnsupportedExpressionError

// EntityNotTrackedError is returned by operations that assume prior
// tracking which did not occur.
type EntityNotTrackedError = track.EntityNotTrackedError
