package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateErr(t *testing.T) {
	assert.NoError(t, translateErr(nil))
	assert.ErrorIs(t, translateErr(pgx.ErrNoRows), ErrNotFound)

	fk := &pgconn.PgError{Code: "23503"}
	assert.ErrorIs(t, translateErr(fk), ErrStorageIntegrity)

	other := errors.New("connection reset")
	assert.Equal(t, other, translateErr(other))

	dup := &pgconn.PgError{Code: "23505"}
	assert.Equal(t, error(dup), translateErr(dup), "unique violations pass through untranslated")
}
