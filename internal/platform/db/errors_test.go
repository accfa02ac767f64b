package db

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/salesbook/internal/shared"
)

func TestTranslateNoRows(t *testing.T) {
	err := Translate(fmt.Errorf("scan: %w", pgx.ErrNoRows))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTranslateUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "clients_cpf_key"}
	err := Translate(fmt.Errorf("insert client: %w", pgErr))

	assert.ErrorIs(t, err, ErrUniqueViolation)
	name, ok := ViolatedConstraint(fmt.Errorf("wrapped: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "clients_cpf_key", name)
}

func TestTranslatePassesOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	assert.Same(t, boom, Translate(boom))
	assert.NoError(t, Translate(nil))

	_, ok := ViolatedConstraint(boom)
	assert.False(t, ok)
}

func TestSchemaDeclaresStorageBackstops(t *testing.T) {
	ddl := Schema()
	for _, fragment := range []string{
		"clients_cpf_key UNIQUE (cpf)",
		"clients_email_key UNIQUE (email)",
		"phones_client_id_key UNIQUE (client_id)",
		"products_active_name_key",
		"ON DELETE CASCADE",
	} {
		assert.True(t, strings.Contains(ddl, fragment), fragment)
	}
}
