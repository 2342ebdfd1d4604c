package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	err := &StoreError{Op: "Get record", Table: "widgets", Err: ErrNotFound}

	assert.Equal(t, "Get record error: record not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("outer: %w", err)))

	var se *StoreError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &se))
	assert.Equal(t, "widgets", se.Table)
}

func TestSchemaError(t *testing.T) {
	cause := errors.New(`relation "x" does not exist`)
	err := &SchemaError{Op: "Alter table", Table: "x", Err: cause}

	assert.Equal(t, `Alter table error: relation "x" does not exist`, err.Error())
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsNotFound(err))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("table", "must be a non-empty string")
	assert.Equal(t, "invalid table: must be a non-empty string", err.Error())
	assert.True(t, IsValidation(fmt.Errorf("wrap: %w", err)))
	assert.False(t, IsValidation(ErrNotFound))

	assert.Equal(t, "plain", (&ValidationError{Message: "plain"}).Error())
}
