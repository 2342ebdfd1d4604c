package adapter

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testParams struct {
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration     `mapstructure:"conn_max_lifetime"`
	Settings        map[string]string `mapstructure:"settings"`
}

func TestDecodeParams(t *testing.T) {
	var p testParams
	err := DecodeParams(map[string]any{
		"max_open_conns":    "8",
		"conn_max_lifetime": "90s",
		"settings":          map[string]any{"threads": "4"},
	}, &p)
	require.NoError(t, err)

	assert.Equal(t, 8, p.MaxOpenConns)
	assert.Equal(t, 90*time.Second, p.ConnMaxLifetime)
	assert.Equal(t, "4", p.Settings["threads"])
}

func TestDecodeParams_Empty(t *testing.T) {
	p := testParams{MaxOpenConns: 3}
	require.NoError(t, DecodeParams(nil, &p))
	assert.Equal(t, 3, p.MaxOpenConns)
}

func TestDecodeParams_UnknownKey(t *testing.T) {
	var p testParams
	err := DecodeParams(map[string]any{"bogus": 1}, &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid target params")
}

func TestBackendMessage(t *testing.T) {
	cause := errors.New("driver failure")
	be := &BackendError{Message: `relation "x" does not exist`, Code: "42P01", Err: cause}

	assert.Equal(t, `relation "x" does not exist (SQLSTATE 42P01)`, be.Error())
	assert.Equal(t, `relation "x" does not exist`, BackendMessage(fmt.Errorf("wrap: %w", be)))
	assert.ErrorIs(t, be, cause)
	assert.Equal(t, "plain", BackendMessage(errors.New("plain")))
	assert.Equal(t, "", BackendMessage(nil))
}
