package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floroz/gavel-marketplace/pkg/config"
)

func TestRun_ReturnsStartupErrors(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("MARKETPLACE_DB_URL", "")
		err := run(context.Background(), logger)
		assert.ErrorIs(t, err, config.ErrMissingDatabaseURL)
	})

	t.Run("unparseable database url", func(t *testing.T) {
		t.Setenv("MARKETPLACE_DB_URL", "postgres://user@localhost:5432/db?pool_max_conns=many")
		err := run(context.Background(), logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to parse database config")
	})
}
