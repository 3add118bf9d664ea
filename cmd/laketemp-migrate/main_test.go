package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "config.db")

	require.NoError(t, run(db, "up", ""))
	require.NoError(t, run(db, "version", ""))
	require.NoError(t, run(db, "down", "0"))
	require.NoError(t, run(db, "to", "1"))

	assert.Error(t, run(db, "down", ""))
	assert.Error(t, run(db, "to", "one"))
	assert.Error(t, run(db, "sideways", ""))
}
