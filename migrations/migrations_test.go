package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScripts(t *testing.T) {
	scripts, err := Scripts()
	require.NoError(t, err)
	require.NotEmpty(t, scripts)

	assert.Contains(t, scripts[0], "CREATE TABLE IF NOT EXISTS rooms")
	assert.Contains(t, scripts[0], "UNIQUE KEY uq_rooms_kos_number (kos_id, room_number)")
}
