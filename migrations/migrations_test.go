package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := files.ReadDir(".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		script, err := files.ReadFile(entry.Name())
		require.NoError(t, err)
		require.NotEmpty(t, script)
		// Startup re-applies everything, so each script must be idempotent.
		require.Contains(t, strings.ToUpper(string(script)), "IF NOT EXISTS",
			"%s is not idempotent", entry.Name())
	}
}

func TestSchemaCarriesUniquenessConstraints(t *testing.T) {
	script, err := files.ReadFile("001_create_users_table.sql")
	require.NoError(t, err)

	sql := string(script)
	require.Contains(t, sql, "users_email_key")
	require.Contains(t, sql, "uq_activation_tokens_code")
}
