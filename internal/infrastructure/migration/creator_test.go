package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("writes an up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add lease invoices", "invoice tables")
		require.NoError(t, err)

		assert.Len(t, mf.Version, 14)
		assert.True(t, strings.HasSuffix(mf.UpPath, "_add_lease_invoices.up.sql"))
		assert.True(t, strings.HasSuffix(mf.DownPath, "_add_lease_invoices.down.sql"))

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "add lease invoices")
		assert.Contains(t, string(up), "invoice tables")
		assert.Contains(t, string(up), "UP migration")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Rollback")
		assert.Contains(t, string(down), "DOWN migration")
	})

	t.Run("creates the directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "migrations")

		mf, err := CreateMigration(dir, "init", "")
		require.NoError(t, err)
		assert.FileExists(t, mf.UpPath)
		assert.FileExists(t, mf.DownPath)
	})
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"add_users_table", "add_users_table"},
		{"Add Users Table", "add_users_table"},
		{"add-receipt-allocations", "add_receipt_allocations"},
		{"weird!@#chars", "weirdchars"},
		{"double  spaces", "double_spaces"},
		{"trailing space ", "trailing_space"},
		{"v2 schema", "v2_schema"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.in))
		})
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("lists pairs by their up half", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"20260101000000_first.up.sql",
			"20260101000000_first.down.sql",
			"20260102000000_second.up.sql",
			"20260102000000_second.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0644))
		}

		got, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"20260101000000_first", "20260102000000_second"}, got)
	})

	t.Run("missing directory yields empty list", func(t *testing.T) {
		got, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ignores subdirectories", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0755))

		got, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
