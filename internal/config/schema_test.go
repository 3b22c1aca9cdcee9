package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchemaEmptyPathReturnsDefault(t *testing.T) {
	schema, err := LoadSchema("")

	require.NoError(t, err)
	assert.Equal(t, DefaultSchema(), schema)
}

func TestLoadSchemaOverridesColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	content := "columns:\n  outlet_id: Outlet\n  gallons_collected: Gallons\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	schema, err := LoadSchema(path)

	require.NoError(t, err)
	assert.Equal(t, "Outlet", schema.Columns.OutletID)
	assert.Equal(t, "Gallons", schema.Columns.Gallons)
	// Unspecified mappings keep their defaults.
	assert.Equal(t, DefaultSchema().Columns.Traps, schema.Columns.Traps)
	assert.NotEmpty(t, schema.Areas)
}

func TestLoadSchemaMissingFile(t *testing.T) {
	_, err := LoadSchema(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
}

func TestValidateRejectsMissingRequiredMapping(t *testing.T) {
	schema := DefaultSchema()
	schema.Columns.OutletID = ""

	err := schema.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "outlet_id")
}

func TestDefaultSchemaHasUnknownAreaFallback(t *testing.T) {
	_, ok := DefaultSchema().Areas["Unknown"]
	assert.True(t, ok)
}
