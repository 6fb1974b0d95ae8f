package application

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emptySchemaFS embed.FS

func TestRegisterSchemaAssignsPerModuleVersionTables(t *testing.T) {
	m := NewMigrationManager(nil).(*migrationManager)
	m.RegisterSchema("directory", &emptySchemaFS, "schema")
	m.RegisterSchema("staffing", &emptySchemaFS, "schema")

	require.Len(t, m.sources, 2)
	assert.Equal(t, "npiams_schema_versions_directory", m.sources[0].table)
	assert.Equal(t, "npiams_schema_versions_staffing", m.sources[1].table)
	assert.NotEqual(t, m.sources[0].table, m.sources[1].table,
		"modules must not share a version table, or goose rejects one module's versions as missing from the other's sequence")
}

func TestRegisterSchemaPreservesRegistrationOrder(t *testing.T) {
	m := NewMigrationManager(nil).(*migrationManager)
	m.RegisterSchema("staffing", &emptySchemaFS, "a")
	m.RegisterSchema("directory", &emptySchemaFS, "b")

	require.Len(t, m.sources, 2)
	assert.Equal(t, "a", m.sources[0].dir)
	assert.Equal(t, "b", m.sources[1].dir)
}
