package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsPresent(t *testing.T) {
	pg, err := fs.Glob(PostgresFS, "postgres/*.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, pg)

	lite, err := fs.Glob(SQLiteFS, "sqlite/*.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, lite)
}

func TestSplitStatements(t *testing.T) {
	script := `-- header
CREATE TABLE a (id INTEGER);

-- second
CREATE INDEX idx_a ON a (id);
`
	got := splitStatements(script)
	assert.Equal(t, []string{
		"CREATE TABLE a (id INTEGER)",
		"CREATE INDEX idx_a ON a (id)",
	}, got)
}
