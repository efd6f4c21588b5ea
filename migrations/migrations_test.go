package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/discord-cache/internal/repository"
)

func TestSchemaCoversEveryTable(t *testing.T) {
	t.Parallel()

	files, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	var schema strings.Builder
	for _, f := range files {
		b, err := fs.ReadFile(FS, f)
		require.NoError(t, err)
		schema.Write(b)
	}
	sql := schema.String()

	for _, name := range append(repository.TableNames, repository.MemberRoleTableName) {
		require.Contains(t, sql, "CREATE TABLE "+name+" (", name)
		require.Contains(t, sql, "DROP TABLE IF EXISTS "+name+";", name)
	}
}
