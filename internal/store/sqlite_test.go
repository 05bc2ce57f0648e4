package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetclean/internal/record"
)

func TestExport(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")
	records := []*record.Record{
		record.FromPairs("id", int64(1), "nama outlet", "Toko \"A\"", "latitude", "-6.208800"),
		record.FromPairs("id", int64(2), "extra", 2.5),
	}

	n, err := Export(ctx, path, "outlets", nil, records)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// exporting again replaces the table
	n, err = Export(ctx, path, "outlets", nil, records[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	cols, err := TableColumns(ctx, db, "outlets")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "nama outlet", "latitude"}, cols)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outlets`).Scan(&count))
	assert.Equal(t, 1, count)

	var name string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT "nama outlet" FROM outlets WHERE id = 1`).Scan(&name))
	assert.Equal(t, `Toko "A"`, name)
}

func TestExportHeader(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")
	records := []*record.Record{record.FromPairs("id", int64(1), "name", "Ana", "note", "x")}

	n, err := Export(ctx, path, "", []string{"name", "id", "phone"}, records)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	cols, err := TableColumns(ctx, db, DefaultTable)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "id", "phone"}, cols)

	var phone sql.NullString
	require.NoError(t, db.QueryRowContext(ctx, `SELECT phone FROM records`).Scan(&phone))
	assert.False(t, phone.Valid)
}

func TestExportEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")
	_, err := Export(ctx, path, "outlets", nil, []*record.Record{record.FromPairs("id", int64(1))})
	require.NoError(t, err)

	n, err := Export(ctx, path, "outlets", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	cols, err := TableColumns(ctx, db, "outlets")
	require.NoError(t, err)
	assert.Empty(t, cols)
}
