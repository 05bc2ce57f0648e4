package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetclean/internal/record"
	"sheetclean/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestJSONToExcelAndBack(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "users.json")
	write(t, in, `{"user": [{"id": 1, "name": "Ana", "born": "1997-03-04"}, {"id": 2, "name": "Budi"}]}`)

	xlsx := filepath.Join(dir, "users.xlsx")
	out, err := run(t, "json2xlsx", in, xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, xlsx)

	back := filepath.Join(dir, "back.json")
	_, err = run(t, "xlsx2json", xlsx, back)
	require.NoError(t, err)

	records, _, err := record.LoadFile(back)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"id", "name", "born"}, records[0].Keys())
	id, _ := records[1].Get("id")
	assert.Equal(t, int64(2), id)
	born, _ := records[1].Get("born")
	assert.Nil(t, born)
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "file1.json")
	b := filepath.Join(dir, "file2.json")
	write(t, a, `{"data": [{"id": 1, "client_id": 10, "name": "Ana"}, {"id": 2, "client_id": 11, "name": "Eka"}]}`)
	write(t, b, `{"data": [{"id": 5, "client_id": 12, "name": " ana "}]}`)

	out, err := run(t, "compare", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "Common names: 1")
	assert.Contains(t, out, " 1. ANA")
	assert.Contains(t, out, "id: 1, client_id: 10")
	assert.Contains(t, out, "id: 5, client_id: 12")
}

func TestMatchCommand(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "user_terdampak.json")
	cand := filepath.Join(dir, "data_user_old.json")
	write(t, ref, `{"user": [{"name": "Ana"}]}`)
	write(t, cand, `[{"nama ": "ANA", "no": 1}, {"nama ": "Budi", "no": 2}]`)

	out := filepath.Join(dir, "matched.json")
	_, err := run(t, "match", ref, cand, out)
	require.NoError(t, err)

	records, _, err := record.LoadFile(out)
	require.NoError(t, err)
	require.Len(t, records, 1)
	no, _ := records[0].Get("no")
	assert.Equal(t, int64(1), no)
}

func TestCleanAndExportCommands(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "outlets.json")
	write(t, in, `[{"nama outlet": " Toko ", "latitude": "-6.2", "ptkp": "TK1"}]`)

	cleaned := filepath.Join(dir, "outlets-clean.json")
	_, err := run(t, "clean", in, cleaned, "--precision", "3")
	require.NoError(t, err)

	records, _, err := record.LoadFile(cleaned)
	require.NoError(t, err)
	require.Len(t, records, 1)
	lat, _ := records[0].Get("latitude")
	assert.Equal(t, "-6.200", lat)

	dbPath := filepath.Join(dir, "outlets.db")
	_, err = run(t, "export-sqlite", in, dbPath, "--clean", "--table", "outlets")
	require.NoError(t, err)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()
	cols, err := store.TableColumns(context.Background(), db, "outlets")
	require.NoError(t, err)
	assert.Equal(t, []string{"nama outlet", "latitude", "ptkp"}, cols)

	var ptkp string
	require.NoError(t, db.QueryRow(`SELECT ptkp FROM outlets`).Scan(&ptkp))
	assert.Equal(t, "TK/1", ptkp)
}

func TestInputFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "users.json")
	write(t, in, `[{"name": "Ana"}]`)
	t.Setenv("SHEETCLEAN_INPUT", in)

	out, err := run(t, "json2xlsx")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "users.xlsx"))
	_, err = os.Stat(filepath.Join(dir, "users.xlsx"))
	assert.NoError(t, err)
}

func TestNoInputFails(t *testing.T) {
	t.Setenv("SHEETCLEAN_INPUT", "")
	_, err := run(t, "clean")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHEETCLEAN_INPUT")
}

func TestMissingFileFails(t *testing.T) {
	_, err := run(t, "json2xlsx", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
