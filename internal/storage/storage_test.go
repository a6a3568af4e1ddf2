package storage_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Totarae/MultiLinkProxy/internal/model"
	"github.com/Totarae/MultiLinkProxy/internal/storage"
)

// Тест хранения темы в памяти
func TestMemoryStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	theme, err := store.GetTheme(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, theme)

	require.NoError(t, store.SetTheme(ctx, "s1", model.ThemePaper))
	theme, err = store.GetTheme(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.ThemePaper, theme)
	assert.NoError(t, store.Ping(ctx))
}

// Тест загрузки данных из файла
func TestFileStore_LoadFromFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "prefs.json")

	var content []byte
	for _, e := range []model.PreferenceEntry{
		{SessionID: "a", Theme: model.ThemePaper},
		{SessionID: "b", Theme: "neon"},
		{SessionID: "a", Theme: model.ThemeDark},
		{SessionID: "c", Theme: model.ThemePaper},
	} {
		data, err := json.Marshal(e)
		require.NoError(t, err)
		content = append(content, append(data, '\n')...)
	}
	require.NoError(t, os.WriteFile(tmpFile, content, 0644))

	store, err := storage.NewFileStore(tmpFile, nil)
	require.NoError(t, err)

	ctx := context.Background()
	a, _ := store.GetTheme(ctx, "a")
	b, _ := store.GetTheme(ctx, "b")
	c, _ := store.GetTheme(ctx, "c")
	assert.Equal(t, model.ThemeDark, a)
	assert.Equal(t, model.ThemeDark, b)
	assert.Equal(t, model.ThemePaper, c)
}

// Тест сохранения между перезапусками
func TestFileStore_PersistsAcrossRestart(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "prefs.json")
	ctx := context.Background()

	store, err := storage.NewFileStore(tmpFile, nil)
	require.NoError(t, err)
	require.NoError(t, store.SetTheme(ctx, "user", model.ThemePaper))
	assert.NoError(t, store.Ping(ctx))

	raw, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"theme":"paper"`)

	reopened, err := storage.NewFileStore(tmpFile, nil)
	require.NoError(t, err)
	theme, err := reopened.GetTheme(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, model.ThemePaper, theme)
}

func TestFileStore_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStore(filepath.Join(dir, "missing", "prefs.json"), nil)
	require.NoError(t, err)

	err = store.SetTheme(context.Background(), "s", model.ThemePaper)
	assert.Error(t, err)

	theme, _ := store.GetTheme(context.Background(), "s")
	assert.Equal(t, model.ThemeDark, theme)
}

// Тест повреждённой записи: загрузка останавливается и пишет предупреждение
func TestFileStore_CorruptEntryIsLogged(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "prefs.json")
	content := `{"session_id":"a","theme":"paper"}` + "\n" +
		"not json\n" +
		`{"session_id":"c","theme":"paper"}` + "\n"
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	core, logs := observer.New(zapcore.WarnLevel)
	store, err := storage.NewFileStore(tmpFile, zap.New(core))
	require.NoError(t, err)

	a, _ := store.GetTheme(context.Background(), "a")
	assert.Equal(t, model.ThemePaper, a)

	warnings := logs.FilterMessage("preference replay stopped at corrupt entry").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, tmpFile, warnings[0].ContextMap()["file"])
}

// Тест чистого конца файла: предупреждений нет
func TestFileStore_CleanEOFNotLogged(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{"session_id":"a","theme":"paper"}`+"\n"), 0644))

	core, logs := observer.New(zapcore.WarnLevel)
	_, err := storage.NewFileStore(tmpFile, zap.New(core))
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}
