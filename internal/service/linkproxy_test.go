package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Totarae/MultiLinkProxy/internal/export"
	"github.com/Totarae/MultiLinkProxy/internal/links"
	"github.com/Totarae/MultiLinkProxy/internal/mocks"
	"github.com/Totarae/MultiLinkProxy/internal/model"
	"github.com/Totarae/MultiLinkProxy/internal/notify"
	"github.com/Totarae/MultiLinkProxy/internal/service"
	"github.com/Totarae/MultiLinkProxy/internal/storage"
	"github.com/Totarae/MultiLinkProxy/internal/workspace"
)

const wrapped = "https://dl.example.com/dl/eyJ1cmwiOiJodHRwczovL2EuY29tL2ZpbGUuemlwIn0="

func newService(t *testing.T, store storage.Storage) (*service.LinkProxyService, *notify.Center) {
	t.Helper()
	center := notify.NewCenter(time.Minute, time.Minute, zap.NewNop())
	t.Cleanup(center.Close)
	return service.NewLinkProxyService(store, workspace.NewStore(time.Hour), center, zap.NewNop(), "memory"), center
}

func lastMessage(c *notify.Center, session string) notify.Notification {
	list := c.List(session)
	if len(list) == 0 {
		return notify.Notification{}
	}
	return list[len(list)-1]
}

func TestDecode_NotifiesDecodedCount(t *testing.T) {
	svc, center := newService(t, storage.NewMemoryStore())
	ctx := context.Background()

	res, err := svc.Decode(ctx, "s", wrapped+"\nhttps://b.com/y.mp4")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com/file.zip", "https://b.com/y.mp4"}, res.Links)

	n := lastMessage(center, "s")
	assert.Equal(t, notify.SeveritySuccess, n.Severity)
	assert.Equal(t, "1 encoded links decoded, 2 links ready for processing", n.Message)
}

func TestDecode_NothingToDecode(t *testing.T) {
	svc, center := newService(t, storage.NewMemoryStore())

	_, err := svc.Decode(context.Background(), "s", "https://b.com/y.mp4")
	require.NoError(t, err)
	assert.Equal(t, notify.SeverityInfo, lastMessage(center, "s").Severity)
}

func TestDecode_EmptyInput(t *testing.T) {
	svc, center := newService(t, storage.NewMemoryStore())

	_, err := svc.Decode(context.Background(), "s", "  \n ")
	assert.ErrorIs(t, err, links.ErrInputEmpty)
	assert.Equal(t, notify.SeverityError, lastMessage(center, "s").Severity)
}

func TestGenerate_SourcePrecedence(t *testing.T) {
	svc, _ := newService(t, storage.NewMemoryStore())
	ctx := context.Background()

	// без декодирования берутся строки текста как есть
	out, err := svc.Generate(ctx, "s", nil, wrapped)
	require.NoError(t, err)
	assert.Equal(t, wrapped, out[0].Original)

	_, err = svc.Decode(ctx, "s", wrapped)
	require.NoError(t, err)
	out, err = svc.Generate(ctx, "s", nil, "ignored")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "https://a.com/file.zip", out[0].Original)
	assert.Equal(t, "file.zip", out[0].Filename)

	out, err = svc.Generate(ctx, "s", []string{"https://c.com/z.iso", " "}, "ignored")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "z.iso", out[0].Filename)

	stored, err := svc.Links(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, out, stored)
}

func TestGenerate_Empty(t *testing.T) {
	svc, center := newService(t, storage.NewMemoryStore())

	_, err := svc.Generate(context.Background(), "s", nil, "")
	assert.ErrorIs(t, err, links.ErrInputEmpty)
	assert.Equal(t, notify.SeverityError, lastMessage(center, "s").Severity)

	_, err = svc.Links(context.Background(), "s")
	assert.ErrorIs(t, err, service.ErrNoResults)
}

func TestExportCopyDownload(t *testing.T) {
	svc, center := newService(t, storage.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Export(ctx, "s", export.TabCDN, true)
	assert.ErrorIs(t, err, service.ErrNoResults)

	_, err = svc.Generate(ctx, "s", []string{"https://a.com/1.zip", "https://a.com/2.zip"}, "")
	require.NoError(t, err)

	file, err := svc.Export(ctx, "s", export.TabOriginal, true)
	require.NoError(t, err)
	assert.Equal(t, "multi-link-proxy-original-with-filenames.txt", file.Name)
	assert.Equal(t, "1.zip\nhttps://a.com/1.zip\n\n2.zip\nhttps://a.com/2.zip", file.Content)
	assert.Equal(t, notify.SeverityOutput, lastMessage(center, "s").Severity)

	text, err := svc.CopyAll(ctx, "s", export.TabOriginal, false)
	require.NoError(t, err)
	assert.Equal(t, "https://a.com/1.zip\nhttps://a.com/2.zip", text)
	assert.Equal(t, "Copied all 2 links to clipboard.", lastMessage(center, "s").Message)

	text, err = svc.Copy(ctx, "s", 1, export.TabCloudflare, false)
	require.NoError(t, err)
	assert.Equal(t, links.CloudflareURL("https://a.com/2.zip"), text)

	_, err = svc.Copy(ctx, "s", 2, export.TabCDN, false)
	assert.ErrorIs(t, err, service.ErrNotFound)

	target, err := svc.Download(ctx, "s", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://a.com/1.zip", target)
	assert.Equal(t, "Starting download: 1.zip", lastMessage(center, "s").Message)
}

func TestToggleTheme(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStorage(ctrl)
	svc, _ := newService(t, store)
	ctx := context.Background()

	store.EXPECT().GetTheme(ctx, "s").Return(model.ThemeDark, nil)
	store.EXPECT().SetTheme(ctx, "s", model.ThemePaper).Return(nil)

	theme, err := svc.ToggleTheme(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, model.ThemePaper, theme)
}

func TestToggleTheme_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStorage(ctrl)
	svc, _ := newService(t, store)
	ctx := context.Background()

	store.EXPECT().GetTheme(ctx, "s").Return(model.ThemePaper, nil)
	store.EXPECT().SetTheme(ctx, "s", model.ThemeDark).Return(errors.New("disk full"))

	_, err := svc.ToggleTheme(ctx, "s")
	assert.EqualError(t, err, "disk full")
}

func TestPing(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStorage(ctrl)
	svc, _ := newService(t, store)

	store.EXPECT().Ping(gomock.Any()).Return(nil)
	assert.NoError(t, svc.Ping(context.Background()))
}
