package storage

import (
	"context"

	"github.com/Totarae/MultiLinkProxy/internal/model"
)

//go:generate mockgen -source=storage.go -destination=../mocks/mock_storage.go -package=mocks

// Storage определяет интерфейс хранилища пользовательских настроек.
type Storage interface {
	// GetTheme возвращает тему сессии или тему по умолчанию.
	GetTheme(ctx context.Context, sessionID string) (model.Theme, error)
	// SetTheme сохраняет тему сессии.
	SetTheme(ctx context.Context, sessionID string, theme model.Theme) error
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}
