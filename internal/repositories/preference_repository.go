package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Totarae/MultiLinkProxy/internal/database"
	"github.com/Totarae/MultiLinkProxy/internal/model"
	"github.com/Totarae/MultiLinkProxy/internal/storage"
)

// PreferenceRepository хранит темы сессий в PostgreSQL.
type PreferenceRepository struct {
	DB database.DBInterface
}

var _ storage.Storage = (*PreferenceRepository)(nil)

// NewPreferenceRepository создаёт новый экземпляр PreferenceRepository.
func NewPreferenceRepository(db database.DBInterface) *PreferenceRepository {
	return &PreferenceRepository{DB: db}
}

// GetTheme возвращает тему сессии, для неизвестной сессии тему по умолчанию.
func (r *PreferenceRepository) GetTheme(ctx context.Context, sessionID string) (model.Theme, error) {
	var raw string
	err := r.DB.QueryRow(ctx, `SELECT theme FROM preferences WHERE session_id = $1`, sessionID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.DefaultTheme, nil
		}
		return "", fmt.Errorf("database query error: %w", err)
	}
	return model.ParseTheme(raw)
}

// SetTheme сохраняет тему, существующая запись перезаписывается.
func (r *PreferenceRepository) SetTheme(ctx context.Context, sessionID string, theme model.Theme) error {
	query := `INSERT INTO preferences (session_id, theme, updated)
              VALUES ($1, $2, now())
              ON CONFLICT (session_id) DO UPDATE SET theme = EXCLUDED.theme, updated = now()`

	if _, err := r.DB.Exec(ctx, query, sessionID, string(theme)); err != nil {
		return fmt.Errorf("database upsert error: %w", err)
	}
	return nil
}

// Ping проверяет доступность базы данных.
func (r *PreferenceRepository) Ping(ctx context.Context) error {
	return r.DB.Ping(ctx)
}
