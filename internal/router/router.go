package router

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Totarae/MultiLinkProxy/internal/auth"
	"github.com/Totarae/MultiLinkProxy/internal/handlers"
	"github.com/Totarae/MultiLinkProxy/internal/middleware"
)

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, sessions *auth.Sessions, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(middleware.GzipMiddleware)            // Gzip-сжатие

	r.Get("/ping", handler.Ping)

	r.Route("/api", func(r chi.Router) {
		r.Use(sessions.Middleware)

		r.Post("/decode", handler.Decode)
		r.Post("/generate", handler.Generate)

		r.Get("/links", handler.Links)
		r.Get("/links/copy", handler.CopyAll)
		r.Get("/links/{index}/copy", handler.Copy)
		r.Get("/links/{index}/download", handler.Download)
		r.Get("/export", handler.Export)

		r.Get("/notifications", handler.ListNotifications)
		r.Delete("/notifications/{id}", handler.DismissNotification)

		r.Get("/theme", handler.Theme)
		r.Post("/theme/toggle", handler.ToggleTheme)
	})
	return r
}
