package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Totarae/MultiLinkProxy/internal/auth"
	"github.com/Totarae/MultiLinkProxy/internal/export"
	"github.com/Totarae/MultiLinkProxy/internal/links"
	"github.com/Totarae/MultiLinkProxy/internal/model"
	"github.com/Totarae/MultiLinkProxy/internal/notify"
	"github.com/Totarae/MultiLinkProxy/internal/service"
)

// maxBodySize ограничение на размер вставленного текста.
const maxBodySize = 1 << 20

// LinkService операции над ссылками, которые нужны обработчикам.
type LinkService interface {
	Decode(ctx context.Context, session, raw string) (model.NormalizeResult, error)
	Generate(ctx context.Context, session string, explicit []string, raw string) ([]model.ProcessedLink, error)
	Links(ctx context.Context, session string) ([]model.ProcessedLink, error)
	Export(ctx context.Context, session string, tab export.Tab, withFilenames bool) (service.ExportFile, error)
	CopyAll(ctx context.Context, session string, tab export.Tab, withFilenames bool) (string, error)
	Copy(ctx context.Context, session string, index int, tab export.Tab, withFilename bool) (string, error)
	Download(ctx context.Context, session string, index int) (string, error)
	Theme(ctx context.Context, session string) (model.Theme, error)
	ToggleTheme(ctx context.Context, session string) (model.Theme, error)
	Ping(ctx context.Context) error
}

// Notifications доступ к уведомлениям сессии.
type Notifications interface {
	List(session string) []notify.Notification
	Dismiss(session, id string) bool
}

type Handler struct {
	Service       LinkService
	Notifications Notifications
	Logger        *zap.Logger
}

func NewHandler(svc LinkService, notifications Notifications, logger *zap.Logger) *Handler {
	return &Handler{
		Service:       svc,
		Notifications: notifications,
		Logger:        logger,
	}
}

// Decode принимает текст (text/plain или JSON {"text": ...}) и возвращает декодированные ссылки.
func (h *Handler) Decode(res http.ResponseWriter, req *http.Request) {
	raw, err := readText(res, req)
	if err != nil {
		if tooLarge(err) {
			http.Error(res, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(res, "BadRequest", http.StatusBadRequest)
		return
	}

	result, err := h.Service.Decode(req.Context(), auth.SessionID(req.Context()), raw)
	if err != nil {
		h.writeError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, result)
}

// Generate строит прокси-ссылки.
func (h *Handler) Generate(res http.ResponseWriter, req *http.Request) {
	var body model.GenerateRequest
	if req.ContentLength != 0 {
		err := json.NewDecoder(http.MaxBytesReader(res, req.Body, maxBodySize)).Decode(&body)
		switch {
		case err == nil, errors.Is(err, io.EOF):
		case tooLarge(err):
			http.Error(res, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
			return
		default:
			http.Error(res, "Invalid JSON", http.StatusBadRequest)
			return
		}
	}

	processed, err := h.Service.Generate(req.Context(), auth.SessionID(req.Context()), body.Links, body.Text)
	if err != nil {
		h.writeError(res, err)
		return
	}
	writeJSON(res, http.StatusCreated, processed)
}

// Links список ссылок для вкладки.
func (h *Handler) Links(res http.ResponseWriter, req *http.Request) {
	tab, err := export.ParseTab(req.URL.Query().Get("tab"))
	if err != nil {
		h.writeError(res, err)
		return
	}

	processed, err := h.Service.Links(req.Context(), auth.SessionID(req.Context()))
	if err != nil {
		h.writeError(res, err)
		return
	}

	resp := model.TabResponse{Tab: string(tab), Items: make([]model.TabLink, 0, len(processed))}
	for i, p := range processed {
		resp.Items = append(resp.Items, model.TabLink{ProcessedLink: p, Index: i, URL: tab.Pick(p)})
	}
	writeJSON(res, http.StatusOK, resp)
}

// Export отдаёт txt-файл как вложение.
func (h *Handler) Export(res http.ResponseWriter, req *http.Request) {
	tab, withFilenames, err := tabParams(req)
	if err != nil {
		h.writeError(res, err)
		return
	}

	file, err := h.Service.Export(req.Context(), auth.SessionID(req.Context()), tab, withFilenames)
	if err != nil {
		h.writeError(res, err)
		return
	}

	res.Header().Set("Content-Type", "text/plain; charset=utf-8")
	res.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	res.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(res, file.Content)
}

// CopyAll текст всех ссылок вкладки.
func (h *Handler) CopyAll(res http.ResponseWriter, req *http.Request) {
	tab, withFilenames, err := tabParams(req)
	if err != nil {
		h.writeError(res, err)
		return
	}

	text, err := h.Service.CopyAll(req.Context(), auth.SessionID(req.Context()), tab, withFilenames)
	if err != nil {
		h.writeError(res, err)
		return
	}
	writeText(res, text)
}

// Copy текст одной записи.
func (h *Handler) Copy(res http.ResponseWriter, req *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(req, "index"))
	if err != nil {
		http.Error(res, "Bad Request: invalid index", http.StatusBadRequest)
		return
	}
	tab, withFilename, err := tabParams(req)
	if err != nil {
		h.writeError(res, err)
		return
	}

	text, err := h.Service.Copy(req.Context(), auth.SessionID(req.Context()), index, tab, withFilename)
	if err != nil {
		h.writeError(res, err)
		return
	}
	writeText(res, text)
}

// Download перенаправляет на исходную ссылку записи.
func (h *Handler) Download(res http.ResponseWriter, req *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(req, "index"))
	if err != nil {
		http.Error(res, "Bad Request: invalid index", http.StatusBadRequest)
		return
	}

	target, err := h.Service.Download(req.Context(), auth.SessionID(req.Context()), index)
	if err != nil {
		h.writeError(res, err)
		return
	}

	res.Header().Set("Location", target)
	res.WriteHeader(http.StatusTemporaryRedirect)
}

// ListNotifications активные уведомления сессии.
func (h *Handler) ListNotifications(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, h.Notifications.List(auth.SessionID(req.Context())))
}

// DismissNotification закрывает уведомление досрочно.
func (h *Handler) DismissNotification(res http.ResponseWriter, req *http.Request) {
	if !h.Notifications.Dismiss(auth.SessionID(req.Context()), chi.URLParam(req, "id")) {
		http.NotFound(res, req)
		return
	}
	res.WriteHeader(http.StatusNoContent)
}

// Theme текущая тема.
func (h *Handler) Theme(res http.ResponseWriter, req *http.Request) {
	theme, err := h.Service.Theme(req.Context(), auth.SessionID(req.Context()))
	if err != nil {
		h.writeError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, model.ThemeResponse{Theme: string(theme)})
}

// ToggleTheme переключает тему.
func (h *Handler) ToggleTheme(res http.ResponseWriter, req *http.Request) {
	theme, err := h.Service.ToggleTheme(req.Context(), auth.SessionID(req.Context()))
	if err != nil {
		h.writeError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, model.ThemeResponse{Theme: string(theme)})
}

// Ping проверяет хранилище настроек.
func (h *Handler) Ping(res http.ResponseWriter, req *http.Request) {
	if err := h.Service.Ping(req.Context()); err != nil {
		h.Logger.Error("ping failed", zap.Error(err))
		http.Error(res, "storage unavailable", http.StatusInternalServerError)
		return
	}
	res.WriteHeader(http.StatusOK)
}

func (h *Handler) writeError(res http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, links.ErrInputEmpty), errors.Is(err, export.ErrUnknownTab):
		http.Error(res, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNoResults), errors.Is(err, service.ErrNotFound):
		http.Error(res, err.Error(), http.StatusNotFound)
	default:
		h.Logger.Error("request failed", zap.Error(err))
		http.Error(res, "Internal Server Error", http.StatusInternalServerError)
	}
}

// readText читает тело целиком. Тело больше maxBodySize отвергается, а не обрезается.
func readText(res http.ResponseWriter, req *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(res, req.Body, maxBodySize))
	if err != nil {
		return "", err
	}

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return string(body), nil
	}

	var payload model.DecodeRequest
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode json: %w", err)
	}
	return payload.Text, nil
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func tabParams(req *http.Request) (export.Tab, bool, error) {
	q := req.URL.Query()
	tab, err := export.ParseTab(q.Get("tab"))
	if err != nil {
		return "", false, err
	}
	withFilenames, _ := strconv.ParseBool(strings.TrimSpace(q.Get("filenames")))
	return tab, withFilenames, nil
}

func writeJSON(res http.ResponseWriter, status int, v any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	if err := json.NewEncoder(res).Encode(v); err != nil {
		zap.L().Error("json encode failed", zap.Error(err))
	}
}

func writeText(res http.ResponseWriter, text string) {
	res.Header().Set("Content-Type", "text/plain; charset=utf-8")
	res.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(res, text)
}
