package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Totarae/MultiLinkProxy/internal/export"
	"github.com/Totarae/MultiLinkProxy/internal/links"
	"github.com/Totarae/MultiLinkProxy/internal/model"
	"github.com/Totarae/MultiLinkProxy/internal/notify"
	"github.com/Totarae/MultiLinkProxy/internal/storage"
)

var (
	// ErrNoResults у сессии ещё нет сгенерированных ссылок.
	ErrNoResults = errors.New("no generated links")
	// ErrNotFound нет записи с таким индексом.
	ErrNotFound = errors.New("link not found")
)

// Notifier принимает уведомления для показа пользователю.
type Notifier interface {
	Push(session string, severity notify.Severity, message string) notify.Notification
}

// Workspace хранит результаты последних действий сессии.
type Workspace interface {
	SetResolved(session string, resolved []string)
	SetProcessed(session string, processed []model.ProcessedLink)
	Resolved(session string) []string
	Processed(session string) []model.ProcessedLink
}

// ExportFile содержимое и имя выгружаемого файла.
type ExportFile struct {
	Name    string
	Content string
}

type LinkProxyService struct {
	Store     storage.Storage
	Workspace Workspace
	Notifier  Notifier
	Logger    *zap.Logger
	Mode      string
}

func NewLinkProxyService(store storage.Storage, ws Workspace, notifier Notifier, logger *zap.Logger, mode string) *LinkProxyService {
	return &LinkProxyService{
		Store:     store,
		Workspace: ws,
		Notifier:  notifier,
		Logger:    logger,
		Mode:      mode,
	}
}

// Decode разбирает вставленный текст и запоминает результат в сессии.
func (s *LinkProxyService) Decode(ctx context.Context, session, raw string) (model.NormalizeResult, error) {
	result, err := links.Normalize(raw)
	if err != nil {
		s.Notifier.Push(session, notify.SeverityError, "Please enter your links first")
		return model.NormalizeResult{}, err
	}

	s.Workspace.SetResolved(session, result.Links)

	if result.DecodedCount > 0 {
		s.Notifier.Push(session, notify.SeveritySuccess,
			fmt.Sprintf("%d encoded links decoded, %d links ready for processing", result.DecodedCount, len(result.Links)))
	} else {
		s.Notifier.Push(session, notify.SeverityInfo,
			fmt.Sprintf("%d links ready for processing (no decoding needed)", len(result.Links)))
	}

	s.Logger.Debug("links decoded",
		zap.String("session", session),
		zap.Int("links", len(result.Links)),
		zap.Int("decoded", result.DecodedCount),
	)
	return result, nil
}

// Generate строит прокси-ссылки и заменяет ими результаты сессии.
// Источник ссылок: явный список, затем декодированные ранее ссылки, затем строки raw.
func (s *LinkProxyService) Generate(ctx context.Context, session string, explicit []string, raw string) ([]model.ProcessedLink, error) {
	source := links.SplitLines(strings.Join(explicit, "\n"))
	if len(source) == 0 {
		source = s.Workspace.Resolved(session)
	}
	if len(source) == 0 {
		source = links.SplitLines(raw)
	}

	processed, err := links.Generate(source)
	if err != nil {
		s.Notifier.Push(session, notify.SeverityError, "Please enter your links first")
		return nil, err
	}

	s.Workspace.SetProcessed(session, processed)
	s.Notifier.Push(session, notify.SeveritySuccess, fmt.Sprintf("Processing %d links...", len(processed)))
	return processed, nil
}

// Links возвращает сгенерированные ссылки сессии.
func (s *LinkProxyService) Links(ctx context.Context, session string) ([]model.ProcessedLink, error) {
	processed := s.Workspace.Processed(session)
	if len(processed) == 0 {
		return nil, ErrNoResults
	}
	return processed, nil
}

// Export формирует txt-файл со ссылками вкладки.
func (s *LinkProxyService) Export(ctx context.Context, session string, tab export.Tab, withFilenames bool) (ExportFile, error) {
	processed, err := s.Links(ctx, session)
	if err != nil {
		return ExportFile{}, err
	}

	file := ExportFile{
		Name:    export.FileName(tab, withFilenames),
		Content: export.Format(processed, tab, withFilenames),
	}
	if withFilenames {
		s.Notifier.Push(session, notify.SeverityOutput, fmt.Sprintf("Generated TXT file with %d links and filenames.", len(processed)))
	} else {
		s.Notifier.Push(session, notify.SeverityOutput, fmt.Sprintf("Generated TXT file with %d links.", len(processed)))
	}
	return file, nil
}

// CopyAll текст всех ссылок вкладки для буфера обмена.
func (s *LinkProxyService) CopyAll(ctx context.Context, session string, tab export.Tab, withFilenames bool) (string, error) {
	processed, err := s.Links(ctx, session)
	if err != nil {
		return "", err
	}

	if withFilenames {
		s.Notifier.Push(session, notify.SeverityBulk, fmt.Sprintf("Copied all %d links with filenames to clipboard.", len(processed)))
	} else {
		s.Notifier.Push(session, notify.SeverityBulk, fmt.Sprintf("Copied all %d links to clipboard.", len(processed)))
	}
	return export.Format(processed, tab, withFilenames), nil
}

// Copy текст одной записи для буфера обмена.
func (s *LinkProxyService) Copy(ctx context.Context, session string, index int, tab export.Tab, withFilename bool) (string, error) {
	link, err := s.item(ctx, session, index)
	if err != nil {
		return "", err
	}

	if withFilename {
		s.Notifier.Push(session, notify.SeverityInfo, "Copied link with filename.")
	} else {
		s.Notifier.Push(session, notify.SeverityInfo, "Copied link.")
	}
	return export.Single(link, tab, withFilename), nil
}

// Download возвращает исходную ссылку записи для перенаправления.
func (s *LinkProxyService) Download(ctx context.Context, session string, index int) (string, error) {
	link, err := s.item(ctx, session, index)
	if err != nil {
		return "", err
	}
	s.Notifier.Push(session, notify.SeveritySuccess, "Starting download: "+link.Filename)
	return link.Original, nil
}

// Theme возвращает тему оформления сессии.
func (s *LinkProxyService) Theme(ctx context.Context, session string) (model.Theme, error) {
	return s.Store.GetTheme(ctx, session)
}

// ToggleTheme переключает тему и сохраняет её.
func (s *LinkProxyService) ToggleTheme(ctx context.Context, session string) (model.Theme, error) {
	current, err := s.Store.GetTheme(ctx, session)
	if err != nil {
		s.Logger.Error("failed to read theme", zap.Error(err))
		return "", err
	}

	next := current.Toggle()
	if err := s.Store.SetTheme(ctx, session, next); err != nil {
		s.Logger.Error("failed to save theme", zap.Error(err))
		return "", err
	}
	return next, nil
}

func (s *LinkProxyService) Ping(ctx context.Context) error {
	return s.Store.Ping(ctx)
}

func (s *LinkProxyService) item(ctx context.Context, session string, index int) (model.ProcessedLink, error) {
	processed, err := s.Links(ctx, session)
	if err != nil {
		return model.ProcessedLink{}, err
	}
	if index < 0 || index >= len(processed) {
		return model.ProcessedLink{}, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}
	return processed[index], nil
}
